package generation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestDemoGenerateDrawsFromToolPool(t *testing.T) {
	gen := NewDemoGenerator(42).WithSleep(noSleep)

	resp, err := gen.Generate(context.Background(), domain.GenerationRequest{Tool: "face-swap"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.WellFormed())
	assert.Equal(t, int64(1), resp.CreditsUsed)
	assert.Equal(t, int64(100), resp.RemainingCredits)

	tool, ok := LookupTool("face-swap")
	require.True(t, ok)
	assert.Contains(t, tool.DemoPool, resp.ImageURL)
}

func TestDemoGenerateIsDeterministicForSeed(t *testing.T) {
	a := NewDemoGenerator(7).WithSleep(noSleep)
	b := NewDemoGenerator(7).WithSleep(noSleep)

	for i := 0; i < 10; i++ {
		ra, err := a.Generate(context.Background(), domain.GenerationRequest{Tool: "avatar"})
		require.NoError(t, err)
		rb, err := b.Generate(context.Background(), domain.GenerationRequest{Tool: "avatar"})
		require.NoError(t, err)
		assert.Equal(t, ra.ImageURL, rb.ImageURL)
	}
}

func TestDemoGenerateUnknownTool(t *testing.T) {
	gen := NewDemoGenerator(1).WithSleep(noSleep)

	resp, err := gen.Generate(context.Background(), domain.GenerationRequest{Tool: "mind-reader"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestDemoGenerateHonorsCancellation(t *testing.T) {
	gen := NewDemoGenerator(1) // real sleep, cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, domain.GenerationRequest{Tool: "enhance"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestToolRegistryCosts(t *testing.T) {
	costs := map[string]int64{
		"face-swap":     1,
		"avatar":        2,
		"duo-portrait":  3,
		"poster":        3,
		"age-transform": 2,
		"enhance":       1,
	}
	for id, want := range costs {
		tool, ok := LookupTool(id)
		require.True(t, ok, id)
		assert.Equal(t, want, tool.Cost, id)
		assert.NotEmpty(t, tool.DemoPool, id)
		assert.GreaterOrEqual(t, tool.DemoDelay, 2000*time.Millisecond, id)
		assert.LessOrEqual(t, tool.DemoDelay, 3500*time.Millisecond, id)
	}
}
