package generation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

const (
	demoCreditsUsed      = 1
	demoRemainingCredits = 100
)

// DemoGenerator fabricates results without any network I/O: it sleeps
// the tool's configured latency, then returns an image drawn uniformly
// from the tool's fixed pool.
type DemoGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDemoGenerator(seed int64) *DemoGenerator {
	return &DemoGenerator{
		rng:   rand.New(rand.NewSource(seed)),
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithSleep replaces the delay function. Tests use this to skip the
// simulated latency.
func (g *DemoGenerator) WithSleep(fn func(ctx context.Context, d time.Duration) error) *DemoGenerator {
	g.sleep = fn
	return g
}

func (g *DemoGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	tool, ok := LookupTool(req.Tool)
	if !ok {
		return domain.GenerationResponse{Success: false, Error: domain.ErrUnknownTool.Error()}, nil
	}
	if err := g.sleep(ctx, tool.DemoDelay); err != nil {
		return domain.GenerationResponse{}, err
	}
	g.mu.Lock()
	image := tool.DemoPool[g.rng.Intn(len(tool.DemoPool))]
	g.mu.Unlock()
	return domain.GenerationResponse{
		Success:          true,
		ImageURL:         image,
		CreditsUsed:      demoCreditsUsed,
		RemainingCredits: demoRemainingCredits,
		Message:          "Demo mode: Image generated successfully",
	}, nil
}
