// Package generation produces AI images for the launch tools. Two
// interchangeable generators exist: a demo one that fabricates results
// locally and a backend one that forwards to the hosted AI service.
// The choice is made once at wire time, not per call.
package generation

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

// Generator is the single operation shared by every tool family.
// Implementations return expected failures inside the response
// (Success=false plus Error); the error return is reserved for
// context cancellation.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error)
}

// Service wraps a Generator with history recording. Calls are
// independent: two identical requests produce two results and two
// history rows, with no coalescing.
type Service struct {
	gen  Generator
	repo store.Repository
}

func NewService(gen Generator, repo store.Repository) *Service {
	return &Service{gen: gen, repo: repo}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	started := time.Now().UTC()
	resp, err := s.gen.Generate(ctx, req)
	if err != nil {
		return domain.GenerationResponse{}, err
	}
	if !resp.WellFormed() {
		// A success flag without an image is a backend bug; surface it
		// as a failure rather than handing callers an empty result.
		resp = domain.GenerationResponse{Success: false, Error: "generation returned no image"}
	}

	status := "failed"
	if resp.Success {
		status = "completed"
	}
	rec := domain.GenerationRecord{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Tool:        req.Tool,
		OutputURL:   resp.ImageURL,
		CreditsUsed: resp.CreditsUsed,
		Status:      status,
		CreatedAt:   started,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordGeneration(ctx, rec); err != nil {
		// History is best-effort; the generated image still stands.
		log.Printf("generation history write failed: %v", err)
	}
	return resp, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]domain.GenerationRecord, error) {
	return s.repo.GenerationHistory(ctx, userID)
}
