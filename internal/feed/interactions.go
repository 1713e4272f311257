// Package feed layers per-user like/save/comment overrides on top of
// the static seed counts of discovery posts. Overrides are
// process-lifetime, optimistic client state: a restart resets them,
// which matches the product's contract.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

// override holds one user's state for one post. An entry is created on
// first interaction and updated in place afterwards; toggling off
// records the off state rather than deleting the entry.
type override struct {
	liked        bool
	saved        bool
	likeDelta    int64
	commentDelta int64
}

type key struct {
	userID string
	postID string
}

type Service struct {
	repo store.Repository

	mu        sync.Mutex
	overrides map[key]*override
}

func NewService(repo store.Repository) *Service {
	return &Service{repo: repo, overrides: map[key]*override{}}
}

func (s *Service) get(userID, postID string) *override {
	o, ok := s.overrides[key{userID, postID}]
	if !ok {
		o = &override{}
		s.overrides[key{userID, postID}] = o
	}
	return o
}

// Like marks the post liked. Idempotent: liking twice has the same
// effect as once.
func (s *Service) Like(userID, postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID, postID).liked = true
}

func (s *Service) Unlike(userID, postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID, postID).liked = false
}

func (s *Service) Save(userID, postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID, postID).saved = true
}

func (s *Service) Unsave(userID, postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID, postID).saved = false
}

func (s *Service) IsLiked(userID, postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[key{userID, postID}]
	return ok && o.liked
}

func (s *Service) IsSaved(userID, postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[key{userID, postID}]
	return ok && o.saved
}

// LikeCount returns the displayed like count: seed plus the user's own
// toggle plus any prior delta, never negative.
func (s *Service) LikeCount(userID, postID string, seed int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := seed
	if o, ok := s.overrides[key{userID, postID}]; ok {
		count += o.likeDelta
		if o.liked {
			count++
		}
	}
	if count < 0 {
		count = 0
	}
	return count
}

// CommentCount returns seed plus locally added comments. Comments are
// additive only.
func (s *Service) CommentCount(userID, postID string, seed int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := seed
	if o, ok := s.overrides[key{userID, postID}]; ok {
		count += o.commentDelta
	}
	return count
}

// AddComment records a local comment and bumps the displayed count.
func (s *Service) AddComment(ctx context.Context, userID, postID, body string) (domain.Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return domain.Comment{}, err
	}
	s.mu.Lock()
	s.get(userID, postID).commentDelta++
	s.mu.Unlock()
	return domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ListPosts returns the feed with displayed counts computed for the
// requesting user.
func (s *Service) ListPosts(ctx context.Context, userID string) ([]domain.PostView, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, domain.PostView{
			Post:         p,
			Liked:        s.IsLiked(userID, p.ID),
			Saved:        s.IsSaved(userID, p.ID),
			LikeCount:    s.LikeCount(userID, p.ID, p.SeedLikes),
			CommentCount: s.CommentCount(userID, p.ID, p.SeedComments),
		})
	}
	return views, nil
}

// Interact applies a named toggle to a post after checking it exists.
func (s *Service) Interact(ctx context.Context, userID, postID, action string) error {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return err
	}
	switch action {
	case "like":
		s.Like(userID, postID)
	case "unlike":
		s.Unlike(userID, postID)
	case "save":
		s.Save(userID, postID)
	case "unsave":
		s.Unsave(userID, postID)
	}
	return nil
}
