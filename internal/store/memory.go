package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

// MemoryStore is the process-local Repository used in demo mode and in
// tests. All methods are safe for concurrent use.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[string]domain.User
	wallets      map[string]domain.Wallet
	transactions map[string][]domain.Transaction
	posts        map[string]domain.Post
	postOrder    []string
	orders       map[string]domain.PaymentOrder
	generations  map[string][]domain.GenerationRecord
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:        map[string]domain.User{},
		wallets:      map[string]domain.Wallet{},
		transactions: map[string][]domain.Transaction{},
		posts:        map[string]domain.Post{},
		orders:       map[string]domain.PaymentOrder{},
		generations:  map[string][]domain.GenerationRecord{},
	}
	demo := domain.User{ID: "u_demo", Email: "demo@local", Password: "demo"}
	test := domain.User{ID: "test-user", Email: "test@local", Password: "test"}
	s.users[demo.Email] = demo
	s.users[test.Email] = test
	for _, p := range SeedPosts() {
		s.posts[p.ID] = p
		s.postOrder = append(s.postOrder, p.ID)
	}
	return s
}

// SeedPosts returns the static discovery feed. The counts are the seed
// values that per-user interaction overrides layer on top of.
func SeedPosts() []domain.Post {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Post{
		{ID: "post-1", AuthorName: "aria.create", ImageURL: "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=800&h=800&fit=crop", Caption: "Cyberpunk avatar drop", SeedLikes: 234, SeedComments: 12, CreatedAt: base},
		{ID: "post-2", AuthorName: "pixelsmith", ImageURL: "https://images.unsplash.com/photo-1517841905240-472988babdf9?w=800&h=800&fit=crop", Caption: "Duo portrait, renaissance style", SeedLikes: 567, SeedComments: 34, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "post-3", AuthorName: "neon.dreams", ImageURL: "https://images.unsplash.com/photo-1594908900066-3f47337549d8?w=800&h=1200&fit=crop", Caption: "Movie poster from one selfie", SeedLikes: 890, SeedComments: 45, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "post-4", AuthorName: "futureself", ImageURL: "https://images.unsplash.com/photo-1531746020798-e6953c6e8e04?w=800&h=800&fit=crop", Caption: "Me at 70, apparently", SeedLikes: 1234, SeedComments: 89, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) EnsureWallet(_ context.Context, userID string, seedBalance int64) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		w = domain.Wallet{UserID: userID, Balance: seedBalance}
		s.wallets[userID] = w
	}
	return w, nil
}

func (s *MemoryStore) SpendFromWallet(_ context.Context, userID string, amount int64, txn domain.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return 0, domain.ErrWalletNotFound
	}
	if amount > w.Balance {
		return w.Balance, domain.ErrInsufficientFunds
	}
	w.Balance -= amount
	s.wallets[userID] = w
	s.transactions[userID] = append(s.transactions[userID], txn)
	return w.Balance, nil
}

func (s *MemoryStore) CreditWallet(_ context.Context, userID string, amount int64, txn domain.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return 0, domain.ErrWalletNotFound
	}
	w.Balance += amount
	s.wallets[userID] = w
	s.transactions[userID] = append(s.transactions[userID], txn)
	return w.Balance, nil
}

// Transactions returns the user's history newest first.
func (s *MemoryStore) Transactions(_ context.Context, userID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.transactions[userID]
	out := make([]domain.Transaction, len(src))
	for i, t := range src {
		out[len(src)-1-i] = t
	}
	return out, nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		out = append(out, s.posts[id])
	}
	return out, nil
}

func (s *MemoryStore) GetPost(_ context.Context, id string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrPostNotFound
	}
	return p, nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order domain.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.OrderID] = order
	return nil
}

func (s *MemoryStore) CompleteOrder(_ context.Context, orderID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		// Best-effort contract: completing an unknown order is not an error.
		return nil
	}
	o.Status = "completed"
	o.PaymentID = paymentID
	o.CompletedAt = time.Now().UTC()
	s.orders[orderID] = o
	return nil
}

func (s *MemoryStore) RecordGeneration(_ context.Context, rec domain.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[rec.UserID] = append(s.generations[rec.UserID], rec)
	return nil
}

func (s *MemoryStore) GenerationHistory(_ context.Context, userID string) ([]domain.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.generations[userID]
	out := make([]domain.GenerationRecord, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Close() {}
