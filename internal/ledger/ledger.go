// Package ledger implements the credit wallet: a non-negative balance
// plus an append-only transaction history. Spending more than the
// balance is rejected without any state change; purchases always apply.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

type Service struct {
	repo        store.Repository
	seedBalance int64
	now         func() time.Time
}

func NewService(repo store.Repository, seedBalance int64) *Service {
	return &Service{repo: repo, seedBalance: seedBalance, now: func() time.Time { return time.Now().UTC() }}
}

// Spend deducts amount from the user's balance and appends a spend
// transaction. Returns domain.ErrInsufficientFunds when amount exceeds
// the balance; in that case nothing is recorded.
func (s *Service) Spend(ctx context.Context, userID string, amount int64, description string) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if _, err := s.repo.EnsureWallet(ctx, userID, s.seedBalance); err != nil {
		return domain.Transaction{}, fmt.Errorf("wallet lookup failed: %w", err)
	}

	txn := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.TransactionSpend,
		Amount:      amount,
		Description: description,
		Timestamp:   s.now(),
	}
	if _, err := s.repo.SpendFromWallet(ctx, userID, amount, txn); err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

// Purchase credits the balance unconditionally and appends an earn
// transaction.
func (s *Service) Purchase(ctx context.Context, userID string, amount int64, description string) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if _, err := s.repo.EnsureWallet(ctx, userID, s.seedBalance); err != nil {
		return domain.Transaction{}, fmt.Errorf("wallet lookup failed: %w", err)
	}

	txn := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.TransactionEarn,
		Amount:      amount,
		Description: description,
		Timestamp:   s.now(),
	}
	if _, err := s.repo.CreditWallet(ctx, userID, amount, txn); err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	w, err := s.repo.EnsureWallet(ctx, userID, s.seedBalance)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Transactions returns the user's history newest first.
func (s *Service) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if _, err := s.repo.EnsureWallet(ctx, userID, s.seedBalance); err != nil {
		return nil, err
	}
	return s.repo.Transactions(ctx, userID)
}
