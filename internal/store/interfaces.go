package store

import (
	"context"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

// Repository is the persistence surface shared by the in-memory and
// Postgres stores. Wallet mutations are atomic: the balance check, the
// balance update and the transaction append happen as one operation.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)

	EnsureWallet(ctx context.Context, userID string, seedBalance int64) (domain.Wallet, error)
	SpendFromWallet(ctx context.Context, userID string, amount int64, txn domain.Transaction) (int64, error)
	CreditWallet(ctx context.Context, userID string, amount int64, txn domain.Transaction) (int64, error)
	Transactions(ctx context.Context, userID string) ([]domain.Transaction, error)

	ListPosts(ctx context.Context) ([]domain.Post, error)
	GetPost(ctx context.Context, id string) (domain.Post, error)

	CreateOrder(ctx context.Context, order domain.PaymentOrder) error
	CompleteOrder(ctx context.Context, orderID, paymentID string) error

	RecordGeneration(ctx context.Context, rec domain.GenerationRecord) error
	GenerationHistory(ctx context.Context, userID string) ([]domain.GenerationRecord, error)

	Close()
}
