package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
)

// PostgresStore backs the Repository with a pgx connection pool.
type PostgresStore struct {
	Db *pgxpool.Pool
}

func NewPostgresStore(connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{Db: pool}, nil
}

func (s *PostgresStore) Close() {
	s.Db.Close()
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.Db.QueryRow(ctx,
		"SELECT id, email, password FROM users WHERE email = $1", email,
	).Scan(&u.ID, &u.Email, &u.Password)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// EnsureWallet provisions the wallet at the seed balance on first touch.
func (s *PostgresStore) EnsureWallet(ctx context.Context, userID string, seedBalance int64) (domain.Wallet, error) {
	var w domain.Wallet
	err := s.Db.QueryRow(ctx,
		`INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING user_id, balance`,
		userID, seedBalance,
	).Scan(&w.UserID, &w.Balance)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("ensure wallet failed: %w", err)
	}
	return w, nil
}

// SpendFromWallet deducts inside a transaction with the wallet row
// locked, so the balance check and the mutation cannot interleave with
// a concurrent spend.
func (s *PostgresStore) SpendFromWallet(ctx context.Context, userID string, amount int64, txn domain.Transaction) (int64, error) {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, "SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE", userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrWalletNotFound
		}
		return 0, fmt.Errorf("lock acquisition failed: %w", err)
	}

	if amount > balance {
		return balance, domain.ErrInsufficientFunds
	}

	balance -= amount
	if _, err := tx.Exec(ctx, "UPDATE wallets SET balance = $1 WHERE user_id = $2", balance, userID); err != nil {
		return 0, fmt.Errorf("balance update failed: %w", err)
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit failed: %w", err)
	}
	return balance, nil
}

func (s *PostgresStore) CreditWallet(ctx context.Context, userID string, amount int64, txn domain.Transaction) (int64, error) {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		"UPDATE wallets SET balance = balance + $1 WHERE user_id = $2 RETURNING balance",
		amount, userID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrWalletNotFound
		}
		return 0, fmt.Errorf("balance update failed: %w", err)
	}
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit failed: %w", err)
	}
	return balance, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO transactions (id, user_id, type, amount, description, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		txn.ID, txn.UserID, string(txn.Type), txn.Amount, txn.Description, txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("transaction insert failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, user_id, type, amount, description, created_at FROM transactions WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Description, &t.Timestamp); err != nil {
			log.Printf("Error scanning transaction: %v", err)
			continue
		}
		t.Type = domain.TransactionType(typ)
		txns = append(txns, t)
	}
	return txns, nil
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, author_name, image_url, caption, seed_likes, seed_comments, created_at FROM posts ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorName, &p.ImageURL, &p.Caption, &p.SeedLikes, &p.SeedComments, &p.CreatedAt); err != nil {
			log.Printf("Error scanning post: %v", err)
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (domain.Post, error) {
	var p domain.Post
	err := s.Db.QueryRow(ctx,
		"SELECT id, author_name, image_url, caption, seed_likes, seed_comments, created_at FROM posts WHERE id = $1",
		id).Scan(&p.ID, &p.AuthorName, &p.ImageURL, &p.Caption, &p.SeedLikes, &p.SeedComments, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Post{}, domain.ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return p, nil
}

func (s *PostgresStore) CreateOrder(ctx context.Context, order domain.PaymentOrder) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO payment_orders (order_id, user_id, credits, amount, currency, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		order.OrderID, order.UserID, order.Credits, order.Amount, order.Currency, order.Status, order.CreatedAt)
	return err
}

func (s *PostgresStore) CompleteOrder(ctx context.Context, orderID, paymentID string) error {
	_, err := s.Db.Exec(ctx,
		"UPDATE payment_orders SET status = 'completed', payment_id = $1, completed_at = NOW() WHERE order_id = $2",
		paymentID, orderID)
	return err
}

func (s *PostgresStore) RecordGeneration(ctx context.Context, rec domain.GenerationRecord) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO generations (id, user_id, tool, output_url, credits_used, status, created_at, completed_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		rec.ID, rec.UserID, rec.Tool, rec.OutputURL, rec.CreditsUsed, rec.Status, rec.CreatedAt, rec.CompletedAt)
	return err
}

func (s *PostgresStore) GenerationHistory(ctx context.Context, userID string) ([]domain.GenerationRecord, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, user_id, tool, output_url, credits_used, status, created_at, completed_at FROM generations WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.GenerationRecord
	for rows.Next() {
		var r domain.GenerationRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Tool, &r.OutputURL, &r.CreditsUsed, &r.Status, &r.CreatedAt, &r.CompletedAt); err != nil {
			log.Printf("Error scanning generation: %v", err)
			continue
		}
		recs = append(recs, r)
	}
	return recs, nil
}
