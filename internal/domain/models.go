package domain

import "time"

// TransactionType distinguishes the two ledger mutations.
type TransactionType string

const (
	TransactionSpend TransactionType = "spend"
	TransactionEarn  TransactionType = "earn"
)

// Wallet holds a user's credit balance. Balance never goes negative.
type Wallet struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// Transaction is the immutable record of a single ledger mutation.
// Created exactly once per mutation, never edited or deleted.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Post is a feed entry with static seed counts. Displayed counts layer
// the requesting user's interaction overrides on top of these.
type Post struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"author_name"`
	ImageURL     string    `json:"image_url"`
	Caption      string    `json:"caption"`
	SeedLikes    int64     `json:"seed_likes"`
	SeedComments int64     `json:"seed_comments"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostView is a Post as seen by one user: seed counts adjusted by that
// user's own interactions.
type PostView struct {
	Post
	Liked        bool  `json:"liked"`
	Saved        bool  `json:"saved"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

// Comment is a locally added comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationRequest carries tool-specific parameters to a generator.
// Params is opaque to everything but the upstream tool endpoint.
type GenerationRequest struct {
	Tool   string         `json:"tool"`
	UserID string         `json:"-"`
	Token  string         `json:"-"`
	Params map[string]any `json:"params"`
}

// GenerationResponse is the uniform result shape for every tool.
// Success==true is only well-formed when ImageURL is present; callers
// must treat a success without an image as a failure.
type GenerationResponse struct {
	Success          bool   `json:"success"`
	ImageURL         string `json:"imageUrl,omitempty"`
	CreditsUsed      int64  `json:"creditsUsed,omitempty"`
	RemainingCredits int64  `json:"remainingCredits,omitempty"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
}

// WellFormed reports whether the response obeys the success/image contract.
func (r GenerationResponse) WellFormed() bool {
	return !r.Success || r.ImageURL != ""
}

// GenerationRecord is one entry in a user's generation history.
type GenerationRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Tool        string    `json:"tool"`
	OutputURL   string    `json:"outputUrl"`
	CreditsUsed int64     `json:"creditsUsed"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// PaymentOrder is a best-effort record of a payment-gateway order.
type PaymentOrder struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Credits     int64     `json:"credits"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"payment_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// User is a demo login identity.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
