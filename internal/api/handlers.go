package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/arsession"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/auth"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/feed"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/generation"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/ledger"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epiko_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epiko_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
	}, []string{"method", "endpoint"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epiko_generations_total",
		Help: "AI generations by tool and outcome",
	}, []string{"tool", "outcome"})
)

type Handler struct {
	ledger *ledger.Service
	feed   *feed.Service
	gen    *generation.Service
	ar     *arsession.Manager
	tokens *auth.Tokens
	repo   store.Repository
}

func NewHandler(l *ledger.Service, f *feed.Service, g *generation.Service, ar *arsession.Manager, tokens *auth.Tokens, repo store.Repository) *Handler {
	return &Handler{ledger: l, feed: f, gen: g, ar: ar, tokens: tokens, repo: repo}
}

type ctxKey int

const userKey ctxKey = 0

// userID extracts the authenticated user, falling back to the shared
// test user when no valid token was presented.
func userID(r *http.Request) string {
	if v, ok := r.Context().Value(userKey).(string); ok && v != "" {
		return v
	}
	return auth.TestUserID
}

// Authenticate resolves the bearer token into a user id. Requests
// without a token (or with a bad one) proceed as the test user; the
// stub endpoints accept them.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := auth.TestUserID
		if raw := r.Header.Get("Authorization"); len(raw) > 7 && raw[:7] == "Bearer " {
			if sub, err := h.tokens.ParseUserToken(raw[7:]); err == nil {
				uid = sub
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, uid)))
	})
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Auth ---

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	u, err := h.repo.FindUserByEmail(r.Context(), req.Email)
	if err != nil || u.Password != req.Password {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"access_token": h.tokens.TokenForUser(u.ID),
		"user":         u,
	})
}

// --- Wallet ---

func (h *Handler) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.Balance(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "System error reading wallet")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *Handler) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	txns, err := h.ledger.Transactions(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "System error reading transactions")
		return
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

type walletMutationRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (h *Handler) SpendHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/wallet/spend"))
	defer timer.ObserveDuration()

	var req walletMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithCounted(w, http.StatusBadRequest, "POST", "/wallet/spend", map[string]string{"error": "Malformed JSON body"})
		return
	}
	txn, err := h.ledger.Spend(r.Context(), userID(r), req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			respondWithCounted(w, http.StatusUnprocessableEntity, "POST", "/wallet/spend", map[string]string{"error": "Positive amount required"})
		case errors.Is(err, domain.ErrInsufficientFunds):
			respondWithCounted(w, http.StatusPaymentRequired, "POST", "/wallet/spend", map[string]string{"error": "Insufficient credits"})
		default:
			respondWithCounted(w, http.StatusInternalServerError, "POST", "/wallet/spend", map[string]string{"error": "Internal Server Error"})
		}
		return
	}
	balance, _ := h.ledger.Balance(r.Context(), userID(r))
	respondWithCounted(w, http.StatusCreated, "POST", "/wallet/spend", map[string]any{"transaction": txn, "balance": balance})
}

func (h *Handler) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req walletMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	txn, err := h.ledger.Purchase(r.Context(), userID(r), req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			respondWithError(w, http.StatusUnprocessableEntity, "Positive amount required")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	balance, _ := h.ledger.Balance(r.Context(), userID(r))
	respondWithJSON(w, http.StatusCreated, map[string]any{"transaction": txn, "balance": balance})
}

// --- Feed ---

func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feed.ListPosts(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "System error reading feed")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// InteractPostHandler serves like/unlike/save/unsave; the action is the
// trailing path segment.
func (h *Handler) InteractPostHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, action := vars["id"], vars["action"]
	switch action {
	case "like", "unlike", "save", "unsave":
	default:
		respondWithError(w, http.StatusNotFound, "Unknown action")
		return
	}
	if err := h.feed.Interact(r.Context(), userID(r), postID, action); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	post, err := h.repo.GetPost(r.Context(), postID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"liked":         h.feed.IsLiked(userID(r), postID),
		"saved":         h.feed.IsSaved(userID(r), postID),
		"like_count":    h.feed.LikeCount(userID(r), postID, post.SeedLikes),
		"comment_count": h.feed.CommentCount(userID(r), postID, post.SeedComments),
	})
}

func (h *Handler) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	comment, err := h.feed.AddComment(r.Context(), userID(r), postID, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusCreated, comment)
}

// --- AI generation ---

func (h *Handler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	toolID := mux.Vars(r)["tool"]
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/ai/{tool}"))
	defer timer.ObserveDuration()

	tool, ok := generation.LookupTool(toolID)
	if !ok {
		respondWithCounted(w, http.StatusNotFound, "POST", "/ai/{tool}", map[string]string{"error": "Unknown tool"})
		return
	}

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondWithCounted(w, http.StatusBadRequest, "POST", "/ai/{tool}", map[string]string{"error": "Malformed JSON body"})
		return
	}

	uid := userID(r)

	// Gate on the balance up front so a slow generation is never run
	// for a user who cannot pay for it.
	balance, err := h.ledger.Balance(r.Context(), uid)
	if err != nil {
		respondWithCounted(w, http.StatusInternalServerError, "POST", "/ai/{tool}", map[string]string{"error": "Internal Server Error"})
		return
	}
	if balance < tool.Cost {
		generationsTotal.WithLabelValues(toolID, "insufficient_funds").Inc()
		respondWithCounted(w, http.StatusPaymentRequired, "POST", "/ai/{tool}",
			domain.GenerationResponse{Success: false, Error: "Insufficient credits", RemainingCredits: balance})
		return
	}

	resp, err := h.gen.Generate(r.Context(), domain.GenerationRequest{
		Tool:   toolID,
		UserID: uid,
		Token:  bearerToken(r),
		Params: params,
	})
	if err != nil {
		// Caller went away mid-generation; the result is dropped.
		respondWithCounted(w, http.StatusRequestTimeout, "POST", "/ai/{tool}", map[string]string{"error": "Request cancelled"})
		return
	}
	if !resp.Success {
		generationsTotal.WithLabelValues(toolID, "failed").Inc()
		respondWithCounted(w, http.StatusBadGateway, "POST", "/ai/{tool}", resp)
		return
	}

	if _, err := h.ledger.Spend(r.Context(), uid, tool.Cost, tool.Name); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			// A concurrent spend drained the wallet between the gate and
			// the deduction.
			generationsTotal.WithLabelValues(toolID, "insufficient_funds").Inc()
			respondWithCounted(w, http.StatusPaymentRequired, "POST", "/ai/{tool}",
				domain.GenerationResponse{Success: false, Error: "Insufficient credits"})
			return
		}
		respondWithCounted(w, http.StatusInternalServerError, "POST", "/ai/{tool}", map[string]string{"error": "Internal Server Error"})
		return
	}

	remaining, _ := h.ledger.Balance(r.Context(), uid)
	resp.CreditsUsed = tool.Cost
	resp.RemainingCredits = remaining
	generationsTotal.WithLabelValues(toolID, "completed").Inc()
	respondWithCounted(w, http.StatusOK, "POST", "/ai/{tool}", resp)
}

func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	recs, err := h.gen.History(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "System error reading history")
		return
	}
	if recs == nil {
		recs = []domain.GenerationRecord{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"generations": recs})
}

// --- Payments (non-production stub) ---
//
// These endpoints are placeholders: no gateway order is created and no
// signature is verified. Persistence is best effort and never fails the
// request, matching the development behavior of the original service.

func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credits int64 `json:"credits"`
		Amount  int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if req.Credits <= 0 || req.Amount <= 0 {
		respondWithError(w, http.StatusBadRequest, "Credits and amount are required")
		return
	}

	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	orderID := "order_" + hex.EncodeToString(buf)

	order := domain.PaymentOrder{
		OrderID:   orderID,
		UserID:    userID(r),
		Credits:   req.Credits,
		Amount:    req.Amount,
		Currency:  "INR",
		Status:    "created",
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateOrder(r.Context(), order); err != nil {
		log.Printf("order persistence failed (continuing): %v", err)
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"orderId":  orderID,
		"amount":   req.Amount * 100, // minor units for the gateway
		"currency": "INR",
	})
}

func (h *Handler) VerifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
		Credits   int64  `json:"credits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	if err := h.repo.CompleteOrder(r.Context(), req.OrderID, req.PaymentID); err != nil {
		log.Printf("order completion failed (continuing): %v", err)
	}
	if req.Credits > 0 {
		if _, err := h.ledger.Purchase(r.Context(), userID(r), req.Credits, "Token purchase"); err != nil {
			log.Printf("wallet credit failed (continuing): %v", err)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Payment verified successfully",
		"credits": req.Credits,
	})
}

// --- AR sessions ---

func (h *Handler) CreateARSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Effect   string `json:"effect"`
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	var (
		session *arsession.Session
		err     error
	)
	if req.Effect == "poster" {
		if req.ImageURL == "" {
			respondWithError(w, http.StatusBadRequest, "Poster sessions need an image_url")
			return
		}
		session, err = h.ar.Enter(r.Context(), arsession.PosterEffect(req.ImageURL))
	} else {
		session, err = h.ar.EnterByID(r.Context(), req.Effect)
	}
	if err != nil {
		switch {
		case errors.Is(err, arsession.ErrUnknownEffect):
			respondWithError(w, http.StatusNotFound, "Unknown effect")
		case errors.Is(err, arsession.ErrCameraBusy):
			respondWithError(w, http.StatusConflict, "Camera is in use by another session")
		case errors.Is(err, arsession.ErrCameraDenied):
			respondWithError(w, http.StatusConflict, "Camera access was denied. You can still pick an effect without AR.")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	effect := session.Effect()
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID(),
		"state":      session.State(),
		"effect":     effect.ID,
		"facing":     effect.FacingFor(),
		"nodes":      len(effect.Nodes),
	})
}

func (h *Handler) CaptureARSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, ok := h.ar.Get(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Session not found")
		return
	}
	frame, err := session.Capture(r.Context())
	if err != nil {
		if errors.Is(err, arsession.ErrSessionNotLive) {
			respondWithError(w, http.StatusConflict, "Session is not active")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Capture failed")
		return
	}
	// Camera pixels only; the animated overlay is not composited into
	// the still.
	respondWithJSON(w, http.StatusOK, map[string]any{
		"image":  base64.StdEncoding.EncodeToString(frame),
		"effect": session.Effect().ID,
	})
}

func (h *Handler) ExitARSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if session, ok := h.ar.Get(id); ok {
		session.Exit()
	}
	// Exiting an already-gone session is a no-op, not an error.
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func bearerToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if len(raw) > 7 && raw[:7] == "Bearer " {
		return raw[7:]
	}
	return ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithCounted(w http.ResponseWriter, code int, method, endpoint string, payload interface{}) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	respondWithJSON(w, code, payload)
}
