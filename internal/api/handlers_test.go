package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/arsession"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/auth"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/feed"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/generation"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/ledger"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

func newTestServer(t *testing.T, seedBalance int64) (*httptest.Server, *Handler) {
	t.Helper()
	repo := store.NewMemoryStore()
	gen := generation.NewDemoGenerator(1).WithSleep(func(context.Context, time.Duration) error { return nil })
	h := NewHandler(
		ledger.NewService(repo, seedBalance),
		feed.NewService(repo),
		generation.NewService(gen, repo),
		arsession.NewManager(arsession.DemoCamera{}, func() arsession.Renderer {
			return arsession.NewHeadlessRenderer()
		}).WithSettleDelay(0),
		auth.New("test-secret"),
		repo,
	)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv, h
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, 20)
	resp, body := getJSON(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGenerateSpendsCreditsAndRecordsHistory(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, body := postJSON(t, srv.URL+"/api/ai/face-swap", map[string]any{"sourceImage": "a", "targetImage": "b"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["imageUrl"])
	assert.Equal(t, float64(1), body["creditsUsed"])
	assert.Equal(t, float64(19), body["remainingCredits"])

	_, wallet := getJSON(t, srv.URL+"/api/v1/wallet")
	assert.Equal(t, float64(19), wallet["balance"])

	_, hist := getJSON(t, srv.URL+"/api/ai/history")
	gens := hist["generations"].([]any)
	require.Len(t, gens, 1)
	first := gens[0].(map[string]any)
	assert.Equal(t, "face-swap", first["tool"])
	assert.Equal(t, "completed", first["status"])
}

func TestGenerateRejectsWhenBroke(t *testing.T) {
	srv, _ := newTestServer(t, 2)

	// duo-portrait costs 3, the wallet holds 2
	resp, body := postJSON(t, srv.URL+"/api/ai/duo-portrait", map[string]any{"person1": "a", "person2": "b"})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	// the failed attempt must not have touched the wallet
	_, wallet := getJSON(t, srv.URL+"/api/v1/wallet")
	assert.Equal(t, float64(2), wallet["balance"])
}

func TestGenerateUnknownTool(t *testing.T) {
	srv, _ := newTestServer(t, 20)
	resp, _ := postJSON(t, srv.URL+"/api/ai/mind-reader", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWalletSpendAndTransactionScenario(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, _ := postJSON(t, srv.URL+"/api/v1/wallet/spend", map[string]any{"amount": 3, "description": "tool A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, srv.URL+"/api/v1/wallet/spend", map[string]any{"amount": 50, "description": "tool B"})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	_, wallet := getJSON(t, srv.URL+"/api/v1/wallet")
	assert.Equal(t, float64(17), wallet["balance"])

	_, list := getJSON(t, srv.URL+"/api/v1/wallet/transactions")
	txns := list["transactions"].([]any)
	require.Len(t, txns, 1)
	txn := txns[0].(map[string]any)
	assert.Equal(t, "spend", txn["type"])
	assert.Equal(t, float64(3), txn["amount"])
}

func TestPaymentStubFlowCreditsWallet(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, order := postJSON(t, srv.URL+"/api/payments/create-order", map[string]any{"credits": 550, "amount": 1999})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, order["success"])
	assert.Equal(t, "INR", order["currency"])
	assert.Equal(t, float64(199900), order["amount"])
	orderID := order["orderId"].(string)
	assert.Contains(t, orderID, "order_")

	resp, verify := postJSON(t, srv.URL+"/api/payments/verify-payment", map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "sig",
		"credits":             550,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, verify["success"])

	_, wallet := getJSON(t, srv.URL+"/api/v1/wallet")
	assert.Equal(t, float64(570), wallet["balance"])
}

func TestCreateOrderValidatesInput(t *testing.T) {
	srv, _ := newTestServer(t, 20)
	resp, _ := postJSON(t, srv.URL+"/api/payments/create-order", map[string]any{"credits": 0, "amount": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedLikeFlow(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, body := postJSON(t, srv.URL+"/api/v1/posts/post-1/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(235), body["like_count"])

	// liking again must not double-count
	_, body = postJSON(t, srv.URL+"/api/v1/posts/post-1/like", nil)
	assert.Equal(t, float64(235), body["like_count"])

	_, body = postJSON(t, srv.URL+"/api/v1/posts/post-1/unlike", nil)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(234), body["like_count"])

	_, feedBody := getJSON(t, srv.URL+"/api/v1/posts")
	posts := feedBody["posts"].([]any)
	require.Len(t, posts, 4)
}

func TestFeedCommentFlow(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, comment := postJSON(t, srv.URL+"/api/v1/posts/post-2/comments", map[string]any{"body": "stunning"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "post-2", comment["post_id"])

	_, feedBody := getJSON(t, srv.URL+"/api/v1/posts")
	for _, raw := range feedBody["posts"].([]any) {
		p := raw.(map[string]any)
		if p["id"] == "post-2" {
			assert.Equal(t, float64(35), p["comment_count"])
		}
	}
}

func TestFeedUnknownPost(t *testing.T) {
	srv, _ := newTestServer(t, 20)
	resp, _ := postJSON(t, srv.URL+"/api/v1/posts/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestARSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, created := postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "sparkle"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "active", created["state"])
	assert.Equal(t, "user", created["facing"])
	id := created["session_id"].(string)

	resp, captured := postJSON(t, srv.URL+"/api/v1/ar/sessions/"+id+"/capture", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, captured["image"])
	assert.Equal(t, "sparkle", captured["effect"])

	// capture released the session; deleting it again is a no-op
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/ar/sessions/"+id, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
}

func TestARSessionExclusiveCamera(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, created := postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "dragon"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "sparkle"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	id := created["session_id"].(string)
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/ar/sessions/"+id, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()

	resp, _ = postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "sparkle"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestARPosterSessionNeedsImage(t *testing.T) {
	srv, _ := newTestServer(t, 20)
	resp, _ := postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "poster"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, created := postJSON(t, srv.URL+"/api/v1/ar/sessions", map[string]any{"effect": "poster", "image_url": "https://cdn.example/p.png"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "environment", created["facing"])
}

func TestLoginIssuesUsableToken(t *testing.T) {
	srv, _ := newTestServer(t, 20)

	resp, body := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]any{"email": "demo@local", "password": "demo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["access_token"].(string)
	require.NotEmpty(t, token)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/wallet", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	walletResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer walletResp.Body.Close()
	assert.Equal(t, http.StatusOK, walletResp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/v1/auth/login", map[string]any{"email": "demo@local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestsWithoutTokenRunAsTestUser(t *testing.T) {
	srv, h := newTestServer(t, 20)

	_, err := h.ledger.Spend(context.Background(), auth.TestUserID, 5, "pre-spend")
	require.NoError(t, err)

	_, wallet := getJSON(t, srv.URL+"/api/v1/wallet")
	assert.Equal(t, float64(15), wallet["balance"], "anonymous requests share the test user wallet")
}
