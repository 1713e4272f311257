package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires every endpoint. The payments and ai trees keep the
// paths the mobile client already calls; everything newer lives under
// /api/v1.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods("GET")

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(mux.MiddlewareFunc(h.Authenticate))

	authed.HandleFunc("/payments/create-order", h.CreateOrderHandler).Methods("POST")
	authed.HandleFunc("/payments/verify-payment", h.VerifyPaymentHandler).Methods("POST")

	authed.HandleFunc("/ai/history", h.HistoryHandler).Methods("GET")
	authed.HandleFunc("/ai/{tool}", h.GenerateHandler).Methods("POST")

	v1 := authed.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")

	v1.HandleFunc("/wallet", h.GetWalletHandler).Methods("GET")
	v1.HandleFunc("/wallet/transactions", h.GetTransactionsHandler).Methods("GET")
	v1.HandleFunc("/wallet/spend", h.SpendHandler).Methods("POST")
	v1.HandleFunc("/wallet/purchase", h.PurchaseHandler).Methods("POST")

	v1.HandleFunc("/posts", h.ListPostsHandler).Methods("GET")
	v1.HandleFunc("/posts/{id}/comments", h.AddCommentHandler).Methods("POST")
	v1.HandleFunc("/posts/{id}/{action}", h.InteractPostHandler).Methods("POST")

	v1.HandleFunc("/ar/sessions", h.CreateARSessionHandler).Methods("POST")
	v1.HandleFunc("/ar/sessions/{id}/capture", h.CaptureARSessionHandler).Methods("POST")
	v1.HandleFunc("/ar/sessions/{id}", h.ExitARSessionHandler).Methods("DELETE")

	return r
}
