package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *OrderHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(TokenMiddleware)

	r.Get("/health", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		respondJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.AddOrder)
		r.Get("/", h.CartList)
		r.Post("/confirm", h.ConfirmOrder)
		r.Get("/history", h.OrderHistory)
		r.Put("/{book_id}", h.UpdateQuantity)
		r.Delete("/{book_id}", h.CancelOrder)
	})

	return r
}
