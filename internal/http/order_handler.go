package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/identity"
	"github.com/durgasankar/BookStore-BackEndApi/internal/repository"
	"github.com/durgasankar/BookStore-BackEndApi/internal/service"
	"github.com/durgasankar/BookStore-BackEndApi/internal/token"
	"github.com/go-chi/chi/v5"
)

// OrderAPI is what the handlers need from the order service.
// Consumers define this interface, not the service implementation.
type OrderAPI interface {
	MakeOrderWithToken(ctx context.Context, bookID int64, quantity int, token string) error
	CartListWithToken(ctx context.Context, token string) ([]domain.CartLine, error)
	UpdateQuantityWithToken(ctx context.Context, token string, bookID int64, quantity int) error
	CancelOrderWithToken(ctx context.Context, token string, bookID int64) error
	ConfirmOrder(ctx context.Context, token string, lines []domain.CartLine) (*service.ConfirmResult, error)
	OrderList(ctx context.Context, token string) ([]domain.PlacedOrderDetail, error)
}

type OrderHandler struct {
	svc     OrderAPI
	timeout time.Duration
}

func NewOrderHandler(svc OrderAPI, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type AddOrderRequestDTO struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type OrderResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OrderListResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ConfirmResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	InvoiceNumber int64  `json:"invoice_number"`
	MailSent      bool   `json:"mail_sent"`
}

func (h *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req AddOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BookID <= 0 {
		respondError(w, http.StatusBadRequest, "book_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
		return
	}

	if err := h.svc.MakeOrderWithToken(ctx, req.BookID, req.Quantity, tok); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, OrderResponse{Code: http.StatusAccepted, Message: "Order Added to Cart"})
}

func (h *OrderHandler) CartList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	lines, err := h.svc.CartListWithToken(ctx, tok)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, OrderListResponse{
		Code:    http.StatusAccepted,
		Message: fmt.Sprintf("total books in cart: %d", len(lines)),
		Data:    lines,
	})
}

func (h *OrderHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	bookID, err := bookIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "book_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
		return
	}

	if err := h.svc.UpdateQuantityWithToken(ctx, tok, bookID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, OrderResponse{Code: http.StatusAccepted, Message: "Quantity Updated"})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	bookID, err := bookIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "book_id must be a positive integer")
		return
	}

	if err := h.svc.CancelOrderWithToken(ctx, tok, bookID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, OrderResponse{Code: http.StatusAccepted, Message: "Order Deleted Successfully"})
}

func (h *OrderHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var lines []domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.ConfirmOrder(ctx, tok, lines)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Order Confirmed"
	if result.MailSent {
		message = "Mail Sent"
	}
	respondJSON(w, http.StatusAccepted, ConfirmResponse{
		Code:          http.StatusAccepted,
		Message:       message,
		InvoiceNumber: result.InvoiceNumber,
		MailSent:      result.MailSent,
	})
}

func (h *OrderHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tok := getToken(r.Context())
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}

	details, err := h.svc.OrderList(ctx, tok)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, OrderListResponse{
		Code:    http.StatusAccepted,
		Message: fmt.Sprintf("total placed orders: %d", len(details)),
		Data:    details,
	})
}

func bookIDParam(r *http.Request) (int64, error) {
	bookIDStr := chi.URLParam(r, "book_id")
	bookID, err := strconv.ParseInt(bookIDStr, 10, 64)
	if err != nil || bookID <= 0 {
		return 0, fmt.Errorf("invalid book_id %q", bookIDStr)
	}
	return bookID, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, OrderResponse{Code: status, Message: message})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "Invalid Token or Token Expired")
	case errors.Is(err, identity.ErrUserDoesNotExist):
		respondError(w, http.StatusBadRequest, "User Does Not Exist")
	case errors.Is(err, identity.ErrServiceUnavailable):
		respondError(w, http.StatusServiceUnavailable, "identity service unavailable")
	case errors.Is(err, repository.ErrBookNotFound):
		respondError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, repository.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "cart line not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
