package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/publisher"
)

// ConfirmResult acknowledges a confirmed order. MailSent reports whether the
// summary mail went out; it never affects whether the order was persisted.
type ConfirmResult struct {
	InvoiceNumber int64 `json:"invoice_number"`
	MailSent      bool  `json:"mail_sent"`
}

// ConfirmOrder runs the confirmation workflow: verify the user, total the
// cart, attempt the summary mail, persist the invoice with its book
// snapshots, write one quantity row per line, then clear the cart. The steps
// are sequential with no rollback; a persistence failure aborts the
// remaining steps but nothing already done is compensated.
func (s *OrderService) ConfirmOrder(ctx context.Context, tokenString string, lines []domain.CartLine) (*ConfirmResult, error) {
	ident, err := s.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	// Left-to-right accumulation, local to this call.
	var finalAmount float64
	for _, line := range lines {
		finalAmount += line.LineTotal
	}

	// Mail is best effort: a rendering or delivery failure must not keep the
	// invoice from being persisted.
	mailSent := true
	if err := s.notifier.SendOrderSummary(ident.Email, ident.FirstName, finalAmount); err != nil {
		log.Printf("order summary mail for user %d failed: %v", ident.UserID, err)
		mailSent = false
	}

	catalog, err := s.stores.Books.GetAllBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Snapshot every catalog book the cart references, once per matching
	// line. Lines with no catalog entry are dropped silently.
	var orderedBooks []domain.Book
	for _, book := range catalog {
		for _, line := range lines {
			if line.BookID == book.BookID {
				orderedBooks = append(orderedBooks, book)
			}
		}
	}

	createdAt := time.Now().Format(domain.CreatedAtLayout)
	invoice := &domain.Invoice{
		UserID:      ident.UserID,
		CreatedAt:   createdAt,
		FinalAmount: finalAmount,
		Books:       orderedBooks,
	}
	if err := s.stores.Invoices.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}

	// The invoice number is invariant across the loop, so one correlation
	// lookup by (user, created-at) serves every quantity row.
	saved, err := s.stores.Invoices.GetInvoice(ctx, ident.UserID, createdAt)
	if err != nil {
		return nil, fmt.Errorf("look up saved invoice: %w", err)
	}

	for _, line := range lines {
		q := &domain.LineQuantity{
			InvoiceNumber: saved.InvoiceNumber,
			BookID:        line.BookID,
			UserID:        line.UserID,
			Quantity:      line.Quantity,
			CreatedAt:     createdAt,
		}
		if err := s.stores.Quantities.AddQuantity(ctx, q); err != nil {
			return nil, fmt.Errorf("save line quantity: %w", err)
		}
	}

	// Unconditional cleanup of the user's entire cart, not just the
	// confirmed lines.
	if err := s.stores.Cart.Clear(ctx, ident.UserID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	s.invalidateCache(ident.UserID)

	s.publishConfirmed(ctx, saved.InvoiceNumber, ident.UserID, finalAmount, createdAt, lines)

	return &ConfirmResult{InvoiceNumber: saved.InvoiceNumber, MailSent: mailSent}, nil
}

// publishConfirmed emits the order-confirmed event. Best effort only.
func (s *OrderService) publishConfirmed(ctx context.Context, invoiceNumber, userID int64, finalAmount float64, createdAt string, lines []domain.CartLine) {
	items := make([]publisher.OrderItemEvent, 0, len(lines))
	for _, line := range lines {
		items = append(items, publisher.OrderItemEvent{BookID: line.BookID, Quantity: line.Quantity})
	}
	event := &publisher.OrderConfirmedEvent{
		InvoiceNumber: invoiceNumber,
		UserID:        userID,
		FinalAmount:   finalAmount,
		CreatedAt:     createdAt,
		Items:         items,
	}
	if err := s.events.PublishOrderConfirmed(ctx, event); err != nil {
		log.Printf("failed to publish order confirmed event for invoice %d: %v", invoiceNumber, err)
	}
}
