package service

import (
	"context"
	"fmt"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
)

type quantityKey struct {
	invoiceNumber int64
	bookID        int64
}

// OrderList reconstructs the user's order history: every invoice joined with
// its quantity rows, flattened to one row per (invoice, book) pair. The
// purchased quantity replaces the snapshot's stock count. Ordering follows
// the invoices as listed, then the books within each invoice.
func (s *OrderService) OrderList(ctx context.Context, tokenString string) ([]domain.PlacedOrderDetail, error) {
	ident, err := s.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	invoices, err := s.stores.Invoices.ListInvoices(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	quantities, err := s.stores.Quantities.ListQuantities(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list quantities: %w", err)
	}

	purchased := make(map[quantityKey]int, len(quantities))
	for _, q := range quantities {
		purchased[quantityKey{q.InvoiceNumber, q.BookID}] = q.Quantity
	}

	var details []domain.PlacedOrderDetail
	for _, invoice := range invoices {
		for _, book := range invoice.Books {
			qty := book.Quantity
			if n, ok := purchased[quantityKey{invoice.InvoiceNumber, book.BookID}]; ok {
				qty = n
			}
			details = append(details, domain.PlacedOrderDetail{
				InvoiceNumber: invoice.InvoiceNumber,
				CreatedAt:     invoice.CreatedAt,
				BookID:        book.BookID,
				BookName:      book.BookName,
				AuthorName:    book.AuthorName,
				Price:         book.Price,
				Quantity:      qty,
				BookImage:     book.BookImage,
			})
		}
	}
	return details, nil
}
