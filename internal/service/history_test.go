package service

import (
	"context"
	"testing"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderList_JoinsQuantitiesOntoSnapshots(t *testing.T) {
	f := newConfirmFixture()
	f.invoices.invoices = []domain.Invoice{
		{
			InvoiceNumber: 1, UserID: 5, CreatedAt: "2026-08-30 09:00:00", FinalAmount: 45.0,
			Books: []domain.Book{
				{BookID: 7, BookName: "Clean Code", AuthorName: "Robert C. Martin", Price: 10.0, Quantity: 8},
				{BookID: 9, BookName: "The Pragmatic Programmer", AuthorName: "Andrew Hunt", Price: 25.0, Quantity: 10},
			},
		},
		{
			InvoiceNumber: 2, UserID: 5, CreatedAt: "2026-08-31 11:30:00", FinalAmount: 38.75,
			Books: []domain.Book{
				{BookID: 8, BookName: "Refactoring", AuthorName: "Martin Fowler", Price: 38.75, Quantity: 6},
			},
		},
	}
	f.qty.quantities = []domain.LineQuantity{
		{InvoiceNumber: 1, BookID: 7, UserID: 5, Quantity: 2, CreatedAt: "2026-08-30 09:00:00"},
		{InvoiceNumber: 1, BookID: 9, UserID: 5, Quantity: 1, CreatedAt: "2026-08-30 09:00:00"},
		{InvoiceNumber: 2, BookID: 8, UserID: 5, Quantity: 1, CreatedAt: "2026-08-31 11:30:00"},
	}

	details, err := f.svc.OrderList(context.Background(), "tok")
	require.NoError(t, err)

	// One row per (invoice, book) pair, invoice order then book order.
	require.Len(t, details, 3)
	assert.Equal(t, int64(1), details[0].InvoiceNumber)
	assert.Equal(t, int64(7), details[0].BookID)
	assert.Equal(t, int64(1), details[1].InvoiceNumber)
	assert.Equal(t, int64(9), details[1].BookID)
	assert.Equal(t, int64(2), details[2].InvoiceNumber)
	assert.Equal(t, int64(8), details[2].BookID)

	// Purchased quantity, not catalog stock.
	assert.Equal(t, 2, details[0].Quantity)
	assert.Equal(t, 1, details[1].Quantity)
	assert.Equal(t, 1, details[2].Quantity)

	assert.Equal(t, "2026-08-30 09:00:00", details[0].CreatedAt)
	assert.Equal(t, "Clean Code", details[0].BookName)
	assert.Equal(t, 10.0, details[0].Price)
}

func TestOrderList_MissingQuantityKeepsSnapshotValue(t *testing.T) {
	f := newConfirmFixture()
	f.invoices.invoices = []domain.Invoice{
		{
			InvoiceNumber: 1, UserID: 5, CreatedAt: "2026-08-30 09:00:00",
			Books: []domain.Book{
				{BookID: 7, BookName: "Clean Code", Quantity: 8},
			},
		},
	}

	details, err := f.svc.OrderList(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 8, details[0].Quantity)
}

func TestOrderList_EmptyHistory(t *testing.T) {
	f := newConfirmFixture()

	details, err := f.svc.OrderList(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestOrderList_VerificationFailure(t *testing.T) {
	f := newConfirmFixture()
	f.verifier.err = identity.ErrUserDoesNotExist

	_, err := f.svc.OrderList(context.Background(), "tok")
	assert.ErrorIs(t, err, identity.ErrUserDoesNotExist)
}
