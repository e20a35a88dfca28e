package repository_test

import (
	"context"
	"testing"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	db "github.com/durgasankar/BookStore-BackEndApi/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	repo, err := db.NewSQLiteRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	if err := repo.RunMigrations("./migrations/sqlite"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetAllBooks_ReturnsSeededBooks(t *testing.T) {
	repo := setupTestDB(t)

	books, err := repo.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 5) // seed migration inserts 5 books
	assert.Equal(t, "The Go Programming Language", books[0].BookName)
}

func TestGetBook_Found(t *testing.T) {
	repo := setupTestDB(t)

	book, err := repo.GetBook(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), book.BookID)
	assert.Equal(t, 35.99, book.Price)
	assert.Equal(t, 12, book.Quantity)
}

func TestGetBook_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetBook(context.Background(), 999)
	assert.ErrorIs(t, err, db.ErrBookNotFound)
}

func TestAdjustStock_DecrementsAndIncrements(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.AdjustStock(ctx, 1, -1))
	book, err := repo.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 11, book.Quantity)

	require.NoError(t, repo.AdjustStock(ctx, 1, 1))
	book, err = repo.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, book.Quantity)
}

func TestAdjustStock_UnknownBook(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.AdjustStock(context.Background(), 999, -1)
	assert.ErrorIs(t, err, db.ErrBookNotFound)
}

func TestUpdateBook(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	book, err := repo.GetBook(ctx, 2)
	require.NoError(t, err)

	book.Price = 30.00
	book.Quantity = 20
	require.NoError(t, repo.UpdateBook(ctx, book))

	got, err := repo.GetBook(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 30.00, got.Price)
	assert.Equal(t, 20, got.Quantity)
}

func TestSaveInvoice_AssignsNumberAndKeepsSnapshotOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	inv := &domain.Invoice{
		UserID:      7,
		CreatedAt:   "2026-08-31 10:15:00",
		FinalAmount: 45.0,
		Books: []domain.Book{
			{BookID: 3, BookName: "Designing Data-Intensive Applications", AuthorName: "Martin Kleppmann", Price: 42.00, Quantity: 5},
			{BookID: 1, BookName: "The Go Programming Language", AuthorName: "Alan A. A. Donovan", Price: 35.99, Quantity: 12},
		},
	}
	require.NoError(t, repo.SaveInvoice(ctx, inv))
	assert.NotZero(t, inv.InvoiceNumber)

	got, err := repo.GetInvoice(ctx, 7, "2026-08-31 10:15:00")
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, 45.0, got.FinalAmount)
	require.Len(t, got.Books, 2)
	// Snapshot rows come back in insertion order.
	assert.Equal(t, int64(3), got.Books[0].BookID)
	assert.Equal(t, int64(1), got.Books[1].BookID)
}

func TestGetInvoice_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetInvoice(context.Background(), 7, "2026-08-31 10:15:00")
	assert.ErrorIs(t, err, db.ErrInvoiceNotFound)
}

func TestListInvoices_OrderedByInvoiceNumber(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first := &domain.Invoice{UserID: 7, CreatedAt: "2026-08-31 10:00:00", FinalAmount: 10,
		Books: []domain.Book{{BookID: 1, BookName: "A", AuthorName: "a", Price: 10, Quantity: 1}}}
	second := &domain.Invoice{UserID: 7, CreatedAt: "2026-08-31 11:00:00", FinalAmount: 20,
		Books: []domain.Book{{BookID: 2, BookName: "B", AuthorName: "b", Price: 20, Quantity: 1}}}
	require.NoError(t, repo.SaveInvoice(ctx, first))
	require.NoError(t, repo.SaveInvoice(ctx, second))

	invoices, err := repo.ListInvoices(ctx, 7)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Less(t, invoices[0].InvoiceNumber, invoices[1].InvoiceNumber)
	assert.Len(t, invoices[0].Books, 1)
}

func TestQuantities_RoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	inv := &domain.Invoice{UserID: 7, CreatedAt: "2026-08-31 10:15:00", FinalAmount: 45}
	require.NoError(t, repo.SaveInvoice(ctx, inv))

	q := &domain.LineQuantity{
		InvoiceNumber: inv.InvoiceNumber,
		BookID:        3,
		UserID:        7,
		Quantity:      2,
		CreatedAt:     "2026-08-31 10:15:00",
	}
	require.NoError(t, repo.AddQuantity(ctx, q))

	got, err := repo.GetQuantity(ctx, 7, 3, "2026-08-31 10:15:00")
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, 2, got.Quantity)

	all, err := repo.ListQuantities(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetQuantity_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetQuantity(context.Background(), 7, 3, "2026-08-31 10:15:00")
	assert.ErrorIs(t, err, db.ErrQuantityNotFound)
}
