package repository

import (
	"context"
	"errors"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrQuantityNotFound = errors.New("quantity record not found")
	ErrNothingUpdated   = errors.New("no rows affected")
)

// Credentials for the postgres backend.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// BookStore is the catalog. Stock adjustments are plain read-modify-write
// updates; there is no reservation or locking.
type BookStore interface {
	GetBook(ctx context.Context, bookID int64) (*domain.Book, error)
	GetAllBooks(ctx context.Context) ([]domain.Book, error)
	AdjustStock(ctx context.Context, bookID int64, delta int) error
	UpdateBook(ctx context.Context, book *domain.Book) error
}

// InvoiceStore persists confirmed orders. SaveInvoice assigns the invoice
// number; GetInvoice looks one up by its (user, created-at) correlation key.
type InvoiceStore interface {
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) error
	GetInvoice(ctx context.Context, userID int64, createdAt string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, userID int64) ([]domain.Invoice, error)
}

// QuantityStore persists per-invoice purchased quantities.
type QuantityStore interface {
	AddQuantity(ctx context.Context, q *domain.LineQuantity) error
	GetQuantity(ctx context.Context, userID, bookID int64, createdAt string) (*domain.LineQuantity, error)
	ListQuantities(ctx context.Context, userID int64) ([]domain.LineQuantity, error)
}

// CartStore holds pending order lines per user.
// Consumers define this interface, not the MongoDB implementation.
type CartStore interface {
	AddLine(ctx context.Context, line *domain.CartLine) error
	GetLines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, bookID int64, quantity int) error
	RemoveLine(ctx context.Context, userID, bookID int64) error
	Clear(ctx context.Context, userID int64) error
}
