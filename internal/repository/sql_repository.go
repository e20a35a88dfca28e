package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Repository implements BookStore, InvoiceStore and QuantityStore over a
// SQL database. The same queries run against postgres in production and
// sqlite in tests.
type Repository struct {
	db     *sql.DB
	driver string
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	var (
		driver database.Driver
		err    error
	)
	switch r.driver {
	case "postgres":
		driver, err = migratepg.WithInstance(r.db, &migratepg.Config{})
	case "sqlite":
		driver, err = migratesqlite.WithInstance(r.db, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unknown driver %q", r.driver)
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		r.driver,
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// --- BookStore ---

func (r *Repository) GetBook(ctx context.Context, bookID int64) (*domain.Book, error) {
	query := `SELECT book_id, book_name, author_name, price, quantity, book_image
	          FROM books WHERE book_id = $1`

	var b domain.Book
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
		&b.BookID,
		&b.BookName,
		&b.AuthorName,
		&b.Price,
		&b.Quantity,
		&b.BookImage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query book by id: %w", err)
	}
	return &b, nil
}

func (r *Repository) GetAllBooks(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT book_id, book_name, author_name, price, quantity, book_image
	          FROM books ORDER BY book_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.BookID, &b.BookName, &b.AuthorName, &b.Price, &b.Quantity, &b.BookImage); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return books, nil
}

func (r *Repository) AdjustStock(ctx context.Context, bookID int64, delta int) error {
	query := `UPDATE books SET quantity = quantity + $1 WHERE book_id = $2`

	res, err := r.db.ExecContext(ctx, query, delta, bookID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *Repository) UpdateBook(ctx context.Context, book *domain.Book) error {
	query := `UPDATE books SET book_name = $1, author_name = $2, price = $3, quantity = $4, book_image = $5
	          WHERE book_id = $6`

	res, err := r.db.ExecContext(ctx, query,
		book.BookName, book.AuthorName, book.Price, book.Quantity, book.BookImage, book.BookID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book rows affected: %w", err)
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// --- InvoiceStore ---

func (r *Repository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	query := `INSERT INTO invoices (user_id, final_amount, created_at)
	          VALUES ($1, $2, $3) RETURNING invoice_number`

	err := r.db.QueryRowContext(ctx, query,
		invoice.UserID, invoice.FinalAmount, invoice.CreatedAt).Scan(&invoice.InvoiceNumber)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	snapshotQuery := `INSERT INTO invoice_books (invoice_number, book_id, book_name, author_name, price, quantity, book_image)
	                  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, b := range invoice.Books {
		_, err := r.db.ExecContext(ctx, snapshotQuery,
			invoice.InvoiceNumber, b.BookID, b.BookName, b.AuthorName, b.Price, b.Quantity, b.BookImage)
		if err != nil {
			return fmt.Errorf("insert invoice book snapshot: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetInvoice(ctx context.Context, userID int64, createdAt string) (*domain.Invoice, error) {
	query := `SELECT invoice_number, user_id, final_amount, created_at
	          FROM invoices WHERE user_id = $1 AND created_at = $2`

	var inv domain.Invoice
	err := r.db.QueryRowContext(ctx, query, userID, createdAt).Scan(
		&inv.InvoiceNumber, &inv.UserID, &inv.FinalAmount, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query invoice: %w", err)
	}

	books, err := r.invoiceBooks(ctx, inv.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	inv.Books = books
	return &inv, nil
}

func (r *Repository) ListInvoices(ctx context.Context, userID int64) ([]domain.Invoice, error) {
	query := `SELECT invoice_number, user_id, final_amount, created_at
	          FROM invoices WHERE user_id = $1 ORDER BY invoice_number`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query invoices by user id: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.InvoiceNumber, &inv.UserID, &inv.FinalAmount, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range invoices {
		books, err := r.invoiceBooks(ctx, invoices[i].InvoiceNumber)
		if err != nil {
			return nil, err
		}
		invoices[i].Books = books
	}
	return invoices, nil
}

// invoiceBooks returns the snapshot rows in the order they were written.
func (r *Repository) invoiceBooks(ctx context.Context, invoiceNumber int64) ([]domain.Book, error) {
	query := `SELECT book_id, book_name, author_name, price, quantity, book_image
	          FROM invoice_books WHERE invoice_number = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query invoice books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.BookID, &b.BookName, &b.AuthorName, &b.Price, &b.Quantity, &b.BookImage); err != nil {
			return nil, fmt.Errorf("scan invoice book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return books, nil
}

// --- QuantityStore ---

func (r *Repository) AddQuantity(ctx context.Context, q *domain.LineQuantity) error {
	query := `INSERT INTO quantities (invoice_number, book_id, user_id, quantity, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		q.InvoiceNumber, q.BookID, q.UserID, q.Quantity, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quantity: %w", err)
	}
	return nil
}

func (r *Repository) GetQuantity(ctx context.Context, userID, bookID int64, createdAt string) (*domain.LineQuantity, error) {
	query := `SELECT invoice_number, book_id, user_id, quantity, created_at
	          FROM quantities WHERE user_id = $1 AND book_id = $2 AND created_at = $3`

	var q domain.LineQuantity
	err := r.db.QueryRowContext(ctx, query, userID, bookID, createdAt).Scan(
		&q.InvoiceNumber, &q.BookID, &q.UserID, &q.Quantity, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuantityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query quantity: %w", err)
	}
	return &q, nil
}

func (r *Repository) ListQuantities(ctx context.Context, userID int64) ([]domain.LineQuantity, error) {
	query := `SELECT invoice_number, book_id, user_id, quantity, created_at
	          FROM quantities WHERE user_id = $1 ORDER BY invoice_number, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query quantities by user id: %w", err)
	}
	defer rows.Close()

	var quantities []domain.LineQuantity
	for rows.Next() {
		var q domain.LineQuantity
		if err := rows.Scan(&q.InvoiceNumber, &q.BookID, &q.UserID, &q.Quantity, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quantity row: %w", err)
		}
		quantities = append(quantities, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return quantities, nil
}
