package service

import (
	"context"
	"sync"

	"github.com/durgasankar/BookStore-BackEndApi/internal/cache"
	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/publisher"
	"github.com/durgasankar/BookStore-BackEndApi/internal/repository"
)

type stockAdjustment struct {
	bookID int64
	delta  int
}

// mockBookStore implements repository.BookStore for testing
type mockBookStore struct {
	books       map[int64]*domain.Book
	catalog     []domain.Book
	adjusted    []stockAdjustment
	getAllErr   error
	adjustErr   error
	updateErr   error
	updatedBook *domain.Book
}

func (m *mockBookStore) GetBook(_ context.Context, bookID int64) (*domain.Book, error) {
	book, ok := m.books[bookID]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return book, nil
}

func (m *mockBookStore) GetAllBooks(context.Context) ([]domain.Book, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.catalog, nil
}

func (m *mockBookStore) AdjustStock(_ context.Context, bookID int64, delta int) error {
	if m.adjustErr != nil {
		return m.adjustErr
	}
	m.adjusted = append(m.adjusted, stockAdjustment{bookID, delta})
	return nil
}

func (m *mockBookStore) UpdateBook(_ context.Context, book *domain.Book) error {
	m.updatedBook = book
	return m.updateErr
}

// mockCartStore implements repository.CartStore for testing
type mockCartStore struct {
	lines     []domain.CartLine
	added     []domain.CartLine
	cleared   []int64
	removed   []int64
	updated   map[int64]int
	getErr    error
	addErr    error
	updateErr error
	removeErr error
	clearErr  error
}

func (m *mockCartStore) AddLine(_ context.Context, line *domain.CartLine) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, *line)
	return nil
}

func (m *mockCartStore) GetLines(_ context.Context, _ int64) ([]domain.CartLine, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.lines, nil
}

func (m *mockCartStore) UpdateQuantity(_ context.Context, _, bookID int64, quantity int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[int64]int)
	}
	m.updated[bookID] = quantity
	return nil
}

func (m *mockCartStore) RemoveLine(_ context.Context, _, bookID int64) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, bookID)
	return nil
}

func (m *mockCartStore) Clear(_ context.Context, userID int64) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, userID)
	return nil
}

// mockInvoiceStore implements repository.InvoiceStore for testing
type mockInvoiceStore struct {
	saved      []*domain.Invoice
	invoices   []domain.Invoice
	nextNumber int64
	saveErr    error
	getErr     error
	listErr    error
}

func (m *mockInvoiceStore) SaveInvoice(_ context.Context, invoice *domain.Invoice) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.nextNumber++
	invoice.InvoiceNumber = m.nextNumber
	m.saved = append(m.saved, invoice)
	return nil
}

func (m *mockInvoiceStore) GetInvoice(_ context.Context, userID int64, createdAt string) (*domain.Invoice, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, inv := range m.saved {
		if inv.UserID == userID && inv.CreatedAt == createdAt {
			return inv, nil
		}
	}
	return nil, repository.ErrInvoiceNotFound
}

func (m *mockInvoiceStore) ListInvoices(_ context.Context, _ int64) ([]domain.Invoice, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.invoices, nil
}

// mockQuantityStore implements repository.QuantityStore for testing
type mockQuantityStore struct {
	added      []domain.LineQuantity
	quantities []domain.LineQuantity
	addErr     error
	listErr    error
}

func (m *mockQuantityStore) AddQuantity(_ context.Context, q *domain.LineQuantity) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, *q)
	return nil
}

func (m *mockQuantityStore) GetQuantity(_ context.Context, userID, bookID int64, createdAt string) (*domain.LineQuantity, error) {
	for _, q := range m.quantities {
		if q.UserID == userID && q.BookID == bookID && q.CreatedAt == createdAt {
			return &q, nil
		}
	}
	return nil, repository.ErrQuantityNotFound
}

func (m *mockQuantityStore) ListQuantities(_ context.Context, _ int64) ([]domain.LineQuantity, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.quantities, nil
}

// mockCache implements cache.CartCache for testing. Set runs on a background
// goroutine in the service, so every method takes the mutex.
type mockCache struct {
	mu      sync.Mutex
	data    map[int64][]domain.CartLine
	deleted []int64
	getErr  error
}

func (m *mockCache) Get(_ context.Context, userID int64) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	lines, ok := m.data[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return lines, nil
}

func (m *mockCache) Set(_ context.Context, userID int64, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[int64][]domain.CartLine)
	}
	m.data[userID] = lines
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *mockCache) deletedUsers() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.deleted...)
}

func (m *mockCache) stored(userID int64) ([]domain.CartLine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.data[userID]
	return lines, ok
}

// stubVerifier implements IdentityVerifier for testing
type stubVerifier struct {
	ident *domain.Identity
	err   error
	calls int
}

func (s *stubVerifier) Verify(context.Context, string) (*domain.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ident, nil
}

type mailCall struct {
	email string
	name  string
	total float64
}

// mockNotifier implements notifier.Notifier for testing
type mockNotifier struct {
	err   error
	calls []mailCall
}

func (m *mockNotifier) SendOrderSummary(email, firstName string, total float64) error {
	m.calls = append(m.calls, mailCall{email, firstName, total})
	return m.err
}

// mockPublisher implements publisher.EventPublisher for testing
type mockPublisher struct {
	events []*publisher.OrderConfirmedEvent
	err    error
}

func (m *mockPublisher) PublishOrderConfirmed(_ context.Context, event *publisher.OrderConfirmedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}
