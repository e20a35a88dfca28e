package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/durgasankar/BookStore-BackEndApi/internal/cache"
	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/notifier"
	"github.com/durgasankar/BookStore-BackEndApi/internal/publisher"
	"github.com/durgasankar/BookStore-BackEndApi/internal/repository"
	"github.com/durgasankar/BookStore-BackEndApi/internal/token"
	"golang.org/x/sync/singleflight"
)

// IdentityVerifier resolves a session token to a verified identity.
// Consumers define this interface, not the identity package.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

type Stores struct {
	Books      repository.BookStore
	Cart       repository.CartStore
	Invoices   repository.InvoiceStore
	Quantities repository.QuantityStore
}

type OrderService struct {
	stores   Stores
	cache    cache.CartCache
	verifier IdentityVerifier
	parser   *token.Parser
	notifier notifier.Notifier
	events   publisher.EventPublisher
	sfg      singleflight.Group // Prevents cache stampede
}

func NewOrderService(
	stores Stores,
	cartCache cache.CartCache,
	verifier IdentityVerifier,
	parser *token.Parser,
	mail notifier.Notifier,
	events publisher.EventPublisher,
) *OrderService {
	return &OrderService{
		stores:   stores,
		cache:    cartCache,
		verifier: verifier,
		parser:   parser,
		notifier: mail,
		events:   events,
	}
}

// MakeOrder adds one book to the user's cart. The line total is computed
// here, once, from the catalog price; the catalog stock drops by one.
func (s *OrderService) MakeOrder(ctx context.Context, bookID int64, quantity int, userID int64) error {
	book, err := s.stores.Books.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	line := &domain.CartLine{
		BookID:    bookID,
		UserID:    userID,
		Quantity:  quantity,
		BookName:  book.BookName,
		Price:     book.Price,
		LineTotal: book.Price * float64(quantity),
		BookImage: book.BookImage,
	}
	if err := s.stores.Cart.AddLine(ctx, line); err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}

	if err := s.stores.Books.AdjustStock(ctx, bookID, -1); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	s.invalidateCache(userID)
	return nil
}

// MakeOrderWithToken resolves the user from the token's claim before adding.
func (s *OrderService) MakeOrderWithToken(ctx context.Context, bookID int64, quantity int, tokenString string) error {
	userID, err := s.parser.ParseUserID(tokenString)
	if err != nil {
		return err
	}
	return s.MakeOrder(ctx, bookID, quantity, userID)
}

// CartList returns the user's pending cart lines, served from cache when
// possible.
func (s *OrderService) CartList(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(fmt.Sprint(userID), func() (interface{}, error) {
		lines, err := s.cache.Get(ctx, userID)
		if err == nil {
			return lines, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		lines, errGet := s.stores.Cart.GetLines(ctx, userID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, lines); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return lines, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.CartLine), nil
}

func (s *OrderService) CartListWithToken(ctx context.Context, tokenString string) ([]domain.CartLine, error) {
	userID, err := s.parser.ParseUserID(tokenString)
	if err != nil {
		return nil, err
	}
	return s.CartList(ctx, userID)
}

// UpdateQuantity overwrites a cart line's quantity.
func (s *OrderService) UpdateQuantity(ctx context.Context, userID, bookID int64, quantity int) error {
	if err := s.stores.Cart.UpdateQuantity(ctx, userID, bookID, quantity); err != nil {
		return err
	}
	s.invalidateCache(userID)
	return nil
}

// UpdateQuantityWithToken resolves the user from the token's claim before
// updating.
func (s *OrderService) UpdateQuantityWithToken(ctx context.Context, tokenString string, bookID int64, quantity int) error {
	userID, err := s.parser.ParseUserID(tokenString)
	if err != nil {
		return err
	}
	return s.UpdateQuantity(ctx, userID, bookID, quantity)
}

// CancelOrder removes a line from the cart and returns one unit to stock.
func (s *OrderService) CancelOrder(ctx context.Context, userID, bookID int64) error {
	if err := s.stores.Cart.RemoveLine(ctx, userID, bookID); err != nil {
		return err
	}

	if err := s.stores.Books.AdjustStock(ctx, bookID, 1); err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	s.invalidateCache(userID)
	return nil
}

// CancelOrderWithToken resolves the user from the token's claim before
// cancelling.
func (s *OrderService) CancelOrderWithToken(ctx context.Context, tokenString string, bookID int64) error {
	userID, err := s.parser.ParseUserID(tokenString)
	if err != nil {
		return err
	}
	return s.CancelOrder(ctx, userID, bookID)
}

func (s *OrderService) invalidateCache(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
