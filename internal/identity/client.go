package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrServiceUnavailable = errors.New("identity service unavailable")
)

// Resolver turns an opaque session token into a user identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// Client calls the external user API. Lookups run behind a circuit breaker
// so that a dead identity service fails fast instead of stalling requests.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.Identity]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[*domain.Identity](gobreaker.Settings{
		Name: "identity-api",
		IsSuccessful: func(err error) bool {
			// A missing user is an answer, not an outage.
			return err == nil || errors.Is(err, ErrUserNotFound)
		},
	})
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (c *Client) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	ident, err := c.breaker.Execute(func() (*domain.Identity, error) {
		return c.fetch(ctx, token)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrServiceUnavailable
		}
		return nil, err
	}
	return ident, nil
}

func (c *Client) fetch(ctx context.Context, token string) (*domain.Identity, error) {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var ident domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	return &ident, nil
}
