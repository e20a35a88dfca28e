package identity

import (
	"context"
	"errors"

	"github.com/durgasankar/BookStore-BackEndApi/internal/domain"
	"github.com/durgasankar/BookStore-BackEndApi/internal/token"
)

// ErrUserDoesNotExist is returned when the resolved identity does not match
// the token's embedded user id, or when no identity resolves at all. The two
// cases are deliberately indistinguishable to callers.
var ErrUserDoesNotExist = errors.New("user does not exist")

type Verifier struct {
	resolver Resolver
	parser   *token.Parser
}

func NewVerifier(resolver Resolver, parser *token.Parser) *Verifier {
	return &Verifier{resolver: resolver, parser: parser}
}

// Verify resolves the token against the identity service and cross-checks
// the result with the token's own user-id claim. The identity is returned to
// the caller and never retained here.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*domain.Identity, error) {
	ident, err := v.resolver.Resolve(ctx, tokenString)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrUserDoesNotExist
	}
	if err != nil {
		return nil, err
	}

	userID, err := v.parser.ParseUserID(tokenString)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	if ident.UserID != userID {
		return nil, ErrUserDoesNotExist
	}
	return ident, nil
}
