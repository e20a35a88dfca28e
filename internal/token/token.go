package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every decode failure: bad signature, malformed
// payload or algorithm mismatch. Callers cannot tell them apart.
var ErrInvalidToken = errors.New("invalid token or token expired")

const userIDClaim = "user_id"

type Parser struct {
	secret []byte
}

func NewParser(secret []byte) *Parser {
	return &Parser{secret: secret}
}

// ParseUserID decodes the embedded user-id claim from an HS256 token.
func (p *Parser) ParseUserID(tokenString string) (int64, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims[userIDClaim].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(id), nil
}

// Generate issues a token for the given user id, valid for the given ttl.
func (p *Parser) Generate(userID int64, ttl time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIDClaim: userID,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(ttl).Unix(),
	})
	signed, err := tok.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
