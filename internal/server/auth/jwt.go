// Package auth issues and verifies identity tokens and carries the
// authenticated user id through request contexts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered subject, issued-at and expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService signs HS256 tokens with a process-wide secret fixed at
// construction. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService builds a TokenService. The secret is copied.
func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenService{secret: key, validity: validity, now: time.Now}
}

// Issue returns a signed token whose subject is userID.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty subject")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// subject. It fails with common.ErrTokenExpired once the current time reaches
// the expiry and with common.ErrInvalidToken for anything else.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
