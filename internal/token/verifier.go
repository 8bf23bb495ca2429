package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a bearer token against a single trust source.
// It returns the normalized claims, ErrTokenExpired, ErrTokenRejected,
// or ErrVerifierUnavailable when the source could not be consulted.
type Verifier interface {
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// LocalVerifier checks tokens against the local HMAC signing secret
type LocalVerifier struct {
	secretKey string
}

// NewLocalVerifier creates a new LocalVerifier
func NewLocalVerifier(secretKey string) *LocalVerifier {
	return &LocalVerifier{secretKey: secretKey}
}

// Verify parses and validates the token signature and expiry
func (v *LocalVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenRejected
	}
	return claims, nil
}

// Chain tries an ordered list of verifiers and stops at the first success.
// When every source rejects or is unavailable the aggregate result is
// ErrTokenRejected, except that a definite expiry is reported as such.
type Chain struct {
	verifiers []Verifier
}

// NewChain creates a verifier chain in trust order
func NewChain(verifiers ...Verifier) *Chain {
	return &Chain{verifiers: verifiers}
}

// Verify runs the chain
func (c *Chain) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	var expired bool
	for _, v := range c.verifiers {
		claims, err := v.Verify(ctx, tokenString)
		if err == nil {
			return claims, nil
		}
		if errors.Is(err, ErrTokenExpired) {
			expired = true
		}
	}
	if expired {
		return nil, ErrTokenExpired
	}
	return nil, ErrTokenRejected
}
