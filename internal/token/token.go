package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"betaware/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature checked out but the validity window passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRejected means the token failed verification against a trust source.
	ErrTokenRejected = errors.New("token rejected")
	// ErrVerifierUnavailable means a trust source could not be consulted at all
	// (not configured, or unreachable). The next verifier in the chain decides.
	ErrVerifierUnavailable = errors.New("verifier unavailable")
)

// Claims is the identity claim set carried inside a session token
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs session tokens with the process-wide secret
type Issuer struct {
	secretKey       string
	expirationHours int64
}

// NewIssuer creates a new Issuer
func NewIssuer(secretKey string, expirationHours int64) *Issuer {
	return &Issuer{secretKey: secretKey, expirationHours: expirationHours}
}

// Issue generates a signed token embedding the user's identity claims
func (i *Issuer) Issue(user *model.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(i.expirationHours))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := tok.SignedString([]byte(i.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
