// Package auth issues and validates signed session tokens. The
// authority is stateless: it keeps no record of issued tokens and
// trusts the claims embedded at issuance.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature
// verification, is malformed, or has expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity fields embedded in a session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Authority signs and verifies session tokens with a shared secret.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthority constructs an Authority. Tokens are valid for ttl from
// issuance.
func NewAuthority(secret []byte, ttl time.Duration) *Authority {
	return &Authority{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Used by tests to simulate expiry.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	a.now = now
	return a
}

// Issue signs the identity claims plus issued-at and expiry timestamps.
func (a *Authority) Issue(userID, email, name string) (string, error) {
	issuedAt := a.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify checks the signature and expiry and returns the embedded
// claims. The claims are returned as issued, not re-fetched from the
// credential store.
func (a *Authority) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithStrictDecoding())
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
