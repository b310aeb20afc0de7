package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carry the authenticated account through the signed cookie.
type SessionClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionSigner issues and parses the HS256 session tokens stored in the
// auth cookie (or sent as a bearer header).
type SessionSigner struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (s *SessionSigner) Issue(userID uint, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

func (s *SessionSigner) Parse(tokenStr string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
