package utils

import (
	"fmt"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs an HS256 access token carrying the credit roles that
// middleware.AuthMiddleware turns into a capability.
func GenerateJWT(subject string, roles []string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if secret == "" {
		return "", fmt.Errorf("signing secret is required")
	}
	now := time.Now()
	claims := middleware.CreditClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
