package mockapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DemoToken mints a short-lived HS256 token for the demo user. The mock
// server only compares it byte for byte; the exp claim lets the client's
// expiry check run against a real JWT.
func DemoToken(now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "demo",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	secret := []byte(uuid.NewString())
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing demo token: %w", err)
	}
	return token, nil
}
