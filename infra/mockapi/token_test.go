package mockapi

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestDemoToken_CarriesExpiry(t *testing.T) {
	now := time.Now()
	token, err := DemoToken(now, time.Hour)
	if err != nil {
		t.Fatalf("DemoToken: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "demo" || claims.ExpiresAt == nil {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if d := claims.ExpiresAt.Sub(now); d < 59*time.Minute || d > time.Hour+time.Second {
		t.Fatalf("unexpected ttl %v", d)
	}
}
