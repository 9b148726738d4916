package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CrestNiraj12/rentreels/domain"
)

func TestFileTokenProvider_AccessToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("  abc123 \n"), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}

	p := NewFileTokenProvider(path)
	got, err := p.AccessToken()
	if err != nil {
		t.Fatalf("access token failed: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("unexpected token: %q", got)
	}
}

func TestFileTokenProvider_AccessTokenErrors(t *testing.T) {
	p := NewFileTokenProvider(filepath.Join(t.TempDir(), "missing"))
	if _, err := p.AccessToken(); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for missing file, got: %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte(" \n\t"), 0o600); err != nil {
		t.Fatalf("write empty token failed: %v", err)
	}
	p = NewFileTokenProvider(empty)
	_, err := p.AccessToken()
	if err == nil || !strings.Contains(err.Error(), "empty") || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected empty-token error, got: %v", err)
	}
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "tenant-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return s
}

func TestFileTokenProvider_ExpiredJWT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(signed(t, time.Now().Add(-time.Hour))), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}
	if _, err := NewFileTokenProvider(path).AccessToken(); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired jwt to be rejected, got: %v", err)
	}

	fresh := signed(t, time.Now().Add(time.Hour))
	if err := os.WriteFile(path, []byte(fresh), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}
	got, err := NewFileTokenProvider(path).AccessToken()
	if err != nil || got != fresh {
		t.Fatalf("expected fresh jwt accepted, got %q err=%v", got, err)
	}
}

func TestSession_Authenticated(t *testing.T) {
	if NewSession(StaticTokenProvider("")).Authenticated() {
		t.Fatalf("blank static token must not authenticate")
	}
	if !NewSession(StaticTokenProvider("tok")).Authenticated() {
		t.Fatalf("static token should authenticate")
	}
	if (Session{}).Authenticated() {
		t.Fatalf("zero session must not authenticate")
	}
}
