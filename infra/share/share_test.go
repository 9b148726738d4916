package share

import (
	"context"
	"errors"
	"testing"

	"github.com/atotto/clipboard"

	"github.com/CrestNiraj12/rentreels/domain"
)

func TestBuildShareable(t *testing.T) {
	e := domain.FeedEntry{
		ID:       "r 1",
		Caption:  "Sunny 2BHK",
		City:     "Pune",
		Property: &domain.PropertyRef{ID: "p1", Title: "Lake View"},
	}
	got := BuildShareable(e, "https://rentreels.app/")
	if got.URL != "https://rentreels.app/reels/r%201" {
		t.Fatalf("unexpected url: %q", got.URL)
	}
	if got.Title != "Lake View" || got.Text != "Sunny 2BHK (Pune)" {
		t.Fatalf("unexpected shareable: %#v", got)
	}
}

func TestShare_PrefersNativeCommand(t *testing.T) {
	s := NewSharer("termux-share --silent", nil)
	var gotName string
	var gotArgs []string
	s.run = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	s.copy = func(string) error {
		t.Fatalf("clipboard must not be used when native share works")
		return nil
	}

	method, err := s.Share(context.Background(), domain.Shareable{Title: "T", Text: "x", URL: "https://u"})
	if err != nil || method != "share" {
		t.Fatalf("unexpected result %q %v", method, err)
	}
	if gotName != "termux-share" || len(gotArgs) != 4 || gotArgs[0] != "--silent" || gotArgs[3] != "https://u" {
		t.Fatalf("unexpected invocation %s %#v", gotName, gotArgs)
	}
}

func TestShare_FallsBackToClipboard(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("clipboard unsupported on this host")
	}
	s := NewSharer("broken-share", nil)
	s.run = func(context.Context, string, ...string) error { return errors.New("not found") }
	var copied string
	s.copy = func(v string) error { copied = v; return nil }

	method, err := s.Share(context.Background(), domain.Shareable{URL: "https://u"})
	if err != nil || method != "clipboard" || copied != "https://u" {
		t.Fatalf("unexpected fallback result %q %v copied=%q", method, err, copied)
	}
}

func TestShare_AllMethodsFail(t *testing.T) {
	s := NewSharer("", nil)
	s.copy = func(string) error { return errors.New("no display") }

	_, err := s.Share(context.Background(), domain.Shareable{URL: "https://u"})
	if !errors.Is(err, domain.ErrShareUnavailable) {
		t.Fatalf("expected share unavailable, got %v", err)
	}
}

func TestOpenProperty(t *testing.T) {
	b := NewBrowser("https://rentreels.app")
	var opened string
	b.start = func(_ string, args ...string) error {
		opened = args[len(args)-1]
		return nil
	}

	if err := b.OpenProperty(domain.PropertyRef{ID: "p-9"}); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if opened != "https://rentreels.app/properties/p-9" {
		t.Fatalf("unexpected url %q", opened)
	}

	opened = ""
	if err := b.OpenProperty(domain.PropertyRef{}); !errors.Is(err, domain.ErrPropertyUnavailable) {
		t.Fatalf("expected unavailable for empty ref, got %v", err)
	}
	if opened != "" {
		t.Fatalf("must not open anything without a property")
	}
}

func TestIsSafeExternalURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://rentreels.app/properties/1", true},
		{"http://localhost:8080/x", true},
		{"file:///etc/passwd", false},
		{"javascript:alert(1)", false},
		{"https:///nohost", false},
	}
	for _, tc := range tests {
		if got := isSafeExternalURL(tc.in); got != tc.want {
			t.Fatalf("isSafeExternalURL(%q) got %v want %v", tc.in, got, tc.want)
		}
	}
}
