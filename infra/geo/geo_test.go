package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CrestNiraj12/rentreels/domain"
)

var fallback = domain.GeoPoint{Lat: 1, Lng: 2}

func TestLocate(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		want         domain.GeoPoint
		wantFallback bool
	}{
		{
			name: "ipapi shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"latitude":18.52,"longitude":73.85}`))
			},
			want: domain.GeoPoint{Lat: 18.52, Lng: 73.85},
		},
		{
			name: "ip-api shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"lat":12.97,"lon":77.59}`))
			},
			want: domain.GeoPoint{Lat: 12.97, Lng: 77.59},
		},
		{
			name: "denied",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			want:         fallback,
			wantFallback: true,
		},
		{
			name: "missing coordinates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"city":"Pune"}`))
			},
			want:         fallback,
			wantFallback: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			got, fb := NewIPLocator(ts.URL, fallback, time.Second, nil).Locate(context.Background())
			if got != tc.want || fb != tc.wantFallback {
				t.Fatalf("got %v fallback=%v, want %v fallback=%v", got, fb, tc.want, tc.wantFallback)
			}
		})
	}
}

func TestLocate_TimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	start := time.Now()
	got, fb := NewIPLocator(ts.URL, fallback, 50*time.Millisecond, nil).Locate(context.Background())
	if !fb || got != fallback {
		t.Fatalf("expected fallback on timeout, got %v fallback=%v", got, fb)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("lookup did not honour timeout")
	}
}

func TestLocate_NoURLFallsBack(t *testing.T) {
	got, fb := NewIPLocator("", fallback, 0, nil).Locate(context.Background())
	if !fb || got != fallback {
		t.Fatalf("expected fallback without endpoint")
	}
}
