// Package geo resolves an approximate device location for nearby search.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/rentreels/domain"
)

// DefaultTimeout bounds a lookup before falling back.
const DefaultTimeout = 4 * time.Second

// IPLocator looks the location up from an IP geolocation endpoint. Any
// failure, including the timeout, yields the fallback point.
type IPLocator struct {
	url      string
	http     *http.Client
	timeout  time.Duration
	fallback domain.GeoPoint
	log      *zap.Logger
}

// NewIPLocator creates a locator. A zero timeout means DefaultTimeout.
func NewIPLocator(url string, fallback domain.GeoPoint, timeout time.Duration, log *zap.Logger) *IPLocator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IPLocator{
		url:      url,
		http:     &http.Client{},
		timeout:  timeout,
		fallback: fallback,
		log:      log,
	}
}

type ipResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

// Locate implements app.Locator.
func (l *IPLocator) Locate(ctx context.Context) (domain.GeoPoint, bool) {
	if l.url == "" {
		return l.fallback, true
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	p, err := l.lookup(ctx)
	if err != nil {
		l.log.Info("geolocation fallback", zap.Error(err))
		return l.fallback, true
	}
	return p, false
}

func (l *IPLocator) lookup(ctx context.Context) (domain.GeoPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("locating: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("locating: status %d", resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parsing location: %w", err)
	}
	lat, lng := body.Latitude, body.Longitude
	if lat == nil || lng == nil {
		lat, lng = body.Lat, body.Lon
	}
	if lat == nil || lng == nil {
		return domain.GeoPoint{}, fmt.Errorf("parsing location: missing coordinates")
	}
	p := domain.GeoPoint{Lat: *lat, Lng: *lng}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return domain.GeoPoint{}, fmt.Errorf("parsing location: out of range %v", p)
	}
	return p, nil
}
