package app

import (
	"context"

	"github.com/CrestNiraj12/rentreels/domain"
)

// Locator resolves the device location for nearby search.
type Locator interface {
	// Locate returns the current position. fallback is true when the lookup
	// was denied or timed out and a default location was used instead.
	Locate(ctx context.Context) (point domain.GeoPoint, fallback bool)
}

// Sharer hands a shareable entry to the platform.
type Sharer interface {
	// Share returns a short label of the method used (e.g. "clipboard").
	Share(ctx context.Context, s domain.Shareable) (method string, err error)
}

// Navigator opens property detail pages.
type Navigator interface {
	OpenProperty(ref domain.PropertyRef) error
}

// MediaPlayer renders the media of at most one entry at a time. Calls must
// not block the UI loop.
type MediaPlayer interface {
	Play(src string)
	Pause()
	Resume()
	SetMuted(muted bool)
	Stop()
}

// PosterRenderer turns an entry's poster image into terminal art.
type PosterRenderer interface {
	Render(ctx context.Context, url string, cols, rows int) (string, error)
}
