// Package thumb turns poster images into ANSI half-block art for the feed
// cards.
package thumb

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxImageBytes = 4 << 20

// Renderer downloads posters and renders them.
type Renderer struct {
	http *http.Client
}

// New creates a Renderer whose downloads give up after timeout.
func New(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Renderer{http: &http.Client{Timeout: timeout}}
}

// Render fetches url and returns it as cols x rows cells of art.
func (r *Renderer) Render(ctx context.Context, url string, cols, rows int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building poster request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching poster: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("poster status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("decoding poster: %w", err)
	}
	return Art(img, cols, rows), nil
}

// Art samples img onto a cols x rows grid. Each cell is an upper half block
// carrying two vertically stacked pixels, so the effective resolution is
// cols x 2*rows.
func Art(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	cols, rows = max(cols, 2), max(rows, 1)

	at := func(x, y int) color.NRGBA {
		sx := b.Min.X + x*b.Dx()/cols
		sy := b.Min.Y + y*b.Dy()/(2*rows)
		return color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
	}

	var out strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top, bottom := at(x, 2*y), at(x, 2*y+1)
			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		out.WriteString("\x1b[0m")
		if y < rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
