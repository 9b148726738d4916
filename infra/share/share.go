// Package share hands reels to the platform: native share command,
// clipboard, and opening property pages in the browser.
package share

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/rentreels/domain"
)

// BuildShareable produces the title, text and canonical link for an entry.
func BuildShareable(e domain.FeedEntry, webURL string) domain.Shareable {
	text := e.Caption
	if text == "" {
		text = "Check out this property on RentReels"
	}
	if e.City != "" {
		text = fmt.Sprintf("%s (%s)", text, e.City)
	}
	return domain.Shareable{
		Title: e.Title(),
		Text:  text,
		URL:   strings.TrimRight(webURL, "/") + "/reels/" + url.PathEscape(e.ID),
	}
}

// PropertyURL is the public detail page of a property.
func PropertyURL(webURL, propertyID string) string {
	return strings.TrimRight(webURL, "/") + "/properties/" + url.PathEscape(propertyID)
}

// Sharer tries the native share command first and falls back to the
// clipboard. When both fail it returns domain.ErrShareUnavailable and the
// caller shows the link instead.
type Sharer struct {
	command string
	run     func(ctx context.Context, name string, args ...string) error
	copy    func(string) error
	log     *zap.Logger
}

// NewSharer creates a Sharer. command may be empty; it receives the title,
// text and URL as arguments, e.g. "termux-share" or a script.
func NewSharer(command string, log *zap.Logger) *Sharer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sharer{
		command: strings.TrimSpace(command),
		run:     runCommand,
		copy:    clipboard.WriteAll,
		log:     log,
	}
}

// Share implements app.Sharer.
func (s *Sharer) Share(ctx context.Context, sh domain.Shareable) (string, error) {
	if s.command != "" {
		fields := strings.Fields(s.command)
		args := append(fields[1:], sh.Title, sh.Text, sh.URL)
		err := s.run(ctx, fields[0], args...)
		if err == nil {
			return "share", nil
		}
		s.log.Warn("native share failed", zap.String("command", fields[0]), zap.Error(err))
	}
	if !clipboard.Unsupported {
		err := s.copy(sh.URL)
		if err == nil {
			return "clipboard", nil
		}
		s.log.Warn("clipboard copy failed", zap.Error(err))
	}
	return "", fmt.Errorf("sharing %s: %w", sh.URL, domain.ErrShareUnavailable)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Browser opens property pages with the platform URL opener.
type Browser struct {
	webURL string
	start  func(name string, args ...string) error
}

// NewBrowser creates a Browser rooted at the public site.
func NewBrowser(webURL string) *Browser {
	return &Browser{webURL: webURL, start: startDetached}
}

// OpenProperty implements app.Navigator.
func (b *Browser) OpenProperty(ref domain.PropertyRef) error {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return domain.ErrPropertyUnavailable
	}
	target := PropertyURL(b.webURL, id)
	if !isSafeExternalURL(target) {
		return fmt.Errorf("refusing to open %q", target)
	}
	if err := b.start(opener(), target); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
