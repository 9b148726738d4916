package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CrestNiraj12/rentreels/domain"
)

// Config holds application-level configuration.
type Config struct {
	APIURL          string // e.g. "https://api.rentreels.app"
	WebURL          string // Public site used for share and property links
	TokenPath       string // Path to file containing the access token
	UIStatePath     string // Persisted category and mute preference
	Category        string // Initial feed category
	PlayerPath      string // mpv binary, or "none" for headless playback
	ShareCommand    string // Optional native share command, receives the URL
	GeoURL          string // IP geolocation endpoint
	DefaultLocation domain.GeoPoint
	Timeout         time.Duration
	LogLevel        string // Empty disables logging
	LogFile         string
}

const (
	defaultAPI      = "https://api.rentreels.app"
	defaultWeb      = "https://rentreels.app"
	defaultCategory = "latest"
	defaultGeoURL   = "https://ipapi.co/json/"
	defaultTimeout  = 15 * time.Second
)

// DefaultLocation is used when geolocation is denied or times out.
var DefaultLocation = domain.GeoPoint{Lat: 28.6139, Lng: 77.2090}

// Load reads configuration from environment variables.
//
//	RENTREELS_API         : backend base URL (https, or http on loopback)
//	RENTREELS_WEB         : public site URL for links
//	RENTREELS_TOKEN       : path to token file (default: ~/.config/rentreels/token)
//	RENTREELS_CATEGORY    : initial category (default: "latest")
//	RENTREELS_PLAYER      : mpv path or "none" (default: "mpv")
//	RENTREELS_SHARE_CMD   : native share command
//	RENTREELS_GEO_URL     : IP geolocation endpoint
//	RENTREELS_DEFAULT_LAT : fallback latitude
//	RENTREELS_DEFAULT_LNG : fallback longitude
//	RENTREELS_TIMEOUT     : HTTP timeout, Go duration (default: 15s)
//	RENTREELS_LOG_LEVEL   : zap level; empty disables logging
//	RENTREELS_LOG_FILE    : log file (default: ~/.config/rentreels/rentreels.log)
func Load() (Config, error) {
	api, err := normalizeBaseURL("RENTREELS_API", envOr("RENTREELS_API", defaultAPI))
	if err != nil {
		return Config{}, err
	}
	web, err := normalizeBaseURL("RENTREELS_WEB", envOr("RENTREELS_WEB", defaultWeb))
	if err != nil {
		return Config{}, err
	}

	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv("RENTREELS_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid RENTREELS_TIMEOUT: %q", raw)
		}
		timeout = d
	}

	loc := DefaultLocation
	if raw := strings.TrimSpace(os.Getenv("RENTREELS_DEFAULT_LAT")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < -90 || v > 90 {
			return Config{}, fmt.Errorf("invalid RENTREELS_DEFAULT_LAT: %q", raw)
		}
		loc.Lat = v
	}
	if raw := strings.TrimSpace(os.Getenv("RENTREELS_DEFAULT_LNG")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < -180 || v > 180 {
			return Config{}, fmt.Errorf("invalid RENTREELS_DEFAULT_LNG: %q", raw)
		}
		loc.Lng = v
	}

	return Config{
		APIURL:          api,
		WebURL:          web,
		TokenPath:       envOr("RENTREELS_TOKEN", filepath.Join(dir, "token")),
		UIStatePath:     filepath.Join(dir, "ui_state.json"),
		Category:        strings.ToLower(envOr("RENTREELS_CATEGORY", defaultCategory)),
		PlayerPath:      envOr("RENTREELS_PLAYER", "mpv"),
		ShareCommand:    strings.TrimSpace(os.Getenv("RENTREELS_SHARE_CMD")),
		GeoURL:          envOr("RENTREELS_GEO_URL", defaultGeoURL),
		DefaultLocation: loc,
		Timeout:         timeout,
		LogLevel:        strings.TrimSpace(os.Getenv("RENTREELS_LOG_LEVEL")),
		LogFile:         envOr("RENTREELS_LOG_FILE", filepath.Join(dir, "rentreels.log")),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func configDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("RENTREELS_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rentreels"), nil
}

// normalizeBaseURL accepts https anywhere and plain http only on loopback,
// which is what the demo backend listens on.
func normalizeBaseURL(name, raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid %s: must be an absolute URL", name)
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid %s: http is only allowed for loopback hosts", name)
		}
	default:
		return "", fmt.Errorf("invalid %s: unsupported scheme %q", name, parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// UIState is the small amount of view state remembered between runs.
type UIState struct {
	Category string `json:"category,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
}

// LoadUIState reads the UI state file. A missing file yields a zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UIState{}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes the UI state atomically.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing ui state: %w", err)
	}
	return nil
}
