package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/rentreels/app"
	"github.com/CrestNiraj12/rentreels/infra/api"
	"github.com/CrestNiraj12/rentreels/infra/auth"
	"github.com/CrestNiraj12/rentreels/infra/config"
	"github.com/CrestNiraj12/rentreels/infra/editor"
	"github.com/CrestNiraj12/rentreels/infra/geo"
	"github.com/CrestNiraj12/rentreels/infra/logging"
	"github.com/CrestNiraj12/rentreels/infra/mockapi"
	"github.com/CrestNiraj12/rentreels/infra/player"
	"github.com/CrestNiraj12/rentreels/infra/share"
	"github.com/CrestNiraj12/rentreels/infra/thumb"
	"github.com/CrestNiraj12/rentreels/tui"
	"github.com/CrestNiraj12/rentreels/tui/reels"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	demoReels    = 40
	demoSeed     = 7
	breakerTrips = 5
	breakerPause = 30 * time.Second
)

type cliMode int

const (
	cliRun cliMode = iota
	cliDemo
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--demo":
		return cliDemo, ""
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: rentreels [--demo] [--version|-version|-v] [--help|-h]\n\n" +
		"  --demo   run against a local mock backend with generated reels"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// pickCategory prefers the remembered category unless the environment
// names one explicitly. Unknown names fall back to the first category.
func pickCategory(fromEnv string, envSet bool, remembered string) string {
	c := fromEnv
	if !envSet && remembered != "" {
		c = remembered
	}
	if !slices.Contains(reels.Categories, c) {
		return reels.Categories[0]
	}
	return c
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("RentReels %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	if err := run(mode == cliDemo); err != nil {
		fmt.Fprintf(os.Stderr, "rentreels: %v\n", err)
		os.Exit(1)
	}
}

func run(demo bool) error {
	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// 2. Build infrastructure.
	var tokens auth.TokenProvider = auth.NewFileTokenProvider(cfg.TokenPath)
	baseURL := cfg.APIURL
	if demo {
		token, err := mockapi.DemoToken(time.Now(), 24*time.Hour)
		if err != nil {
			return err
		}
		srv := mockapi.New(token)
		mockapi.Seed(srv, demoReels, demoSeed)
		url, shutdown, err := mockapi.Start(srv)
		if err != nil {
			return fmt.Errorf("starting demo backend: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
		log.Info("demo backend started", zap.String("url", url))
		tokens = auth.StaticTokenProvider(token)
		baseURL = url
	}

	client := api.NewClient(baseURL, tokens,
		api.WithTimeout(cfg.Timeout),
		api.WithCircuitBreaker(api.NewBreaker(log, breakerTrips, breakerPause)),
		api.WithLogger(log),
	)

	// 3. Build services (concrete types satisfy app.* interfaces).
	reelSvc := api.NewReelService(client)
	commentSvc := api.NewCommentService(client)

	var media app.MediaPlayer
	if strings.EqualFold(cfg.PlayerPath, "none") {
		media = player.NewRecorder()
	} else {
		mpv := player.NewMPV(cfg.PlayerPath, log)
		defer func() { _ = mpv.Close() }()
		media = mpv
	}

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		log.Warn("ignoring ui state", zap.Error(err))
	}
	_, envCategory := os.LookupEnv("RENTREELS_CATEGORY")

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Reels: reels.Deps{
			Feed:      reelSvc,
			Likes:     reelSvc,
			Comments:  commentSvc,
			Session:   auth.NewSession(tokens),
			Sharer:    share.NewSharer(cfg.ShareCommand, log),
			Navigator: share.NewBrowser(cfg.WebURL),
			Player:    media,
			Posters:   thumb.New(cfg.Timeout),
			Editor:    editor.NewEnvEditor(),
			WebURL:    cfg.WebURL,
			Timeout:   cfg.Timeout,
		},
		Search:    reelSvc,
		Locator:   geo.NewIPLocator(cfg.GeoURL, cfg.DefaultLocation, geo.DefaultTimeout, log),
		Category:  pickCategory(cfg.Category, envCategory, uiState.Category),
		Muted:     uiState.Muted,
		StatePath: cfg.UIStatePath,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
