package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/app"
	"github.com/CrestNiraj12/rentreels/infra/config"
	"github.com/CrestNiraj12/rentreels/tui/common"
	"github.com/CrestNiraj12/rentreels/tui/reels"
	"github.com/CrestNiraj12/rentreels/tui/search"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Reels     reels.Deps
	Search    app.SearchService
	Locator   app.Locator
	Category  string
	Muted     bool
	StatePath string // Empty disables persisting preferences
}

type activeView int

const (
	reelsView activeView = iota
	searchView
)

// App is the root Bubble Tea model. It routes between the feed and the
// search overlay.
type App struct {
	deps   Deps
	active activeView
	reels  reels.Model
	search search.Model
	keys   common.KeyMap
}

type prefsSavedMsg struct {
	err error
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:   deps,
		active: reelsView,
		reels:  reels.New(deps.Reels, deps.Category, deps.Muted),
		search: search.New(deps.Search, deps.Locator, deps.Reels.Timeout),
		keys:   common.DefaultKeyMap(),
	}
}

// Init starts the first feed fetch.
func (a App) Init() tea.Cmd {
	return a.reels.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a.quit()
		}
		if a.active == searchView {
			var cmd tea.Cmd
			a.search, cmd = a.search.Update(msg)
			return a, cmd
		}
		// Global keys only apply when the feed isn't holding the keyboard.
		if !a.reels.CapturesInput() && !a.reels.OverlayOpen() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a.quit()
			case key.Matches(msg, a.keys.Search):
				a.reels = a.reels.Suspend()
				a.active = searchView
				var cmd tea.Cmd
				a.search, cmd = a.search.Open()
				return a, cmd
			}
		}
		var cmd tea.Cmd
		a.reels, cmd = a.reels.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.active != reelsView {
			return a, nil
		}
		var cmd tea.Cmd
		a.reels, cmd = a.reels.Update(msg)
		return a, cmd

	case search.DoneMsg:
		a.active = reelsView
		var cmd tea.Cmd
		if msg.Load {
			a.reels, cmd = a.reels.ReplaceWithResults(msg.Entries, msg.Label)
		} else {
			a.reels, cmd = a.reels.Resume()
		}
		return a, cmd

	case reels.PrefsChangedMsg:
		return a, a.savePrefs(msg)

	case prefsSavedMsg:
		// Losing the preference only affects the next start.
		return a, nil
	}

	// Everything else (sizes, ticks, responses) goes to both views; each
	// ignores what isn't addressed to it.
	var rc, sc tea.Cmd
	a.reels, rc = a.reels.Update(msg)
	a.search, sc = a.search.Update(msg)
	return a, tea.Batch(rc, sc)
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.reels.Shutdown()
	return a, tea.Quit
}

func (a App) savePrefs(msg reels.PrefsChangedMsg) tea.Cmd {
	path := a.deps.StatePath
	if path == "" {
		return nil
	}
	st := config.UIState{Category: msg.Category, Muted: msg.Muted}
	return func() tea.Msg {
		return prefsSavedMsg{err: config.SaveUIState(path, st)}
	}
}

// View renders the active sub-model.
func (a App) View() string {
	if a.active == searchView {
		return a.search.View()
	}
	return a.reels.View()
}
