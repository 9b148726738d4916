// Package reels is the vertical short-video feed: feed loading and
// replacement, visibility tracking, single-active playback, likes, sharing
// and the comment panel.
package reels

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/rentreels/app"
	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/infra/editor"
	"github.com/CrestNiraj12/rentreels/tui/common"
)

const (
	defaultLimit      = 30
	defaultCardHeight = 14
	wheelStep         = 3
	snapInterval      = 16 * time.Millisecond
	settleDelay       = 140 * time.Millisecond
	headerLines       = 2
	footerLines       = 2
	posterCols        = 28
	posterRows        = 6
)

// Categories are the feeds reachable with tab / shift+tab.
var Categories = []string{"latest", "trending", "popular", "nearby", "boosted"}

// --- Messages ---

// FeedLoadedMsg carries a category fetch result.
type FeedLoadedMsg struct {
	Category string
	ReqSeq   uint64
	Entries  []domain.FeedEntry
	Err      error
}

// LikeResultMsg is the settled response of one like request.
type LikeResultMsg struct {
	ID    string
	Seq   uint64
	Gen   uint64
	Liked bool
	Count int
	Err   error
}

// CommentsLoadedMsg carries top-level comments for an entry.
type CommentsLoadedMsg struct {
	EntryID  string
	ReqSeq   uint64
	Comments []domain.Comment
	Err      error
}

// RepliesLoadedMsg carries the replies of one thread.
type RepliesLoadedMsg struct {
	Session  uint64
	ParentID string
	Replies  []domain.Comment
	Err      error
}

// CommentPostedMsg settles an optimistic comment or reply.
type CommentPostedMsg struct {
	Gen      uint64
	Session  uint64
	EntryID  string
	LocalID  string
	ParentID string
	Comment  domain.Comment
	Err      error
}

// ShareResultMsg reports how an entry was shared.
type ShareResultMsg struct {
	Method string
	URL    string
	Err    error
}

// PropertyOpenedMsg reports the outcome of opening a property page.
type PropertyOpenedMsg struct {
	Err error
}

// PrefsChangedMsg asks the parent to persist the category and mute choice.
type PrefsChangedMsg struct {
	Category string
	Muted    bool
}

// PosterLoadedMsg carries the rendered poster of an entry.
type PosterLoadedMsg struct {
	URL string
	Art string
	Err error
}

type snapTickMsg struct {
	Gen uint64
	Seq uint64
}

type editorFinishedMsg struct {
	path string
	err  error
}

// --- Model ---

// Deps are the services the feed talks to.
type Deps struct {
	Feed      app.FeedService
	Likes     app.LikeService
	Comments  app.CommentService
	Session   app.Session
	Sharer    app.Sharer
	Navigator app.Navigator
	Player    app.MediaPlayer
	Posters   app.PosterRenderer // Optional
	Editor    *editor.EnvEditor
	WebURL    string
	Timeout   time.Duration
}

type feedSource int

const (
	sourceCategory feedSource = iota
	sourceSearch
)

// Model holds the state of the reels view.
type Model struct {
	deps    Deps
	keys    common.KeyMap
	spinner spinner.Model

	width  int
	height int

	category    string
	source      feedSource
	searchLabel string
	entries     []domain.FeedEntry
	loading     bool
	err         error
	feedReqSeq  uint64

	// A feed that arrived while suspended. It is registered on Resume.
	pending    []domain.FeedEntry
	hasPending bool

	tracker  *Tracker
	playback *Playback
	offset   int // scroll position in lines
	cursor   int // snap target index
	snapSeq  uint64
	viewed   map[string]bool

	likes map[string]*likeState

	// Rendered posters by URL. Failures are cached as "" so they are not
	// retried on every frame.
	posters map[string]string

	comments     *commentStore
	input        textinput.Model
	inputFocused bool

	showUploader bool
	showHints    bool

	status    string
	statusErr bool
}

// New creates the reels model. It starts loading category on Init.
func New(deps Deps, category string, muted bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	ti := textinput.New()
	ti.Placeholder = "Add a comment…"
	ti.CharLimit = 500
	ti.Prompt = "› "

	if deps.Timeout <= 0 {
		deps.Timeout = 15 * time.Second
	}
	if category == "" {
		category = Categories[0]
	}

	return Model{
		deps:       deps,
		keys:       common.DefaultKeyMap(),
		spinner:    s,
		category:   category,
		loading:    true,
		feedReqSeq: 1,
		tracker:    NewTracker(),
		playback:   NewPlayback(deps.Player, muted),
		viewed:     make(map[string]bool),
		likes:      make(map[string]*likeState),
		posters:    make(map[string]string),
		comments:   &commentStore{threads: make(map[string]*replyThread)},
		input:      ti,
	}
}

// Init starts the first category fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCategory(m.category, m.feedReqSeq),
		m.spinner.Tick,
	)
}

// Update handles messages for the reels view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Entries returns the current feed in display order.
func (m Model) Entries() []domain.FeedEntry { return m.entries }

// Category returns the selected category.
func (m Model) Category() string { return m.category }

// Muted returns the global mute preference.
func (m Model) Muted() bool { return m.playback.Muted() }

// ActiveID returns the id of the playing entry, or "".
func (m Model) ActiveID() string { return m.playback.Active() }

// CapturesInput reports whether keys belong to a focused text field or
// panel, so the parent must not treat them as global shortcuts.
func (m Model) CapturesInput() bool {
	return m.inputFocused
}

// OverlayOpen reports whether a modal surface of this view is open.
func (m Model) OverlayOpen() bool {
	return m.comments.open || m.showUploader || m.playback.Suspended()
}

// Suspend hands the screen to another view. Playback pauses and visibility
// processing stops until Resume.
func (m Model) Suspend() Model {
	m.playback.Suspend()
	return m
}

// Resume returns the screen to the feed.
func (m Model) Resume() (Model, tea.Cmd) {
	m.playback.Resume()
	if m.hasPending {
		m.replaceEntries(m.pending)
		return m, nil
	}
	m.applyVisibility(m.tracker.Scroll(m.offset, m.cardHeight()))
	if m.offset != m.cursor*m.cardHeight() {
		return m, m.startSnap(m.cursor, false)
	}
	return m, nil
}

// Shutdown stops playback before the program exits.
func (m Model) Shutdown() {
	m.playback.Shutdown()
}

func (m Model) keyHelp(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " · "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
