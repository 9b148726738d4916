// Package search is the search overlay. It queries reels by text, city, tags
// and location and can hand its results to the feed.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/rentreels/app"
	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/tui/common"
)

const (
	resultLimit = 30

	// LocateTimeout bounds the wait for a device location.
	LocateTimeout = 4 * time.Second
)

// State is the overlay lifecycle.
type State int

const (
	StateEditing State = iota
	StateLocating
	StateSearching
	StateResults
	StateEmpty
	StateFailed
)

func (s State) String() string {
	return [...]string{"editing", "locating", "searching", "results", "empty", "failed"}[s]
}

// Field indexes. The nearby toggle sits after the three text inputs.
const (
	fieldQuery = iota
	fieldCity
	fieldTags
	fieldNearby
	fieldCount
)

// --- Messages ---

// DoneMsg is sent when the overlay closes. Load is true when the results
// should replace the feed.
type DoneMsg struct {
	Load    bool
	Entries []domain.FeedEntry
	Label   string
}

type locatedMsg struct {
	seq      uint64
	point    domain.GeoPoint
	fallback bool
}

type resultsMsg struct {
	seq     uint64
	entries []domain.FeedEntry
	err     error
}

// --- Model ---

// Model holds the search overlay state.
type Model struct {
	search  app.SearchService
	locator app.Locator
	timeout time.Duration
	keys    common.KeyMap
	spinner spinner.Model

	inputs []textinput.Model
	focus  int
	nearby bool

	state    State
	reqSeq   uint64
	query    domain.SearchQuery
	results  []domain.FeedEntry
	selected int
	err      error
	fallback bool
	status   string

	width  int
	height int
}

// New creates the overlay. timeout bounds the search request.
func New(search app.SearchService, locator app.Locator, timeout time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	placeholders := [...]string{"furnished studio, balcony…", "City", "tags, comma separated"}
	prompts := [...]string{"Search  ", "City    ", "Tags    "}
	inputs := make([]textinput.Model, len(placeholders))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = prompts[i]
		ti.CharLimit = 120
		inputs[i] = ti
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return Model{
		search:  search,
		locator: locator,
		timeout: timeout,
		keys:    common.DefaultKeyMap(),
		spinner: s,
		inputs:  inputs,
	}
}

// Open focuses the query field. Previous inputs and results are kept so the
// user can refine the last search.
func (m Model) Open() (Model, tea.Cmd) {
	m.status = ""
	return m, m.setFocus(fieldQuery)
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the overlay state.
func (m Model) State() State { return m.state }

// Results returns the last result set.
func (m Model) Results() []domain.FeedEntry { return m.results }

// Query builds the query from the current inputs.
func (m Model) Query() domain.SearchQuery {
	return domain.SearchQuery{
		Text:   strings.TrimSpace(m.inputs[fieldQuery].Value()),
		City:   strings.TrimSpace(m.inputs[fieldCity].Value()),
		Tags:   domain.ParseTags(m.inputs[fieldTags].Value()),
		Nearby: m.nearby,
	}
}

// SetSize stores the terminal size.
func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	for i := range m.inputs {
		m.inputs[i].Width = max(10, w-16)
	}
}

// Update handles messages for the search overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case locatedMsg:
		if msg.seq != m.reqSeq || m.state != StateLocating {
			return m, nil
		}
		p := msg.point
		m.query.Near = &p
		m.fallback = msg.fallback
		m.state = StateSearching
		return m, m.runSearch(m.query, m.reqSeq)

	case resultsMsg:
		if msg.seq != m.reqSeq || m.state != StateSearching {
			return m, nil
		}
		m.selected = 0
		switch {
		case msg.err != nil:
			m.state = StateFailed
			m.err = msg.err
			m.results = nil
		case len(msg.entries) == 0:
			m.state = StateEmpty
			m.err = nil
			m.results = nil
		default:
			m.state = StateResults
			m.err = nil
			m.results = msg.entries
			m.blurAll()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus < fieldNearby {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// Anything still in flight is dropped.
		m.reqSeq++
		if m.busy() {
			m.state = StateEditing
		}
		return m, done(DoneMsg{})

	case key.Matches(msg, m.keys.LoadResults) && m.canLoad(msg):
		return m, done(DoneMsg{Load: true, Entries: m.results, Label: Label(m.query)})

	case key.Matches(msg, m.keys.NextFeed):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.PrevFeed):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.focus == fieldNearby {
		if msg.String() == " " || msg.String() == "n" {
			m.nearby = !m.nearby
		}
		return m, nil
	}

	// Fields are blurred while a search runs or its outcome is shown.
	if !m.inputFocused() {
		switch {
		case key.Matches(msg, m.keys.Down) && m.state == StateResults:
			m.selected = min(m.selected+1, len(m.results)-1)
		case key.Matches(msg, m.keys.Up) && m.state == StateResults:
			m.selected = max(m.selected-1, 0)
		case key.Matches(msg, m.keys.Search) && !m.busy():
			return m, m.setFocus(fieldQuery)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// canLoad allows L only when it cannot be text typed into a field; ctrl+l
// works anywhere.
func (m Model) canLoad(msg tea.KeyMsg) bool {
	if len(m.results) == 0 || m.state != StateResults {
		return false
	}
	return msg.String() == "ctrl+l" || !m.inputFocused()
}

func (m Model) submit() (Model, tea.Cmd) {
	q := m.Query()
	if q.IsEmpty() {
		m.status = "Type a query, city or tag, or turn on nearby."
		return m, nil
	}
	m.status = ""
	m.err = nil
	m.fallback = false
	m.query = q
	m.reqSeq++
	m.blurAll()
	m.focus = fieldQuery

	if q.Nearby && m.locator != nil {
		m.state = StateLocating
		return m, tea.Batch(m.locate(m.reqSeq), m.spinner.Tick)
	}
	m.state = StateSearching
	return m, tea.Batch(m.runSearch(q, m.reqSeq), m.spinner.Tick)
}

func (m Model) locate(seq uint64) tea.Cmd {
	locator := m.locator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), LocateTimeout)
		defer cancel()
		p, fallback := locator.Locate(ctx)
		return locatedMsg{seq: seq, point: p, fallback: fallback}
	}
}

func (m Model) runSearch(q domain.SearchQuery, seq uint64) tea.Cmd {
	svc, timeout := m.search, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := svc.Search(ctx, q, resultLimit)
		return resultsMsg{seq: seq, entries: entries, err: err}
	}
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.blurAll()
	m.focus = field
	if field < fieldNearby {
		return m.inputs[field].Focus()
	}
	return nil
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m Model) inputFocused() bool {
	return m.focus < fieldNearby && m.inputs[m.focus].Focused()
}

func (m Model) busy() bool {
	return m.state == StateLocating || m.state == StateSearching
}

// Label summarizes a query for the feed header.
func Label(q domain.SearchQuery) string {
	var parts []string
	if q.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", q.Text))
	}
	if q.City != "" {
		parts = append(parts, q.City)
	}
	if len(q.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(q.Tags, " #"))
	}
	if q.Nearby {
		parts = append(parts, "nearby")
	}
	return strings.Join(parts, " · ")
}

func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
