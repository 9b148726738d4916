package reels

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
)

// LoadCategory switches the feed to category.
func (m Model) LoadCategory(category string) (Model, tea.Cmd) {
	return m.loadCategory(category)
}

// loadCategory tears the current feed down right away so no frame shows old
// entries under new registrations, then fetches. Only the response whose
// sequence and category still match is applied.
func (m Model) loadCategory(category string) (Model, tea.Cmd) {
	m.teardown()
	m.category = category
	m.source = sourceCategory
	m.searchLabel = ""
	m.loading = true
	m.err = nil
	m.feedReqSeq++
	return m, tea.Batch(m.fetchCategory(category, m.feedReqSeq), m.spinner.Tick, m.emitPrefsChanged())
}

// ReplaceWithResults swaps the feed for a search result set, scrolls to the
// top and resumes playback on the first entry.
func (m Model) ReplaceWithResults(entries []domain.FeedEntry, label string) (Model, tea.Cmd) {
	// Any category fetch still in flight is now stale.
	m.feedReqSeq++
	m.source = sourceSearch
	m.searchLabel = label
	m.loading = false
	m.err = nil
	m.teardown()
	m.playback.Resume()
	m.replaceEntries(entries)
	return m, nil
}

func (m *Model) teardown() {
	m.tracker.Reset()
	m.playback.Reset(m.tracker.Generation(), nil)
	m.entries = nil
	m.offset = 0
	m.cursor = 0
	m.snapSeq++
	m.likes = make(map[string]*likeState)
	m.viewed = make(map[string]bool)
	m.comments.reset()
	m.pending = nil
	m.hasPending = false
	m.inputFocused = false
	m.input.Blur()
	m.input.Reset()
	m.showUploader = false
}

// replaceEntries installs a new entry set in a single step: observers are
// rebuilt for exactly these entries and the first one is activated. While
// another view owns the screen the set is held until Resume.
func (m *Model) replaceEntries(entries []domain.FeedEntry) {
	m.teardown()
	if m.playback.Suspended() {
		m.pending = uniqueEntries(entries)
		m.hasPending = true
		return
	}
	m.entries = uniqueEntries(entries)
	m.playback.Reset(m.tracker.Generation(), m.entries)
	m.observeAll()
	m.applyVisibility(m.tracker.Scroll(m.offset, m.cardHeight()))
}

// uniqueEntries copies entries, keeping the first occurrence of each id.
// Cards, observers and playback state are all keyed by id.
func uniqueEntries(entries []domain.FeedEntry) []domain.FeedEntry {
	out := make([]domain.FeedEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (m *Model) observeAll() {
	h := m.cardHeight()
	for i, e := range m.entries {
		m.tracker.Observe(Handle{ID: e.ID, Index: i}, i*h, h, DefaultThreshold)
	}
}

// relayout re-registers geometry after a resize and keeps the cursor card
// in place.
func (m *Model) relayout() {
	m.observeAll()
	m.offset = m.cursor * m.cardHeight()
	m.snapSeq++
	if m.playback.Suspended() {
		return
	}
	m.applyVisibility(m.tracker.Scroll(m.offset, m.cardHeight()))
}

func (m Model) cardHeight() int {
	if m.height <= 0 {
		return defaultCardHeight
	}
	return max(6, m.height-headerLines-footerLines)
}

func (m Model) maxOffset() int {
	if len(m.entries) == 0 {
		return 0
	}
	return (len(m.entries) - 1) * m.cardHeight()
}

// applyVisibility feeds tracker events to playback in emission order.
func (m *Model) applyVisibility(events []VisibilityEvent) {
	for _, ev := range events {
		if !m.playback.Apply(ev) {
			continue
		}
		if ev.Kind == Entered {
			m.markViewed(ev.Handle.ID)
		}
	}
}

// markViewed bumps the local view counter once per entry and feed.
func (m *Model) markViewed(id string) {
	if m.viewed[id] {
		return
	}
	m.viewed[id] = true
	if i := m.indexOf(id); i >= 0 {
		m.entries[i].ViewCount++
	}
}

func (m Model) indexOf(id string) int {
	for i, e := range m.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) currentEntry() (domain.FeedEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return domain.FeedEntry{}, false
	}
	return m.entries[m.cursor], true
}

// startSnap animates the viewport to index. settle delays the first tick so
// a burst of wheel events ends in a single snap.
func (m *Model) startSnap(index int, settle bool) tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	index = max(0, min(index, len(m.entries)-1))
	m.cursor = index
	m.snapSeq++
	d := snapInterval
	if settle {
		d = settleDelay
	}
	return snapAfter(d, m.tracker.Generation(), m.snapSeq)
}

func (m *Model) scrollBy(lines int) tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	m.offset = max(0, min(m.offset+lines, m.maxOffset()))
	m.applyVisibility(m.tracker.Scroll(m.offset, m.cardHeight()))
	h := m.cardHeight()
	return m.startSnap((m.offset+h/2)/h, true)
}

func (m Model) handleFeedMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FeedLoadedMsg:
		if msg.ReqSeq != m.feedReqSeq || msg.Category != m.category || m.source != sourceCategory {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.entries = nil
			return m, nil
		}
		m.err = nil
		m.replaceEntries(msg.Entries)
		return m, nil

	case snapTickMsg:
		if msg.Gen != m.tracker.Generation() || msg.Seq != m.snapSeq || m.playback.Suspended() {
			return m, nil
		}
		target := m.cursor * m.cardHeight()
		dist := target - m.offset
		if dist == 0 {
			return m, nil
		}
		step := dist / 3
		if step == 0 {
			step = sign(dist)
		}
		m.offset += step
		m.applyVisibility(m.tracker.Scroll(m.offset, m.cardHeight()))
		if m.offset == target {
			return m, nil
		}
		return m, snapAfter(snapInterval, msg.Gen, msg.Seq)
	}
	return m, nil
}

func (m Model) feedLabel() string {
	if m.source == sourceSearch {
		return fmt.Sprintf("search: %s", m.searchLabel)
	}
	return m.category
}

func nextCategory(current string, delta int) string {
	idx := 0
	for i, c := range Categories {
		if c == current {
			idx = i
			break
		}
	}
	n := len(Categories)
	return Categories[((idx+delta)%n+n)%n]
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
