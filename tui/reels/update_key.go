package reels

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.playback.Suspended() {
		return m, nil
	}
	if m.comments.open {
		return m.handleCommentKey(msg)
	}
	if m.showUploader {
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Uploader) {
			m.showUploader = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.loadCategory(m.category)

	case key.Matches(msg, m.keys.NextFeed):
		return m.loadCategory(nextCategory(m.category, 1))

	case key.Matches(msg, m.keys.PrevFeed):
		return m.loadCategory(nextCategory(m.category, -1))
	}

	if m.loading || len(m.entries) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		return m, m.startSnap(m.cursor+1, false)

	case key.Matches(msg, m.keys.Up):
		return m, m.startSnap(m.cursor-1, false)

	case key.Matches(msg, m.keys.First):
		return m, m.startSnap(0, false)

	case key.Matches(msg, m.keys.Last):
		return m, m.startSnap(len(m.entries)-1, false)

	case key.Matches(msg, m.keys.Pause):
		return m, m.tap(m.cursor)

	case key.Matches(msg, m.keys.Mute):
		if m.playback.ToggleMute() {
			return m, m.emitPrefsChanged()
		}
		return m, nil

	case key.Matches(msg, m.keys.Like):
		e, _ := m.currentEntry()
		return m, m.toggleLike(e.ID)

	case key.Matches(msg, m.keys.Comments):
		return m, m.openComments()

	case key.Matches(msg, m.keys.Share):
		e, _ := m.currentEntry()
		return m, m.share(e)

	case key.Matches(msg, m.keys.Property):
		e, _ := m.currentEntry()
		return m, m.navigateToProperty(e)

	case key.Matches(msg, m.keys.Uploader):
		m.showUploader = true
		return m, nil
	}
	return m, nil
}

// tap toggles pause on the active entry or snaps to any other one.
func (m *Model) tap(index int) tea.Cmd {
	if index < 0 || index >= len(m.entries) {
		return nil
	}
	if m.playback.Tap(m.entries[index].ID) {
		return m.startSnap(index, false)
	}
	return nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.OverlayOpen() || m.loading || len(m.entries) == 0 {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return m, m.scrollBy(wheelStep)
	case tea.MouseButtonWheelUp:
		return m, m.scrollBy(-wheelStep)
	case tea.MouseButtonLeft:
		y := msg.Y - headerLines
		if y < 0 || y >= m.cardHeight() {
			return m, nil
		}
		return m, m.tap((m.offset + y) / m.cardHeight())
	}
	return m, nil
}
