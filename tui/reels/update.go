package reels

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	m, cmd := m.route(msg)
	if pc := m.ensurePoster(); pc != nil {
		return m, tea.Batch(cmd, pc)
	}
	return m, cmd
}

func (m Model) route(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-8)
		m.relayout()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PosterLoadedMsg:
		m.posters[msg.URL] = msg.Art
		return m, nil
	}

	switch msg.(type) {
	case FeedLoadedMsg, snapTickMsg:
		return m.handleFeedMsg(msg)
	case LikeResultMsg, ShareResultMsg, PropertyOpenedMsg:
		return m.handleSocialMsg(msg)
	case CommentsLoadedMsg, RepliesLoadedMsg, CommentPostedMsg, editorFinishedMsg:
		return m.handleCommentMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg.(tea.KeyMsg))
	case tea.MouseMsg:
		return m.handleMouseMsg(msg.(tea.MouseMsg))
	}

	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}
