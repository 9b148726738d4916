package reels

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/CrestNiraj12/rentreels/domain"
)

// openComments shows the panel for the entry under the cursor.
func (m *Model) openComments() tea.Cmd {
	e, ok := m.currentEntry()
	if !ok {
		return nil
	}
	m.showUploader = false
	if !m.comments.openFor(e.ID) {
		return nil
	}
	return tea.Batch(m.fetchComments(e.ID, m.comments.reqSeq), m.spinner.Tick)
}

func (m *Model) closeComments() {
	m.comments.close()
	m.inputFocused = false
	m.input.Blur()
}

func (m *Model) toggleSelectedReplies() tea.Cmd {
	row, ok := m.comments.selectedRow()
	if !ok {
		return nil
	}
	parentID := row.comment.ID
	if row.reply || row.comment.ParentID != "" {
		parentID = row.comment.ParentID
	}
	if !m.comments.toggleReplies(parentID) {
		m.comments.clampSelection()
		return nil
	}
	return m.fetchReplies(m.comments.session, parentID)
}

// submitComment posts text as a comment, or as a reply when a target is set.
func (m *Model) submitComment(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		m.setStatus("Comment can't be empty.", true)
		return nil
	}
	if m.deps.Session == nil || !m.deps.Session.Authenticated() {
		m.setStatus("Please log in to comment.", true)
		return nil
	}
	entryID := m.comments.entryID
	i := m.indexOf(entryID)
	if i < 0 || !m.comments.open {
		return nil
	}

	parentID := ""
	if m.comments.target != nil {
		parentID = m.comments.target.ParentID
	}
	local := domain.Comment{
		ID:        "local-" + uuid.NewString(),
		EntryID:   entryID,
		ParentID:  parentID,
		Author:    "You",
		Text:      text,
		CreatedAt: time.Now(),
		Pending:   true,
	}
	fetch := m.comments.insertOptimistic(local)
	m.entries[i].CommentCount++
	m.comments.clearTarget()
	m.input.Reset()
	if parentID == "" {
		m.setStatus("Posting comment…", false)
	} else {
		m.setStatus("Posting reply…", false)
	}

	cmds := []tea.Cmd{m.postComment(m.tracker.Generation(), m.comments.session, entryID, local.ID, text, parentID)}
	if fetch {
		cmds = append(cmds, m.fetchReplies(m.comments.session, parentID))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleCommentMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommentsLoadedMsg:
		if msg.Err != nil {
			m.comments.failed(msg.EntryID, msg.ReqSeq, msg.Err)
			return m, nil
		}
		m.comments.loaded(msg.EntryID, msg.ReqSeq, msg.Comments)
		return m, nil

	case RepliesLoadedMsg:
		if msg.Err != nil {
			m.comments.repliesFailed(msg.Session, msg.ParentID, msg.Err)
			return m, nil
		}
		m.comments.repliesLoaded(msg.Session, msg.ParentID, msg.Replies)
		return m, nil

	case CommentPostedMsg:
		sameSession := msg.Session == m.comments.session
		if msg.Err != nil {
			if sameSession {
				m.comments.rollback(msg.LocalID, msg.ParentID)
			}
			if msg.Gen == m.tracker.Generation() {
				if i := m.indexOf(msg.EntryID); i >= 0 && m.entries[i].CommentCount > 0 {
					m.entries[i].CommentCount--
				}
			}
			if errors.Is(msg.Err, domain.ErrUnauthenticated) {
				m.setStatus("Please log in to comment.", true)
			} else {
				m.setStatus("Comment failed: "+msg.Err.Error(), true)
			}
			return m, nil
		}
		if sameSession {
			c := msg.Comment
			if c.ParentID == "" {
				c.ParentID = msg.ParentID
			}
			m.comments.confirm(msg.LocalID, c)
		}
		if msg.ParentID == "" {
			m.setStatus("Comment posted.", false)
		} else {
			m.setStatus("Reply posted.", false)
		}
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.setStatus("Editor error: "+msg.err.Error(), true)
			return m, nil
		}
		text, err := m.deps.Editor.ReadContent(msg.path)
		if err != nil {
			m.setStatus("Editor error: "+err.Error(), true)
			return m, nil
		}
		if text == "" {
			m.setStatus("Cancelled.", false)
			return m, nil
		}
		return m, m.submitComment(text)
	}
	return m, nil
}

func (m Model) handleCommentKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.inputFocused {
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m, m.submitComment(m.input.Value())
		case key.Matches(msg, m.keys.Cancel):
			m.comments.clearTarget()
			m.inputFocused = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Comments):
		if m.comments.target != nil && key.Matches(msg, m.keys.Cancel) {
			m.comments.clearTarget()
			return m, nil
		}
		m.closeComments()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.comments.move(1)
	case key.Matches(msg, m.keys.Up):
		m.comments.move(-1)
	case key.Matches(msg, m.keys.Expand), key.Matches(msg, m.keys.Submit):
		return m, m.toggleSelectedReplies()
	case key.Matches(msg, m.keys.Reply):
		row, ok := m.comments.selectedRow()
		if !ok || row.status != "" || row.comment.Pending {
			return m, nil
		}
		m.comments.setTarget(row.comment)
		m.inputFocused = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Write):
		m.inputFocused = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Editor):
		if m.deps.Editor == nil {
			return m, nil
		}
		replyTo := ""
		if m.comments.target != nil {
			replyTo = "@" + m.comments.target.Author
		}
		return m, m.openEditor(replyTo)
	case key.Matches(msg, m.keys.Refresh):
		if m.comments.phase == PanelFailed {
			e := m.comments.entryID
			if m.comments.openFor(e) {
				return m, m.fetchComments(e, m.comments.reqSeq)
			}
		}
	}
	return m, nil
}
