package reels

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/infra/share"
)

// likeState tracks one entry's like reconciliation. Requests for an entry
// are serialized: taps during a request only move desired, and at most one
// follow-up is sent once the request settles.
type likeState struct {
	confirmedLiked bool
	confirmedCount int
	desired        bool
	inFlight       bool
	seq            uint64
}

// ToggleLike flips the like on an entry.
func (m Model) ToggleLike(entryID string) (Model, tea.Cmd) {
	cmd := m.toggleLike(entryID)
	return m, cmd
}

func (m *Model) toggleLike(entryID string) tea.Cmd {
	i := m.indexOf(entryID)
	if i < 0 {
		return nil
	}
	if m.deps.Session == nil || !m.deps.Session.Authenticated() {
		m.setStatus("Please log in to like reels.", true)
		return nil
	}

	st, ok := m.likes[entryID]
	if !ok {
		e := m.entries[i]
		st = &likeState{confirmedLiked: e.Liked, confirmedCount: e.LikeCount, desired: e.Liked}
		m.likes[entryID] = st
	}
	st.desired = !st.desired
	m.showLike(i, st)

	if st.inFlight {
		return nil
	}
	st.inFlight = true
	st.seq++
	return m.sendLike(entryID, st.seq, m.tracker.Generation())
}

// showLike renders desired on top of the last confirmed count, so repeated
// taps can never drift the counter by more than one.
func (m *Model) showLike(i int, st *likeState) {
	count := st.confirmedCount
	switch {
	case st.desired && !st.confirmedLiked:
		count++
	case !st.desired && st.confirmedLiked && count > 0:
		count--
	}
	m.entries[i].Liked = st.desired
	m.entries[i].LikeCount = count
}

func (m Model) handleSocialMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LikeResultMsg:
		if msg.Gen != m.tracker.Generation() {
			return m, nil
		}
		st, ok := m.likes[msg.ID]
		if !ok || msg.Seq != st.seq {
			return m, nil
		}
		i := m.indexOf(msg.ID)
		if i < 0 {
			return m, nil
		}
		st.inFlight = false

		if msg.Err != nil {
			st.desired = st.confirmedLiked
			m.showLike(i, st)
			if errors.Is(msg.Err, domain.ErrUnauthenticated) {
				m.setStatus("Please log in to like reels.", true)
			} else {
				m.setStatus("Couldn't update like: "+msg.Err.Error(), true)
			}
			return m, nil
		}

		st.confirmedLiked = msg.Liked
		st.confirmedCount = msg.Count
		if st.desired != st.confirmedLiked {
			m.showLike(i, st)
			st.inFlight = true
			st.seq++
			return m, m.sendLike(msg.ID, st.seq, msg.Gen)
		}
		m.entries[i].Liked = msg.Liked
		m.entries[i].LikeCount = msg.Count
		return m, nil

	case ShareResultMsg:
		switch {
		case msg.Err == nil && msg.Method == "clipboard":
			m.setStatus("Link copied to clipboard.", false)
		case msg.Err == nil:
			m.setStatus("Shared.", false)
		default:
			m.setStatus("Share this link: "+msg.URL, false)
		}
		return m, nil

	case PropertyOpenedMsg:
		switch {
		case msg.Err == nil:
			m.setStatus("Opening property in your browser…", false)
		case errors.Is(msg.Err, domain.ErrPropertyUnavailable):
			m.setStatus("Property details not available.", true)
		default:
			m.setStatus("Couldn't open property: "+msg.Err.Error(), true)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) share(e domain.FeedEntry) tea.Cmd {
	if m.deps.Sharer == nil {
		m.setStatus("Share this link: "+share.BuildShareable(e, m.deps.WebURL).URL, false)
		return nil
	}
	m.setStatus("Sharing…", false)
	return m.shareEntry(e)
}

// navigateToProperty opens the linked property, or says it is unavailable.
func (m *Model) navigateToProperty(e domain.FeedEntry) tea.Cmd {
	if e.PropertyID() == "" || m.deps.Navigator == nil {
		m.setStatus("Property details not available.", true)
		return nil
	}
	return m.openProperty(*e.Property)
}
