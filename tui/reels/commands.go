package reels

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/infra/share"
)

func (m Model) fetchCategory(category string, seq uint64) tea.Cmd {
	feed, timeout := m.deps.Feed, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := feed.FetchCategory(ctx, category, defaultLimit)
		return FeedLoadedMsg{Category: category, ReqSeq: seq, Entries: entries, Err: err}
	}
}

func (m Model) sendLike(id string, seq, gen uint64) tea.Cmd {
	likes, timeout := m.deps.Likes, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		liked, count, err := likes.ToggleLike(ctx, id)
		return LikeResultMsg{ID: id, Seq: seq, Gen: gen, Liked: liked, Count: count, Err: err}
	}
}

func (m Model) fetchComments(entryID string, seq uint64) tea.Cmd {
	svc, timeout := m.deps.Comments, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		comments, err := svc.FetchComments(ctx, entryID)
		return CommentsLoadedMsg{EntryID: entryID, ReqSeq: seq, Comments: comments, Err: err}
	}
}

func (m Model) fetchReplies(session uint64, parentID string) tea.Cmd {
	svc, timeout := m.deps.Comments, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		replies, err := svc.FetchReplies(ctx, parentID)
		return RepliesLoadedMsg{Session: session, ParentID: parentID, Replies: replies, Err: err}
	}
}

func (m Model) postComment(gen, session uint64, entryID, localID, text, parentID string) tea.Cmd {
	svc, timeout := m.deps.Comments, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		c, err := svc.PostComment(ctx, entryID, text, parentID)
		return CommentPostedMsg{
			Gen:      gen,
			Session:  session,
			EntryID:  entryID,
			LocalID:  localID,
			ParentID: parentID,
			Comment:  c,
			Err:      err,
		}
	}
}

func (m Model) shareEntry(e domain.FeedEntry) tea.Cmd {
	sharer, timeout := m.deps.Sharer, m.deps.Timeout
	sh := share.BuildShareable(e, m.deps.WebURL)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		method, err := sharer.Share(ctx, sh)
		return ShareResultMsg{Method: method, URL: sh.URL, Err: err}
	}
}

func (m Model) openProperty(ref domain.PropertyRef) tea.Cmd {
	nav := m.deps.Navigator
	return func() tea.Msg {
		return PropertyOpenedMsg{Err: nav.OpenProperty(ref)}
	}
}

func (m Model) openEditor(replyTo string) tea.Cmd {
	cmd, path, err := m.deps.Editor.Cmd(m.input.Value(), replyTo)
	if err != nil {
		return func() tea.Msg { return editorFinishedMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func snapAfter(d time.Duration, gen, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return snapTickMsg{Gen: gen, Seq: seq}
	})
}

func (m Model) emitPrefsChanged() tea.Cmd {
	st := PrefsChangedMsg{Category: m.category, Muted: m.playback.Muted()}
	return func() tea.Msg { return st }
}

// ensurePoster starts rendering the active entry's poster once per URL.
func (m Model) ensurePoster() tea.Cmd {
	if m.deps.Posters == nil || m.playback.Suspended() {
		return nil
	}
	i := m.indexOf(m.playback.Active())
	if i < 0 {
		return nil
	}
	url := m.entries[i].PosterURL
	if url == "" {
		return nil
	}
	if _, ok := m.posters[url]; ok {
		return nil
	}
	m.posters[url] = "" // in flight
	posters, timeout := m.deps.Posters, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		art, err := posters.Render(ctx, url, posterCols, posterRows)
		return PosterLoadedMsg{URL: url, Art: art, Err: err}
	}
}
