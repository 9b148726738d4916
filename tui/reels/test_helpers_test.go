package reels

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/infra/player"
)

var errBoom = errors.New("boom")

type stubSession bool

func (s stubSession) Authenticated() bool { return bool(s) }

type stubFeed struct {
	byCategory map[string][]domain.FeedEntry
	err        error
	calls      []string
}

func (f *stubFeed) FetchCategory(_ context.Context, category string, _ int) ([]domain.FeedEntry, error) {
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	return f.byCategory[category], nil
}

// stubLikes behaves like the backend: every call toggles the server state.
type stubLikes struct {
	liked map[string]bool
	count map[string]int
	err   error
	calls int
}

func newStubLikes() *stubLikes {
	return &stubLikes{liked: map[string]bool{}, count: map[string]int{}}
}

func (l *stubLikes) ToggleLike(_ context.Context, id string) (bool, int, error) {
	l.calls++
	if l.err != nil {
		return false, 0, l.err
	}
	l.liked[id] = !l.liked[id]
	if l.liked[id] {
		l.count[id]++
	} else {
		l.count[id]--
	}
	return l.liked[id], l.count[id], nil
}

type stubComments struct {
	comments     map[string][]domain.Comment
	replies      map[string][]domain.Comment
	postErr      error
	commentCalls int
	replyCalls   map[string]int
	posts        []string
}

func newStubComments() *stubComments {
	return &stubComments{
		comments:   map[string][]domain.Comment{},
		replies:    map[string][]domain.Comment{},
		replyCalls: map[string]int{},
	}
}

func (c *stubComments) FetchComments(_ context.Context, entryID string) ([]domain.Comment, error) {
	c.commentCalls++
	return append([]domain.Comment(nil), c.comments[entryID]...), nil
}

func (c *stubComments) FetchReplies(_ context.Context, parentID string) ([]domain.Comment, error) {
	c.replyCalls[parentID]++
	return append([]domain.Comment(nil), c.replies[parentID]...), nil
}

func (c *stubComments) PostComment(_ context.Context, entryID, text, parentID string) (domain.Comment, error) {
	c.posts = append(c.posts, parentID+"|"+text)
	if c.postErr != nil {
		return domain.Comment{}, c.postErr
	}
	return domain.Comment{
		ID:       fmt.Sprintf("srv-%d", len(c.posts)),
		EntryID:  entryID,
		ParentID: parentID,
		Author:   "You",
		Text:     text,
	}, nil
}

type stubNavigator struct {
	opened []string
}

func (n *stubNavigator) OpenProperty(ref domain.PropertyRef) error {
	n.opened = append(n.opened, ref.ID)
	return nil
}

type stubSharer struct {
	method string
	err    error
	got    []domain.Shareable
}

func (s *stubSharer) Share(_ context.Context, sh domain.Shareable) (string, error) {
	s.got = append(s.got, sh)
	return s.method, s.err
}

type fixture struct {
	feed     *stubFeed
	likes    *stubLikes
	comments *stubComments
	nav      *stubNavigator
	sharer   *stubSharer
	player   *player.Recorder
}

func newFixture() *fixture {
	return &fixture{
		feed:     &stubFeed{byCategory: map[string][]domain.FeedEntry{}},
		likes:    newStubLikes(),
		comments: newStubComments(),
		nav:      &stubNavigator{},
		sharer:   &stubSharer{method: "clipboard"},
		player:   player.NewRecorder(),
	}
}

func (f *fixture) deps(authenticated bool) Deps {
	return Deps{
		Feed:      f.feed,
		Likes:     f.likes,
		Comments:  f.comments,
		Session:   stubSession(authenticated),
		Sharer:    f.sharer,
		Navigator: f.nav,
		Player:    f.player,
		WebURL:    "https://rentreels.app",
	}
}

// loaded returns a model showing entries under "latest".
func (f *fixture) loaded(authenticated bool, entries ...domain.FeedEntry) Model {
	m := New(f.deps(authenticated), "latest", false)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(FeedLoadedMsg{Category: "latest", ReqSeq: m.feedReqSeq, Entries: entries})
	return m
}

func makeEntry(id string) domain.FeedEntry {
	return domain.FeedEntry{
		ID:        id,
		VideoURL:  "https://v/" + id + ".mp4",
		Caption:   "Reel " + id,
		Uploader:  "host",
		LikeCount: 4,
	}
}

func makeEntries(ids ...string) []domain.FeedEntry {
	out := make([]domain.FeedEntry, len(ids))
	for i, id := range ids {
		out[i] = makeEntry(id)
	}
	return out
}

// collect runs cmd and any batched cmds, returning every produced message.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// settle drives a pending snap animation to its end without sleeping.
func settle(m Model) Model {
	for i := 0; i < 200; i++ {
		if m.offset == m.cursor*m.cardHeight() {
			return m
		}
		m, _ = m.Update(snapTickMsg{Gen: m.tracker.Generation(), Seq: m.snapSeq})
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func commentIDs(cs []domain.Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
