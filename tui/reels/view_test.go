package reels

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
)

func TestView_States(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fixture) Model
		want  string
	}{
		{
			name: "loading",
			setup: func(f *fixture) Model {
				m := New(f.deps(true), "trending", false)
				m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
				return m
			},
			want: "Loading trending reels",
		},
		{
			name:  "empty",
			setup: func(f *fixture) Model { return f.loaded(true) },
			want:  "No reels here yet.",
		},
		{
			name: "error",
			setup: func(f *fixture) Model {
				m := New(f.deps(true), "latest", false)
				m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
				m, _ = m.Update(FeedLoadedMsg{Category: "latest", ReqSeq: m.feedReqSeq, Err: errBoom})
				return m
			},
			want: "Couldn't load reels: boom",
		},
		{
			name:  "feed",
			setup: func(f *fixture) Model { return f.loaded(true, makeEntries("a", "b")...) },
			want:  "Reel a",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.setup(newFixture())
			out := m.View()
			if !strings.Contains(out, tc.want) {
				t.Fatalf("view missing %q:\n%s", tc.want, out)
			}
		})
	}
}

func TestView_EmptyFillsScreen(t *testing.T) {
	m := newFixture().loaded(true)
	if n := strings.Count(m.View(), "\n") + 1; n != 24 {
		t.Fatalf("view has %d lines, want 24", n)
	}
}

func TestView_SearchLabelAndPlayingCard(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a")...)
	m, _ = m.ReplaceWithResults(makeEntries("s1"), "#garden")

	out := m.View()
	for _, want := range []string{"search: #garden", "▶ playing", "1/1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_CommentsPanel(t *testing.T) {
	f := threadFixture()
	m := f.loaded(true, makeEntries("a")...)
	m = openPanel(t, m)
	m, _ = m.Update(keyRune('r'))

	out := m.View()
	for _, want := range []string{"Comments", "Is parking included?", "view 1 replies", "Replying to @maya"} {
		if !strings.Contains(out, want) {
			t.Fatalf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{50 * time.Hour, "2d"},
	}
	for _, tc := range tests {
		if got := timeAgo(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

type stubPosters struct {
	calls int
}

func (p *stubPosters) Render(_ context.Context, url string, cols, rows int) (string, error) {
	p.calls++
	return strings.Repeat(strings.Repeat("▀", cols)+"\n", rows-1) + strings.Repeat("▀", cols), nil
}

func TestPosterRenderedOncePerURL(t *testing.T) {
	f := newFixture()
	posters := &stubPosters{}
	deps := f.deps(true)
	deps.Posters = posters

	e := makeEntry("a")
	e.PosterURL = "https://p/a.jpg"
	m := New(deps, "latest", false)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m, cmd := m.Update(FeedLoadedMsg{Category: "latest", ReqSeq: m.feedReqSeq, Entries: []domain.FeedEntry{e}})

	loaded, ok := findMsg[PosterLoadedMsg](collect(cmd))
	if !ok {
		t.Fatalf("expected poster request for the active entry")
	}
	m, cmd = m.Update(loaded)
	if _, again := findMsg[PosterLoadedMsg](collect(cmd)); again || posters.calls != 1 {
		t.Fatalf("poster must be rendered once, got %d calls", posters.calls)
	}
	if !strings.Contains(m.View(), strings.Repeat("▀", posterCols)) {
		t.Fatalf("active card must show the poster")
	}
}
