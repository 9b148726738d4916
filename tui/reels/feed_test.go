package reels

import (
	"math/rand"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/rentreels/domain"
)

func entryIDs(es []domain.FeedEntry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestFeedLoaded_ActivatesFirstEntry(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b", "c")...)

	if m.ActiveID() != "a" || m.cursor != 0 || m.offset != 0 {
		t.Fatalf("expected first entry active at top, got %q cursor=%d offset=%d", m.ActiveID(), m.cursor, m.offset)
	}
	if src, playing := f.player.Playing(); src != "https://v/a.mp4" || !playing {
		t.Fatalf("expected a playing, got %q %v", src, playing)
	}
	if m.entries[0].ViewCount != 1 {
		t.Fatalf("expected local view bump on activation")
	}
}

func TestFeedLoaded_RepeatedIDRegisteredOnce(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b", "a")...)

	if got := entryIDs(m.entries); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected repeated id dropped, got %v", got)
	}
	if m.tracker.Len() != len(m.entries) {
		t.Fatalf("expected one observer per entry, got %d for %d", m.tracker.Len(), len(m.entries))
	}
	if m.ActiveID() != "a" {
		t.Fatalf("expected a active after load, got %q", m.ActiveID())
	}
	if src, playing := f.player.Playing(); src != "https://v/a.mp4" || !playing {
		t.Fatalf("expected a playing, got %q %v", src, playing)
	}

	m, _ = m.Update(keyRune('j'))
	m = settle(m)
	if m.ActiveID() != "b" || m.playback.ActiveCount() != 1 {
		t.Fatalf("expected b as the single active entry, got %q (%d)", m.ActiveID(), m.playback.ActiveCount())
	}
}

func TestFeedLoaded_StaleResponsesIgnored(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a")...)

	tests := []struct {
		name string
		msg  FeedLoadedMsg
	}{
		{name: "old sequence", msg: FeedLoadedMsg{Category: "latest", ReqSeq: m.feedReqSeq - 1, Entries: makeEntries("x")}},
		{name: "other category", msg: FeedLoadedMsg{Category: "trending", ReqSeq: m.feedReqSeq, Entries: makeEntries("x")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			updated, cmd := m.Update(tc.msg)
			if cmd != nil {
				t.Fatalf("expected nil cmd for stale response")
			}
			if !reflect.DeepEqual(entryIDs(updated.entries), []string{"a"}) {
				t.Fatalf("stale response must not replace the feed")
			}
		})
	}
}

func TestLoadCategory_ReplacementAtomicity(t *testing.T) {
	f := newFixture()
	f.feed.byCategory["popular"] = makeEntries("p1", "p2", "p3", "p4")
	m := f.loaded(true, makeEntries("a", "b")...)

	m, cmd := m.LoadCategory("popular")
	if len(m.entries) != 0 || m.tracker.Len() != 0 || m.ActiveID() != "" {
		t.Fatalf("old entries and observers must be gone before the new list renders")
	}
	msgs := collect(cmd)
	loaded, ok := findMsg[FeedLoadedMsg](msgs)
	if !ok {
		t.Fatalf("expected a feed fetch")
	}
	if prefs, ok := findMsg[PrefsChangedMsg](msgs); !ok || prefs.Category != "popular" {
		t.Fatalf("expected category persisted, got %#v", prefs)
	}

	m, _ = m.Update(loaded)
	if !reflect.DeepEqual(entryIDs(m.entries), []string{"p1", "p2", "p3", "p4"}) {
		t.Fatalf("unexpected entries %v", entryIDs(m.entries))
	}
	if m.tracker.Len() != len(m.entries) {
		t.Fatalf("registrations %d must match entries %d", m.tracker.Len(), len(m.entries))
	}
	for _, e := range m.entries {
		if !m.tracker.Observed(e.ID) {
			t.Fatalf("entry %s not observed", e.ID)
		}
	}
	for _, id := range []string{"a", "b"} {
		if m.tracker.Observed(id) || m.indexOf(id) >= 0 {
			t.Fatalf("entry %s from the previous feed survived", id)
		}
	}
}

func TestCategorySwitchDuringPlayback(t *testing.T) {
	f := newFixture()
	f.feed.byCategory["trending"] = makeEntries("t1", "t2")
	m := f.loaded(true, makeEntries("a", "b")...)
	oldGen := m.tracker.Generation()
	oldSnap := m.snapSeq

	m, cmd := m.Update(keyType(tea.KeyTab))
	if m.Category() != "trending" {
		t.Fatalf("expected trending selected, got %q", m.Category())
	}
	if _, playing := f.player.Playing(); playing {
		t.Fatalf("a must be torn down when switching")
	}

	// Late events from the old list must not touch anything.
	if m.playback.Apply(VisibilityEvent{Kind: Entered, Handle: Handle{ID: "a"}, Gen: oldGen}) {
		t.Fatalf("stale visibility event was applied")
	}
	m, _ = m.Update(snapTickMsg{Gen: oldGen, Seq: oldSnap})

	loaded, _ := findMsg[FeedLoadedMsg](collect(cmd))
	m, _ = m.Update(loaded)
	if m.ActiveID() != "t1" {
		t.Fatalf("expected t1 active, got %q", m.ActiveID())
	}
	if src, playing := f.player.Playing(); src != "https://v/t1.mp4" || !playing {
		t.Fatalf("expected t1 playing, got %q %v", src, playing)
	}
}

func TestFeedLoaded_EmptyAndErrorStates(t *testing.T) {
	f := newFixture()
	m := f.loaded(true)
	if m.loading || m.err != nil || len(m.entries) != 0 {
		t.Fatalf("expected settled empty feed")
	}

	f.feed.err = errBoom
	m, cmd := m.LoadCategory("latest")
	loaded, _ := findMsg[FeedLoadedMsg](collect(cmd))
	m, _ = m.Update(loaded)
	if m.err == nil || m.loading {
		t.Fatalf("expected persistent error state")
	}
}

func TestReplaceWithResults_LoadsIntoFeedAtTop(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b", "c")...)
	m, _ = m.Update(keyRune('G'))
	m = settle(m)
	if m.ActiveID() != "c" {
		t.Fatalf("expected c active before search, got %q", m.ActiveID())
	}

	m = m.Suspend()
	results := makeEntries("s1", "s2", "s3")
	m, _ = m.ReplaceWithResults(results, "#furnished")

	if !reflect.DeepEqual(entryIDs(m.entries), []string{"s1", "s2", "s3"}) {
		t.Fatalf("feed must contain exactly the results, got %v", entryIDs(m.entries))
	}
	if m.offset != 0 || m.cursor != 0 || m.ActiveID() != "s1" {
		t.Fatalf("expected scrolled to first result, got offset=%d cursor=%d active=%q", m.offset, m.cursor, m.ActiveID())
	}
	if src, playing := f.player.Playing(); src != "https://v/s1.mp4" || !playing {
		t.Fatalf("expected s1 playing after load, got %q %v", src, playing)
	}

	// A category fetch that was still in flight must not clobber the results.
	m, _ = m.Update(FeedLoadedMsg{Category: "latest", ReqSeq: m.feedReqSeq - 1, Entries: makeEntries("z")})
	if m.entries[0].ID != "s1" {
		t.Fatalf("stale category response replaced search results")
	}
}

func TestFeedLoaded_WhileSuspendedWaitsForResume(t *testing.T) {
	f := newFixture()
	f.feed.byCategory["trending"] = makeEntries("t1", "t2")
	m := f.loaded(true, makeEntries("a")...)

	m, cmd := m.LoadCategory("trending")
	loaded, ok := findMsg[FeedLoadedMsg](collect(cmd))
	if !ok {
		t.Fatalf("expected a feed fetch")
	}
	m = m.Suspend()
	calls := len(f.player.Calls())
	m, _ = m.Update(loaded)

	if m.tracker.Len() != 0 || m.ActiveID() != "" {
		t.Fatalf("nothing may be registered while suspended, got %d observers, active %q", m.tracker.Len(), m.ActiveID())
	}
	if got := len(f.player.Calls()); got != calls {
		t.Fatalf("player must not be touched while suspended: %v", f.player.Calls()[calls:])
	}

	m, _ = m.Resume()
	if got := entryIDs(m.entries); !reflect.DeepEqual(got, []string{"t1", "t2"}) {
		t.Fatalf("expected held feed installed on resume, got %v", got)
	}
	if m.tracker.Len() != 2 || m.ActiveID() != "t1" {
		t.Fatalf("expected t1 active with 2 observers, got %q %d", m.ActiveID(), m.tracker.Len())
	}
	if src, playing := f.player.Playing(); src != "https://v/t1.mp4" || !playing {
		t.Fatalf("expected t1 playing, got %q %v", src, playing)
	}
}

func TestNavigation_AdvanceRetreatAndBounds(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b", "c")...)

	m, cmd := m.Update(keyRune('j'))
	if cmd == nil {
		t.Fatalf("expected snap tick")
	}
	m = settle(m)
	if m.ActiveID() != "b" || m.offset != m.cardHeight() {
		t.Fatalf("expected b active after advance, got %q offset=%d", m.ActiveID(), m.offset)
	}

	m, _ = m.Update(keyRune('k'))
	m, _ = m.Update(keyRune('k'))
	m = settle(m)
	if m.ActiveID() != "a" || m.cursor != 0 {
		t.Fatalf("retreat must stop at first entry, got %q", m.ActiveID())
	}
}

func TestNavigation_SuppressedWhileOverlayOpen(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b")...)

	m, _ = m.Update(keyRune('u'))
	m, cmd := m.Update(keyRune('j'))
	if cmd != nil || m.cursor != 0 {
		t.Fatalf("advance must be suppressed under the uploader popover")
	}
	m, _ = m.Update(keyType(tea.KeyEscape))

	m, _ = m.Update(keyRune('c'))
	m, _ = m.Update(keyRune('j'))
	if m.cursor != 0 {
		t.Fatalf("advance must be suppressed under the comments panel")
	}
	m, _ = m.Update(keyType(tea.KeyEscape))

	m = m.Suspend()
	m, cmd = m.Update(keyRune('j'))
	if cmd != nil || m.cursor != 0 {
		t.Fatalf("advance must be suppressed while suspended")
	}
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.offset != 0 {
		t.Fatalf("wheel must be ignored while suspended")
	}
}

func TestTapPausesActiveAndSnapsToOthers(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b")...)

	m, _ = m.Update(keyRune(' '))
	if !m.playback.State("a").Paused {
		t.Fatalf("space on the active entry must pause it")
	}
	if _, playing := f.player.Playing(); playing {
		t.Fatalf("player must be paused")
	}

	// Nudge the viewport so the top of b shows, then click it.
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Y: headerLines + m.cardHeight() - 1})
	if cmd == nil || m.cursor != 1 {
		t.Fatalf("click on a non-active card must snap to it, cursor=%d", m.cursor)
	}
	m = settle(m)
	if m.ActiveID() != "b" || m.playback.State("b").Paused {
		t.Fatalf("expected b active and playing")
	}
}

func TestMuteCarriesAcrossEntries(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b")...)

	m, cmd := m.Update(keyRune('m'))
	if prefs, ok := findMsg[PrefsChangedMsg](collect(cmd)); !ok || !prefs.Muted {
		t.Fatalf("expected mute preference persisted")
	}
	m, _ = m.Update(keyRune('j'))
	m = settle(m)
	if !m.playback.State("b").Muted || !f.player.Muted() {
		t.Fatalf("mute preference must apply to the next active entry")
	}
}

func TestSingleActivePlayer_RandomInteraction(t *testing.T) {
	f := newFixture()
	m := f.loaded(true, makeEntries("a", "b", "c", "d", "e")...)
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 400; step++ {
		switch rng.Intn(6) {
		case 0:
			m, _ = m.Update(keyRune('j'))
		case 1:
			m, _ = m.Update(keyRune('k'))
		case 2:
			m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
		case 3:
			m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
		case 4:
			m, _ = m.Update(snapTickMsg{Gen: m.tracker.Generation(), Seq: m.snapSeq})
		case 5:
			m, _ = m.Update(keyRune(' '))
		}

		if n := m.playback.ActiveCount(); n > 1 {
			t.Fatalf("step %d: %d active entries", step, n)
		}
		src, playing := f.player.Playing()
		if playing {
			active := m.ActiveID()
			if active == "" || src != "https://v/"+active+".mp4" {
				t.Fatalf("step %d: player plays %q but active is %q", step, src, active)
			}
		}
	}
}
