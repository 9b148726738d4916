package reels

import "testing"

func observeCards(tr *Tracker, n, h int) {
	for i := 0; i < n; i++ {
		tr.Observe(Handle{ID: string(rune('a' + i)), Index: i}, i*h, h, DefaultThreshold)
	}
}

func TestTracker_EnterAndExitOrder(t *testing.T) {
	tr := NewTracker()
	observeCards(tr, 3, 20)

	evs := tr.Scroll(0, 20)
	if len(evs) != 1 || evs[0].Kind != Entered || evs[0].Handle.ID != "a" {
		t.Fatalf("expected a entered, got %#v", evs)
	}

	// 10% into b: a is at 0.9, still visible.
	if evs := tr.Scroll(2, 20); len(evs) != 0 {
		t.Fatalf("expected no change above threshold, got %#v", evs)
	}

	// Halfway: neither card reaches the threshold.
	evs = tr.Scroll(10, 20)
	if len(evs) != 1 || evs[0].Kind != Exited || evs[0].Handle.ID != "a" {
		t.Fatalf("expected a exited, got %#v", evs)
	}
	if tr.Visible() != "" {
		t.Fatalf("no card should be visible mid-transition")
	}

	evs = tr.Scroll(20, 20)
	if len(evs) != 1 || evs[0].Kind != Entered || evs[0].Handle.ID != "b" {
		t.Fatalf("expected b entered, got %#v", evs)
	}
}

func TestTracker_JumpEmitsExitBeforeEnter(t *testing.T) {
	tr := NewTracker()
	observeCards(tr, 3, 20)
	tr.Scroll(0, 20)

	evs := tr.Scroll(40, 20)
	if len(evs) != 2 || evs[0].Kind != Exited || evs[0].Handle.ID != "a" ||
		evs[1].Kind != Entered || evs[1].Handle.ID != "c" {
		t.Fatalf("expected exit a then enter c, got %#v", evs)
	}
}

func TestTracker_QuantizedThreshold(t *testing.T) {
	tests := []struct {
		name    string
		top     int
		visible bool
	}{
		{name: "fully visible", top: 0, visible: true},
		{name: "exactly 85%", top: 3, visible: true},
		{name: "just under 85%", top: 4, visible: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracker()
			tr.Observe(Handle{ID: "x"}, 0, 20, DefaultThreshold)
			tr.Scroll(tc.top, 20)
			if got := tr.Visible() == "x"; got != tc.visible {
				t.Fatalf("visible got %v want %v", got, tc.visible)
			}
		})
	}
}

func TestTracker_DominantTieBreaksOnCentre(t *testing.T) {
	tr := NewTracker()
	// Two short cards that both fit entirely in a tall viewport.
	tr.Observe(Handle{ID: "top", Index: 0}, 0, 10, DefaultThreshold)
	tr.Observe(Handle{ID: "mid", Index: 1}, 12, 10, DefaultThreshold)

	tr.Scroll(0, 40)
	if tr.Visible() != "mid" {
		t.Fatalf("expected card closest to centre to win, got %q", tr.Visible())
	}
}

func TestTracker_ResetBumpsGenerationAndClears(t *testing.T) {
	tr := NewTracker()
	observeCards(tr, 2, 20)
	old := tr.Scroll(0, 20)
	gen := tr.Generation()

	tr.Reset()
	if tr.Generation() == gen {
		t.Fatalf("expected generation bump")
	}
	if tr.Len() != 0 || tr.Visible() != "" {
		t.Fatalf("expected observations cleared")
	}
	if old[0].Gen == tr.Generation() {
		t.Fatalf("old events must carry the previous generation")
	}
	if evs := tr.Scroll(0, 20); len(evs) != 0 {
		t.Fatalf("no observers means no events, got %#v", evs)
	}
}

func TestTracker_UnobserveVisibleEmitsExit(t *testing.T) {
	tr := NewTracker()
	observeCards(tr, 2, 20)
	tr.Scroll(0, 20)

	ev, ok := tr.Unobserve("a")
	if !ok || ev.Kind != Exited || ev.Handle.ID != "a" {
		t.Fatalf("expected exit for visible card, got %#v %v", ev, ok)
	}
	if _, ok := tr.Unobserve("b"); ok {
		t.Fatalf("hidden card must not emit an exit")
	}
	if tr.Observed("a") || tr.Observed("b") {
		t.Fatalf("expected both unobserved")
	}
}
