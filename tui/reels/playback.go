package reels

import (
	"github.com/CrestNiraj12/rentreels/app"
	"github.com/CrestNiraj12/rentreels/domain"
)

// PlaybackState is the per-entry playback flags.
type PlaybackState struct {
	Active bool
	Paused bool
	Muted  bool
}

// Playback enforces the single-active-player rule. It is the only code that
// talks to the media player.
type Playback struct {
	player  app.MediaPlayer
	gen     uint64
	order   []string
	sources map[string]string
	states  map[string]PlaybackState
	active  string
	muted   bool // global preference applied on activation

	suspended bool
	// deferred is set when an entry became active while suspended and the
	// player has not been told yet.
	deferred bool
}

// NewPlayback creates a manager with the persisted global mute preference.
func NewPlayback(player app.MediaPlayer, muted bool) *Playback {
	return &Playback{
		player:  player,
		muted:   muted,
		sources: make(map[string]string),
		states:  make(map[string]PlaybackState),
	}
}

// Reset stops playback and adopts a new entry set for generation gen. The
// global mute preference survives; per-entry flags start from defaults.
func (p *Playback) Reset(gen uint64, entries []domain.FeedEntry) {
	if p.active != "" {
		p.player.Stop()
	}
	p.gen = gen
	p.active = ""
	p.deferred = false
	p.order = make([]string, 0, len(entries))
	p.sources = make(map[string]string, len(entries))
	p.states = make(map[string]PlaybackState, len(entries))
	for _, e := range entries {
		p.order = append(p.order, e.ID)
		p.sources[e.ID] = e.VideoURL
		p.states[e.ID] = PlaybackState{Paused: true, Muted: p.muted}
	}
}

// Apply consumes one visibility event and reports whether it was acted on.
// Events from another generation or for unknown entries are dropped.
func (p *Playback) Apply(ev VisibilityEvent) bool {
	if ev.Gen != p.gen {
		return false
	}
	id := ev.Handle.ID
	st, ok := p.states[id]
	if !ok {
		return false
	}

	switch ev.Kind {
	case Entered:
		for _, other := range p.order {
			if other == id {
				continue
			}
			o := p.states[other]
			if o.Active || !o.Paused {
				o.Active = false
				o.Paused = true
				p.states[other] = o
			}
		}
		st.Active = true
		st.Paused = false
		st.Muted = p.muted
		p.states[id] = st
		p.active = id
		if p.suspended {
			p.deferred = true
			return true
		}
		p.start(id)
		return true

	case Exited:
		if p.active != id {
			return false
		}
		st.Active = false
		st.Paused = true
		p.states[id] = st
		p.active = ""
		p.deferred = false
		if !p.suspended {
			p.player.Pause()
		}
		return true
	}
	return false
}

func (p *Playback) start(id string) {
	p.player.SetMuted(p.muted)
	if src := p.sources[id]; src != "" {
		p.player.Play(src)
		return
	}
	p.player.Stop()
}

// Tap handles a tap on an entry. On the active entry it toggles pause and
// returns false; on any other entry nothing changes and true is returned so
// the caller can snap to it.
func (p *Playback) Tap(id string) (snap bool) {
	if id == "" || id != p.active {
		return id != ""
	}
	st := p.states[id]
	st.Paused = !st.Paused
	p.states[id] = st
	if p.suspended {
		return false
	}
	if st.Paused {
		p.player.Pause()
	} else {
		p.player.Resume()
	}
	return false
}

// ToggleMute flips mute on the active entry and makes it the global
// preference. Without an active entry it does nothing.
func (p *Playback) ToggleMute() bool {
	if p.active == "" {
		return false
	}
	st := p.states[p.active]
	st.Muted = !st.Muted
	p.states[p.active] = st
	p.muted = st.Muted
	if !p.suspended {
		p.player.SetMuted(st.Muted)
	}
	return true
}

// Suspend pauses the active entry while an overlay owns the screen.
func (p *Playback) Suspend() {
	if p.suspended {
		return
	}
	p.suspended = true
	if p.active != "" && !p.states[p.active].Paused {
		p.player.Pause()
	}
}

// Resume undoes Suspend.
func (p *Playback) Resume() {
	if !p.suspended {
		return
	}
	p.suspended = false
	if p.active == "" {
		return
	}
	if p.deferred {
		p.deferred = false
		p.start(p.active)
		if p.states[p.active].Paused {
			p.player.Pause()
		}
		return
	}
	if !p.states[p.active].Paused {
		p.player.Resume()
	}
}

// Shutdown stops the player for good.
func (p *Playback) Shutdown() {
	p.player.Stop()
	p.active = ""
}

// Active returns the active entry id, or "".
func (p *Playback) Active() string { return p.active }

// Muted returns the global mute preference.
func (p *Playback) Muted() bool { return p.muted }

// Suspended reports whether an overlay holds playback.
func (p *Playback) Suspended() bool { return p.suspended }

// State returns the flags of one entry.
func (p *Playback) State(id string) PlaybackState { return p.states[id] }

// ActiveCount counts entries flagged active.
func (p *Playback) ActiveCount() int {
	n := 0
	for _, st := range p.states {
		if st.Active {
			n++
		}
	}
	return n
}
