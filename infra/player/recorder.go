package player

import "sync"

// Recorder is a headless player. It keeps the state a real player would be
// in and the list of calls, for RENTREELS_PLAYER=none and tests.
type Recorder struct {
	mu      sync.Mutex
	source  string
	playing bool
	muted   bool
	calls   []string
}

// NewRecorder creates an idle Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Play(src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source, r.playing = src, true
	r.calls = append(r.calls, "play "+src)
}

func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing = false
	r.calls = append(r.calls, "pause")
}

func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.source != "" {
		r.playing = true
	}
	r.calls = append(r.calls, "resume")
}

func (r *Recorder) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
	if muted {
		r.calls = append(r.calls, "mute")
	} else {
		r.calls = append(r.calls, "unmute")
	}
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source, r.playing = "", false
	r.calls = append(r.calls, "stop")
}

// Playing reports the loaded source and whether it is currently playing.
func (r *Recorder) Playing() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source, r.playing
}

// Muted reports the last mute state applied.
func (r *Recorder) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
