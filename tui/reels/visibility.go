package reels

// visibilitySteps is the number of discrete ratios a card can report. Finer
// steps let the dominant card be picked promptly during fast scrolls.
const visibilitySteps = 20

// DefaultThreshold is the visible fraction a card needs to count as entered.
const DefaultThreshold = 0.85

// Handle identifies an observed card.
type Handle struct {
	ID    string
	Index int
}

// VisibilityKind is the direction of a visibility change.
type VisibilityKind int

const (
	Entered VisibilityKind = iota
	Exited
)

func (k VisibilityKind) String() string {
	if k == Entered {
		return "entered"
	}
	return "exited"
}

// VisibilityEvent reports a card crossing its threshold. Gen is the tracker
// generation the event was produced in; consumers drop events whose
// generation is no longer current.
type VisibilityEvent struct {
	Kind   VisibilityKind
	Handle Handle
	Ratio  float64
	Gen    uint64
}

type observation struct {
	handle    Handle
	top       int
	height    int
	threshold float64
}

// Tracker decides which card dominates a vertically scrolling viewport. At
// most one card is visible at a time: the one with the largest quantized
// ratio, ties going to the card closest to the viewport centre.
type Tracker struct {
	gen     uint64
	order   []string
	obs     map[string]observation
	visible string
}

// NewTracker creates an empty tracker at generation 1.
func NewTracker() *Tracker {
	return &Tracker{gen: 1, obs: make(map[string]observation)}
}

// Generation returns the current generation.
func (t *Tracker) Generation() uint64 { return t.gen }

// Visible returns the id of the card currently considered visible.
func (t *Tracker) Visible() string { return t.visible }

// Len returns the number of observed cards.
func (t *Tracker) Len() int { return len(t.obs) }

// Observed reports whether id is registered.
func (t *Tracker) Observed(id string) bool {
	_, ok := t.obs[id]
	return ok
}

// Observe registers a card laid out at [top, top+height). Observing an id
// again updates its geometry.
func (t *Tracker) Observe(h Handle, top, height int, threshold float64) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if _, ok := t.obs[h.ID]; !ok {
		t.order = append(t.order, h.ID)
	}
	t.obs[h.ID] = observation{handle: h, top: top, height: height, threshold: threshold}
}

// Unobserve drops a card. If it was the visible card, the matching exit
// event is returned.
func (t *Tracker) Unobserve(id string) (VisibilityEvent, bool) {
	o, ok := t.obs[id]
	if !ok {
		return VisibilityEvent{}, false
	}
	delete(t.obs, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if t.visible != id {
		return VisibilityEvent{}, false
	}
	t.visible = ""
	return VisibilityEvent{Kind: Exited, Handle: o.handle, Gen: t.gen}, true
}

// Reset tears down every observation and starts a new generation. Events
// from earlier generations must not be acted on.
func (t *Tracker) Reset() {
	t.gen++
	t.order = nil
	t.obs = make(map[string]observation)
	t.visible = ""
}

// Scroll recomputes visibility for a viewport and returns the changes, exits
// first.
func (t *Tracker) Scroll(viewTop, viewHeight int) []VisibilityEvent {
	best, bestRatio := "", 0.0
	bestDist := 0
	centre := 2*viewTop + viewHeight // doubled to stay in integers
	for _, id := range t.order {
		o := t.obs[id]
		r := quantizedRatio(o.top, o.height, viewTop, viewHeight)
		if r == 0 {
			continue
		}
		dist := abs(2*o.top + o.height - centre)
		if best == "" || r > bestRatio || (r == bestRatio && dist < bestDist) {
			best, bestRatio, bestDist = id, r, dist
		}
	}

	next := ""
	if best != "" && bestRatio >= t.obs[best].threshold {
		next = best
	}
	if next == t.visible {
		return nil
	}

	var events []VisibilityEvent
	if t.visible != "" {
		if o, ok := t.obs[t.visible]; ok {
			events = append(events, VisibilityEvent{
				Kind:   Exited,
				Handle: o.handle,
				Ratio:  quantizedRatio(o.top, o.height, viewTop, viewHeight),
				Gen:    t.gen,
			})
		}
	}
	if next != "" {
		events = append(events, VisibilityEvent{
			Kind:   Entered,
			Handle: t.obs[next].handle,
			Ratio:  bestRatio,
			Gen:    t.gen,
		})
	}
	t.visible = next
	return events
}

// quantizedRatio is the visible fraction of [top, top+height) rounded down
// to a visibilitySteps grid.
func quantizedRatio(top, height, viewTop, viewHeight int) float64 {
	if height <= 0 || viewHeight <= 0 {
		return 0
	}
	lo := max(top, viewTop)
	hi := min(top+height, viewTop+viewHeight)
	if hi <= lo {
		return 0
	}
	steps := (hi - lo) * visibilitySteps / height
	return float64(steps) / visibilitySteps
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
