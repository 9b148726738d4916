package reels

import "github.com/CrestNiraj12/rentreels/domain"

// PanelPhase is the lifecycle of the comment panel.
type PanelPhase int

const (
	PanelClosed PanelPhase = iota
	PanelLoading
	PanelLoaded
	PanelFailed
)

func (p PanelPhase) String() string {
	switch p {
	case PanelLoading:
		return "loading"
	case PanelLoaded:
		return "loaded"
	case PanelFailed:
		return "failed"
	default:
		return "closed"
	}
}

type replyThread struct {
	replies  []domain.Comment
	loading  bool
	loaded   bool
	expanded bool
	err      error
}

// replyTarget is the pending "Reply to @user" selection. ParentID is always
// a top-level comment since threads are one level deep.
type replyTarget struct {
	ParentID string
	Author   string
}

// commentStore owns the comment panel of one feed entry: top-level
// comments, lazily fetched reply threads and optimistic posts. The cache
// lives for the panel session and survives close/reopen of the same entry.
type commentStore struct {
	open     bool
	phase    PanelPhase
	entryID  string
	session  uint64
	reqSeq   uint64
	comments []domain.Comment
	threads  map[string]*replyThread
	// posted holds top-level ids confirmed this session. A list fetched
	// before the post was accepted does not contain them.
	posted   map[string]struct{}
	err      error
	target   *replyTarget
	selected int
}

// Phase reports the panel phase, PanelClosed while hidden.
func (s *commentStore) Phase() PanelPhase {
	if !s.open {
		return PanelClosed
	}
	return s.phase
}

// openFor shows the panel for entryID. It returns true when top-level
// comments must be fetched.
func (s *commentStore) openFor(entryID string) bool {
	s.open = true
	if entryID == s.entryID {
		switch s.phase {
		case PanelLoaded, PanelLoading:
			return false
		}
		s.phase = PanelLoading
		s.err = nil
		s.reqSeq++
		return true
	}
	s.session++
	s.reqSeq++
	s.entryID = entryID
	s.phase = PanelLoading
	s.comments = nil
	s.threads = make(map[string]*replyThread)
	s.posted = make(map[string]struct{})
	s.err = nil
	s.target = nil
	s.selected = 0
	return true
}

func (s *commentStore) close() {
	s.open = false
	s.target = nil
}

// reset forgets everything, e.g. when the feed is replaced.
func (s *commentStore) reset() {
	session := s.session + 1
	*s = commentStore{session: session, threads: make(map[string]*replyThread), posted: make(map[string]struct{})}
}

func (s *commentStore) loaded(entryID string, seq uint64, comments []domain.Comment) bool {
	if entryID != s.entryID || seq != s.reqSeq {
		return false
	}
	// Keep posts made while the list was loading, confirmed or not.
	var kept []domain.Comment
	for _, c := range s.comments {
		if _, ok := s.posted[c.ID]; c.Pending || ok {
			kept = append(kept, c)
		}
	}
	s.comments = mergeComments(kept, comments)
	s.phase = PanelLoaded
	s.err = nil
	s.clampSelection()
	return true
}

func (s *commentStore) failed(entryID string, seq uint64, err error) bool {
	if entryID != s.entryID || seq != s.reqSeq {
		return false
	}
	s.phase = PanelFailed
	s.err = err
	return true
}

// toggleReplies expands or collapses a thread. Cached threads toggle
// without a fetch; it returns true when replies must be fetched.
func (s *commentStore) toggleReplies(parentID string) bool {
	if parentID == "" || s.threads == nil {
		return false
	}
	th, ok := s.threads[parentID]
	if !ok {
		s.threads[parentID] = &replyThread{loading: true, expanded: true}
		return true
	}
	switch {
	case th.loading:
		return false
	case th.loaded:
		th.expanded = !th.expanded
		return false
	default:
		// Failed earlier; try again.
		th.loading = true
		th.expanded = true
		th.err = nil
		return true
	}
}

func (s *commentStore) repliesLoaded(session uint64, parentID string, replies []domain.Comment) bool {
	if session != s.session {
		return false
	}
	th, ok := s.threads[parentID]
	if !ok {
		return false
	}
	th.replies = mergeComments(replies, th.replies)
	th.loading = false
	th.loaded = true
	th.err = nil
	if parent := s.find(parentID); parent != nil && parent.ReplyCount < len(th.replies) {
		parent.ReplyCount = len(th.replies)
	}
	return true
}

func (s *commentStore) repliesFailed(session uint64, parentID string, err error) bool {
	if session != s.session {
		return false
	}
	th, ok := s.threads[parentID]
	if !ok {
		return false
	}
	th.loading = false
	th.err = err
	return true
}

// insertOptimistic adds a pending comment: top-level at the head, replies at
// the tail of their parent's thread, which is expanded. It returns true when
// the parent's replies are not cached yet and must be fetched.
func (s *commentStore) insertOptimistic(c domain.Comment) bool {
	if c.ParentID == "" {
		s.comments = append([]domain.Comment{c}, s.comments...)
		s.selected = 0
		return false
	}
	if parent := s.find(c.ParentID); parent != nil {
		parent.ReplyCount++
	}
	th, ok := s.threads[c.ParentID]
	if !ok {
		s.threads[c.ParentID] = &replyThread{replies: []domain.Comment{c}, loading: true, expanded: true}
		return true
	}
	th.replies = append(th.replies, c)
	th.expanded = true
	return false
}

// confirm swaps the optimistic item for the server's version.
func (s *commentStore) confirm(localID string, c domain.Comment) {
	c.Pending = false
	if c.ParentID == "" {
		s.comments = replaceOrDrop(s.comments, localID, c)
		if s.posted == nil {
			s.posted = make(map[string]struct{})
		}
		s.posted[c.ID] = struct{}{}
		return
	}
	if th, ok := s.threads[c.ParentID]; ok {
		th.replies = replaceOrDrop(th.replies, localID, c)
	}
}

// rollback removes a failed optimistic item.
func (s *commentStore) rollback(localID, parentID string) {
	if parentID == "" {
		s.comments = removeComment(s.comments, localID)
		s.clampSelection()
		return
	}
	if th, ok := s.threads[parentID]; ok {
		before := len(th.replies)
		th.replies = removeComment(th.replies, localID)
		if len(th.replies) < before {
			if parent := s.find(parentID); parent != nil && parent.ReplyCount > 0 {
				parent.ReplyCount--
			}
		}
	}
}

func (s *commentStore) setTarget(c domain.Comment) {
	parent := c.ID
	if c.ParentID != "" {
		parent = c.ParentID
	}
	s.target = &replyTarget{ParentID: parent, Author: c.Author}
}

func (s *commentStore) clearTarget() { s.target = nil }

func (s *commentStore) find(id string) *domain.Comment {
	for i := range s.comments {
		if s.comments[i].ID == id {
			return &s.comments[i]
		}
	}
	return nil
}

// commentRow is one rendered line of the panel.
type commentRow struct {
	comment domain.Comment
	reply   bool
	status  string // non-empty for "loading replies" style rows
}

// rows flattens the top-level list and expanded threads in display order.
func (s *commentStore) rows() []commentRow {
	out := make([]commentRow, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, commentRow{comment: c})
		th, ok := s.threads[c.ID]
		if !ok || !th.expanded {
			continue
		}
		for _, r := range th.replies {
			out = append(out, commentRow{comment: r, reply: true})
		}
		switch {
		case th.loading:
			out = append(out, commentRow{reply: true, status: "loading replies…", comment: domain.Comment{ParentID: c.ID}})
		case th.err != nil:
			out = append(out, commentRow{reply: true, status: "couldn't load replies (x to retry)", comment: domain.Comment{ParentID: c.ID}})
		}
	}
	return out
}

func (s *commentStore) selectedRow() (commentRow, bool) {
	rows := s.rows()
	if s.selected < 0 || s.selected >= len(rows) {
		return commentRow{}, false
	}
	return rows[s.selected], true
}

func (s *commentStore) move(delta int) {
	s.selected += delta
	s.clampSelection()
}

func (s *commentStore) clampSelection() {
	n := len(s.rows())
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// mergeComments returns first followed by the items of second not already
// present, so an id never appears twice.
func mergeComments(first, second []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, 0, len(first)+len(second))
	seen := make(map[string]struct{}, len(first)+len(second))
	for _, list := range [][]domain.Comment{first, second} {
		for _, c := range list {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func replaceOrDrop(list []domain.Comment, localID string, c domain.Comment) []domain.Comment {
	for _, existing := range list {
		if existing.ID == c.ID {
			// Already arrived through a fetch.
			return removeComment(list, localID)
		}
	}
	for i := range list {
		if list[i].ID == localID {
			list[i] = c
			break
		}
	}
	return list
}

func removeComment(list []domain.Comment, id string) []domain.Comment {
	out := make([]domain.Comment, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
