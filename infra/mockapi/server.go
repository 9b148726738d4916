// Package mockapi is an in-memory implementation of the reels backend
// contract. It backs the client tests and the --demo mode.
package mockapi

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Reel is the server-side record of a feed entry.
type Reel struct {
	ID            string
	PropertyID    string
	PropertyTitle string
	VideoURL      string
	PosterURL     string
	Caption       string
	Tags          []string
	Uploader      string
	AvatarURL     string
	City          string
	Rent          string
	Categories    []string
	Lat, Lng      float64
	CreatedAt     time.Time
	LikeCount     int
	ViewCount     int
	Boosted       bool
}

// Comment is the server-side record of a comment or reply.
type Comment struct {
	ID        string
	ReelID    string
	ParentID  string
	Author    string
	Text      string
	CreatedAt time.Time
}

// Server holds the fake backend state. Zero values are not usable; use New.
type Server struct {
	mu       sync.Mutex
	token    string
	reels    []Reel
	comments []Comment
	liked    map[string]bool
	calls    map[string]int

	// Failure switches for tests.
	FailLikes    bool
	FailComments bool
	FailFeed     bool
}

// New creates an empty server that accepts the given bearer token.
func New(token string) *Server {
	return &Server{
		token: token,
		liked: make(map[string]bool),
		calls: make(map[string]int),
	}
}

// AddReel appends a reel to the catalog.
func (s *Server) AddReel(r Reel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.reels = append(s.reels, r)
}

// AddComment stores a comment or reply.
func (s *Server) AddComment(c Comment) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.comments = append(s.comments, c)
	return c
}

// Calls returns how many times a route pattern was hit, e.g.
// "GET /api/comments/{id}/replies".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Handler returns the chi router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countCalls)
	r.Use(s.requireBearer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/reels", s.handleFeed)
		r.Get("/reels/search", s.handleSearch)
		r.Post("/reels/{id}/like", s.handleLike)
		r.Get("/reels/{id}/comments", s.handleComments)
		r.Post("/reels/{id}/comments", s.handlePostComment)
		r.Get("/comments/{id}/replies", s.handleReplies)
	})
	return r
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		s.mu.Lock()
		s.calls[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := strings.TrimSpace(r.Header.Get("Authorization"))
		token, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" || token != s.token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFeed {
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return
	}

	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	out := make([]Reel, 0, len(s.reels))
	for _, reel := range s.reels {
		switch category {
		case "", "latest", "trending", "popular", "nearby":
			out = append(out, reel)
		case "boosted":
			if reel.Boosted {
				out = append(out, reel)
			}
		default:
			if containsFold(reel.Categories, category) {
				out = append(out, reel)
			}
		}
	}
	switch category {
	case "trending":
		sort.SliceStable(out, func(i, j int) bool { return out[i].LikeCount > out[j].LikeCount })
	case "popular":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ViewCount > out[j].ViewCount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	writeJSON(w, http.StatusOK, map[string]any{"reels": s.renderReels(limit(out, r))})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	text := strings.ToLower(strings.TrimSpace(q.Get("q")))
	city := strings.TrimSpace(q.Get("city"))
	var tags []string
	for _, t := range strings.Split(q.Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	geo := latErr == nil && lngErr == nil

	out := make([]Reel, 0)
	for _, reel := range s.reels {
		if text != "" && !strings.Contains(strings.ToLower(reel.Caption+" "+reel.PropertyTitle), text) {
			continue
		}
		if city != "" && !strings.EqualFold(reel.City, city) {
			continue
		}
		if !hasAllTags(reel.Tags, tags) {
			continue
		}
		if geo && distanceKm(lat, lng, reel.Lat, reel.Lng) > nearbyRadiusKm {
			continue
		}
		out = append(out, reel)
	}
	writeJSON(w, http.StatusOK, map[string]any{"reels": s.renderReels(limit(out, r))})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLikes {
		writeError(w, http.StatusInternalServerError, "like failed")
		return
	}
	id := chi.URLParam(r, "id")
	idx := s.reelIndex(id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "reel not found")
		return
	}
	now := !s.liked[id]
	s.liked[id] = now
	if now {
		s.reels[idx].LikeCount++
	} else if s.reels[idx].LikeCount > 0 {
		s.reels[idx].LikeCount--
	}
	writeJSON(w, http.StatusOK, map[string]any{"liked": now, "likeCount": s.reels[idx].LikeCount})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailComments {
		writeError(w, http.StatusInternalServerError, "comments unavailable")
		return
	}
	id := chi.URLParam(r, "id")
	out := make([]map[string]any, 0)
	for i := len(s.comments) - 1; i >= 0; i-- {
		c := s.comments[i]
		if c.ReelID == id && c.ParentID == "" {
			out = append(out, s.renderComment(c))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailComments {
		writeError(w, http.StatusInternalServerError, "replies unavailable")
		return
	}
	parent := chi.URLParam(r, "id")
	out := make([]map[string]any, 0)
	for _, c := range s.comments {
		if c.ParentID == parent {
			out = append(out, s.renderComment(c))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		ParentID string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailComments {
		writeError(w, http.StatusInternalServerError, "comment failed")
		return
	}
	id := chi.URLParam(r, "id")
	if s.reelIndex(id) < 0 {
		writeError(w, http.StatusNotFound, "reel not found")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	c := Comment{
		ID:        uuid.NewString(),
		ReelID:    id,
		ParentID:  strings.TrimSpace(req.ParentID),
		Author:    "You",
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: time.Now().UTC(),
	}
	s.comments = append(s.comments, c)
	writeJSON(w, http.StatusCreated, map[string]any{"comment": s.renderComment(c)})
}

// reelIndex expects s.mu held.
func (s *Server) reelIndex(id string) int {
	for i, r := range s.reels {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// renderReels expects s.mu held.
func (s *Server) renderReels(in []Reel) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, r := range in {
		var property any
		if r.PropertyID != "" {
			if r.PropertyTitle != "" {
				property = map[string]any{"_id": r.PropertyID, "title": r.PropertyTitle, "city": r.City}
			} else {
				property = r.PropertyID
			}
		}
		out = append(out, map[string]any{
			"_id":          r.ID,
			"property":     property,
			"videoUrl":     r.VideoURL,
			"posterUrl":    r.PosterURL,
			"caption":      r.Caption,
			"tags":         r.Tags,
			"uploader":     map[string]any{"name": r.Uploader, "avatarUrl": r.AvatarURL},
			"city":         r.City,
			"rent":         r.Rent,
			"createdAt":    r.CreatedAt.Format(time.RFC3339),
			"likeCount":    r.LikeCount,
			"commentCount": s.countComments(r.ID),
			"viewCount":    r.ViewCount,
			"liked":        s.liked[r.ID],
			"isBoosted":    r.Boosted,
		})
	}
	return out
}

// renderComment expects s.mu held.
func (s *Server) renderComment(c Comment) map[string]any {
	replies := 0
	for _, other := range s.comments {
		if other.ParentID == c.ID {
			replies++
		}
	}
	var parent any
	if c.ParentID != "" {
		parent = c.ParentID
	}
	return map[string]any{
		"_id":        c.ID,
		"reelId":     c.ReelID,
		"parentId":   parent,
		"author":     map[string]any{"name": c.Author},
		"text":       c.Text,
		"createdAt":  c.CreatedAt.Format(time.RFC3339),
		"replyCount": replies,
	}
}

// countComments expects s.mu held.
func (s *Server) countComments(reelID string) int {
	n := 0
	for _, c := range s.comments {
		if c.ReelID == reelID {
			n++
		}
	}
	return n
}

const nearbyRadiusKm = 25.0

func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		if !containsFold(have, w) {
			return false
		}
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func limit(in []Reel, r *http.Request) []Reel {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n >= len(in) {
		return in
	}
	return in[:n]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
