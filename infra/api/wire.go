package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/rentreels/domain"
)

const (
	unknownUploader = "Unknown host"
	unknownAuthor   = "Anonymous"
)

// wireEntry is the backend's reel shape. Most fields are optional; missing
// ones map to safe defaults instead of failing the whole list.
type wireEntry struct {
	ID           string       `json:"id"`
	LegacyID     string       `json:"_id"`
	Property     wireProperty `json:"property"`
	PropertyID   string       `json:"propertyId"`
	VideoURL     string       `json:"videoUrl"`
	PosterURL    string       `json:"posterUrl"`
	Thumbnail    string       `json:"thumbnailUrl"`
	Caption      string       `json:"caption"`
	Tags         []string     `json:"tags"`
	Uploader     wirePerson   `json:"uploader"`
	City         string       `json:"city"`
	Rent         string       `json:"rent"`
	CreatedAt    string       `json:"createdAt"`
	LikeCount    int          `json:"likeCount"`
	CommentCount int          `json:"commentCount"`
	ViewCount    int          `json:"viewCount"`
	Liked        bool         `json:"liked"`
	Saved        bool         `json:"saved"`
	IsBoosted    bool         `json:"isBoosted"`
}

type wirePerson struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// wireProperty accepts a bare id string, an embedded object, or null.
type wireProperty struct {
	ref *domain.PropertyRef
}

func (p *wireProperty) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		p.ref = nil
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		if id = strings.TrimSpace(id); id != "" {
			p.ref = &domain.PropertyRef{ID: id}
		}
		return nil
	}
	var obj struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
		Title    string `json:"title"`
		City     string `json:"city"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// A malformed property must not sink the whole entry.
		p.ref = nil
		return nil
	}
	id := firstNonEmpty(obj.ID, obj.LegacyID)
	if id == "" {
		p.ref = nil
		return nil
	}
	p.ref = &domain.PropertyRef{
		ID:    id,
		Title: sanitizeForTerminal(obj.Title),
		City:  sanitizeForTerminal(obj.City),
	}
	return nil
}

type wireComment struct {
	ID         string     `json:"id"`
	LegacyID   string     `json:"_id"`
	EntryID    string     `json:"reelId"`
	ParentID   *string    `json:"parentId"`
	Author     wirePerson `json:"author"`
	Text       string     `json:"text"`
	CreatedAt  string     `json:"createdAt"`
	ReplyCount int        `json:"replyCount"`
}

// mapEntries converts a page of entries. A repeated id keeps its first
// occurrence.
func mapEntries(in []wireEntry) []domain.FeedEntry {
	out := make([]domain.FeedEntry, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, w := range in {
		e, ok := mapEntry(w)
		if !ok {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// mapEntry converts one wire entry. Only an entry without any id is dropped,
// since nothing can be keyed on it.
func mapEntry(w wireEntry) (domain.FeedEntry, bool) {
	id := firstNonEmpty(w.ID, w.LegacyID)
	if id == "" {
		return domain.FeedEntry{}, false
	}

	prop := w.Property.ref
	if prop == nil && strings.TrimSpace(w.PropertyID) != "" {
		prop = &domain.PropertyRef{ID: strings.TrimSpace(w.PropertyID)}
	}

	city := sanitizeForTerminal(w.City)
	if city == "" && prop != nil {
		city = prop.City
	}

	uploader := sanitizeForTerminal(w.Uploader.Name)
	if uploader == "" {
		uploader = unknownUploader
	}

	return domain.FeedEntry{
		ID:             id,
		Property:       prop,
		VideoURL:       strings.TrimSpace(w.VideoURL),
		PosterURL:      firstNonEmpty(w.PosterURL, w.Thumbnail),
		Caption:        sanitizeForTerminal(w.Caption),
		Tags:           cleanTags(w.Tags),
		Uploader:       uploader,
		UploaderAvatar: strings.TrimSpace(w.Uploader.AvatarURL),
		City:           city,
		Rent:           sanitizeForTerminal(w.Rent),
		CreatedAt:      parseTime(w.CreatedAt),
		LikeCount:      nonNegative(w.LikeCount),
		CommentCount:   nonNegative(w.CommentCount),
		ViewCount:      nonNegative(w.ViewCount),
		Liked:          w.Liked,
		Saved:          w.Saved,
		IsBoosted:      w.IsBoosted,
	}, true
}

func mapComments(in []wireComment, entryID string) []domain.Comment {
	out := make([]domain.Comment, 0, len(in))
	for _, w := range in {
		c, ok := mapComment(w, entryID)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func mapComment(w wireComment, entryID string) (domain.Comment, bool) {
	id := firstNonEmpty(w.ID, w.LegacyID)
	if id == "" {
		return domain.Comment{}, false
	}
	author := sanitizeForTerminal(w.Author.Name)
	if author == "" {
		author = unknownAuthor
	}
	parent := ""
	if w.ParentID != nil {
		parent = strings.TrimSpace(*w.ParentID)
	}
	entry := strings.TrimSpace(w.EntryID)
	if entry == "" {
		entry = entryID
	}
	return domain.Comment{
		ID:         id,
		EntryID:    entry,
		ParentID:   parent,
		Author:     author,
		AvatarURL:  strings.TrimSpace(w.Author.AvatarURL),
		Text:       sanitizeForTerminal(w.Text),
		CreatedAt:  parseTime(w.CreatedAt),
		ReplyCount: nonNegative(w.ReplyCount),
	}, true
}

func cleanTags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		out = append(out, sanitizeForTerminal(t))
	}
	return out
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// sanitizeForTerminal strips escape sequences and control characters from
// server text so it cannot drive the terminal. Newlines survive.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
