package domain

import (
	"strings"
	"time"
)

// PropertyRef links a feed entry to a listed property. The backend sends
// either a bare id or an embedded object; both end up here.
type PropertyRef struct {
	ID    string
	Title string
	City  string
}

// FeedEntry is one playable video in the reels feed.
type FeedEntry struct {
	ID       string
	Property *PropertyRef

	VideoURL  string
	PosterURL string

	Caption        string
	Tags           []string
	Uploader       string
	UploaderAvatar string
	City           string
	Rent           string
	CreatedAt      time.Time

	LikeCount    int
	CommentCount int
	ViewCount    int

	Liked     bool
	Saved     bool
	IsBoosted bool
}

// HasVideo reports whether the entry carries a playable source.
func (e FeedEntry) HasVideo() bool {
	return strings.TrimSpace(e.VideoURL) != ""
}

// PropertyID returns the linked property id, or "" when there is none.
func (e FeedEntry) PropertyID() string {
	if e.Property == nil {
		return ""
	}
	return strings.TrimSpace(e.Property.ID)
}

// Title is the headline used for sharing and popovers.
func (e FeedEntry) Title() string {
	if e.Property != nil && strings.TrimSpace(e.Property.Title) != "" {
		return e.Property.Title
	}
	if c := strings.TrimSpace(e.Caption); c != "" {
		if line, _, ok := strings.Cut(c, "\n"); ok {
			return line
		}
		return c
	}
	return "Property reel"
}
