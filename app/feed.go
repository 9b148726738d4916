package app

import (
	"context"

	"github.com/CrestNiraj12/rentreels/domain"
)

// FeedService fetches reels from the backend.
type FeedService interface {
	// FetchCategory returns the ordered entries for a category. Ordering and
	// paging are decided by the server.
	FetchCategory(ctx context.Context, category string, limit int) ([]domain.FeedEntry, error)
}

// SearchService queries reels by text, city, tags and location.
type SearchService interface {
	Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.FeedEntry, error)
}

// LikeService toggles the authenticated user's like on an entry.
type LikeService interface {
	// ToggleLike flips the like and returns the server-confirmed state.
	ToggleLike(ctx context.Context, entryID string) (liked bool, count int, err error)
}

// CommentService reads and writes comment threads.
type CommentService interface {
	// FetchComments returns top-level comments for an entry, server ordered.
	FetchComments(ctx context.Context, entryID string) ([]domain.Comment, error)

	// FetchReplies returns the replies of one top-level comment.
	FetchReplies(ctx context.Context, parentID string) ([]domain.Comment, error)

	// PostComment creates a comment, or a reply when parentID is set.
	PostComment(ctx context.Context, entryID, text, parentID string) (domain.Comment, error)
}

// Session reports whether a credential is available before a call is made.
type Session interface {
	Authenticated() bool
}
