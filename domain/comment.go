package domain

import "time"

// Comment is a top-level comment or a reply on a feed entry.
type Comment struct {
	ID         string
	EntryID    string
	ParentID   string // Empty for top-level comments
	Author     string
	AvatarURL  string
	Text       string
	CreatedAt  time.Time
	ReplyCount int
	Pending    bool // Optimistic local item awaiting confirmation
}

// IsReply reports whether the comment belongs to a parent thread.
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}
