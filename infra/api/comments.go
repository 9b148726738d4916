package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/rentreels/domain"
)

// commentService implements app.CommentService against the backend.
type commentService struct {
	client *Client
}

// NewCommentService creates a CommentService.
func NewCommentService(client *Client) *commentService {
	return &commentService{client: client}
}

type commentsResponse struct {
	Comments []wireComment `json:"comments"`
}

type commentResponse struct {
	Comment wireComment `json:"comment"`
}

type postCommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parentId,omitempty"`
}

func (s *commentService) FetchComments(ctx context.Context, entryID string) ([]domain.Comment, error) {
	path := fmt.Sprintf("/api/reels/%s/comments", url.PathEscape(entryID))
	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	var resp commentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing comments: %w", err)
	}

	// Top-level only, even if the server mixes replies in.
	all := mapComments(resp.Comments, entryID)
	out := all[:0]
	for _, c := range all {
		if c.ParentID == "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *commentService) FetchReplies(ctx context.Context, parentID string) ([]domain.Comment, error) {
	path := fmt.Sprintf("/api/comments/%s/replies", url.PathEscape(parentID))
	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching replies: %w", err)
	}
	var resp commentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing replies: %w", err)
	}
	replies := mapComments(resp.Comments, "")
	for i := range replies {
		if replies[i].ParentID == "" {
			replies[i].ParentID = parentID
		}
	}
	return replies, nil
}

func (s *commentService) PostComment(ctx context.Context, entryID, text, parentID string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}

	path := fmt.Sprintf("/api/reels/%s/comments", url.PathEscape(entryID))
	data, err := s.client.PostJSON(ctx, path, postCommentRequest{Text: text, ParentID: strings.TrimSpace(parentID)})
	if err != nil {
		if parentID != "" {
			return domain.Comment{}, fmt.Errorf("replying to comment: %w", err)
		}
		return domain.Comment{}, fmt.Errorf("posting comment: %w", err)
	}

	var resp commentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Comment{}, fmt.Errorf("parsing comment response: %w", err)
	}
	c, ok := mapComment(resp.Comment, entryID)
	if !ok {
		return domain.Comment{}, fmt.Errorf("parsing comment response: missing id")
	}
	if c.ParentID == "" {
		c.ParentID = strings.TrimSpace(parentID)
	}
	return c, nil
}
