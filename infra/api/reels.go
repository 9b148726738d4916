package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/CrestNiraj12/rentreels/domain"
)

// reelService implements app.FeedService, app.SearchService and
// app.LikeService against the backend.
type reelService struct {
	client *Client
}

// NewReelService creates the feed/search/like service.
func NewReelService(client *Client) *reelService {
	return &reelService{client: client}
}

type reelsResponse struct {
	Reels []wireEntry `json:"reels"`
}

func (s *reelService) FetchCategory(ctx context.Context, category string, limit int) ([]domain.FeedEntry, error) {
	q := url.Values{}
	q.Set("category", strings.TrimSpace(category))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	data, err := s.client.Get(ctx, "/api/reels?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", category, err)
	}
	return decodeReels(data)
}

func (s *reelService) Search(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.FeedEntry, error) {
	q := url.Values{}
	if t := strings.TrimSpace(query.Text); t != "" {
		q.Set("q", t)
	}
	if c := strings.TrimSpace(query.City); c != "" {
		q.Set("city", c)
	}
	if len(query.Tags) > 0 {
		q.Set("tags", strings.Join(query.Tags, ","))
	}
	if query.Near != nil {
		q.Set("lat", strconv.FormatFloat(query.Near.Lat, 'f', 5, 64))
		q.Set("lng", strconv.FormatFloat(query.Near.Lng, 'f', 5, 64))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	data, err := s.client.Get(ctx, "/api/reels/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching reels: %w", err)
	}
	return decodeReels(data)
}

type likeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

func (s *reelService) ToggleLike(ctx context.Context, entryID string) (bool, int, error) {
	path := fmt.Sprintf("/api/reels/%s/like", url.PathEscape(entryID))
	data, err := s.client.PostJSON(ctx, path, nil)
	if err != nil {
		return false, 0, fmt.Errorf("toggling like: %w", err)
	}
	var resp likeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, 0, fmt.Errorf("parsing like response: %w", err)
	}
	return resp.Liked, nonNegative(resp.LikeCount), nil
}

func decodeReels(data []byte) ([]domain.FeedEntry, error) {
	var resp reelsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing reels: %w", err)
	}
	return mapEntries(resp.Reels), nil
}
