package domain

import "strings"

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// SearchQuery is what the search overlay submits.
type SearchQuery struct {
	Text   string
	City   string
	Tags   []string
	Near   *GeoPoint
	Nearby bool
}

// IsEmpty reports whether the query carries no filter at all.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" &&
		strings.TrimSpace(q.City) == "" &&
		len(q.Tags) == 0 &&
		!q.Nearby
}

// ParseTags splits a comma-separated tag filter, dropping blanks, leading
// '#' and duplicates while keeping order.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#")))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Shareable is the portable representation of an entry handed to a share
// target.
type Shareable struct {
	Title string
	Text  string
	URL   string
}
