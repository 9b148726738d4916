package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var demoVideos = []string{
	"https://test-videos.co.uk/vids/bigbuckbunny/mp4/h264/360/Big_Buck_Bunny_360_10s_1MB.mp4",
	"https://test-videos.co.uk/vids/jellyfish/mp4/h264/360/Jellyfish_360_10s_1MB.mp4",
	"https://test-videos.co.uk/vids/sintel/mp4/h264/360/Sintel_360_10s_1MB.mp4",
}

var demoTags = []string{"furnished", "pets", "wifi", "parking", "balcony", "shared", "studio", "gym"}

var demoCities = []struct {
	Name     string
	Lat, Lng float64
}{
	{"Delhi", 28.6139, 77.2090},
	{"Bengaluru", 12.9716, 77.5946},
	{"Pune", 18.5204, 73.8567},
}

// Seed fills the server with n fake reels and a few comment threads. The
// same seed always yields the same catalog.
func Seed(s *Server, n int, seed int64) {
	f := gofakeit.New(seed)
	base := time.Now().UTC().Add(-time.Duration(n) * time.Hour)

	for i := 0; i < n; i++ {
		city := demoCities[f.Number(0, len(demoCities)-1)]
		tags := pickTags(f, f.Number(1, 3))
		reel := Reel{
			ID:            fmt.Sprintf("reel-%03d", i+1),
			PropertyTitle: fmt.Sprintf("%s %s", f.Adjective(), f.RandomString([]string{"Residency", "Villa", "PG", "Apartments", "Homes"})),
			VideoURL:      demoVideos[i%len(demoVideos)],
			Caption:       f.Sentence(f.Number(6, 14)),
			Tags:          tags,
			Uploader:      f.Name(),
			AvatarURL:     f.URL() + "/avatar.png",
			City:          city.Name,
			Rent:          fmt.Sprintf("₹%d/mo", f.Number(6, 60)*1000),
			Categories:    []string{f.RandomString([]string{"latest", "trending", "popular"})},
			Lat:           city.Lat + f.Float64Range(-0.05, 0.05),
			Lng:           city.Lng + f.Float64Range(-0.05, 0.05),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
			LikeCount:     f.Number(0, 500),
			ViewCount:     f.Number(50, 20000),
			Boosted:       f.Number(0, 4) == 0,
		}
		// Some reels have no linked property, or only a bare id.
		switch f.Number(0, 5) {
		case 0:
			reel.PropertyTitle = ""
		case 1:
			reel.PropertyID = fmt.Sprintf("prop-%03d", i+1)
			reel.PropertyTitle = ""
		default:
			reel.PropertyID = fmt.Sprintf("prop-%03d", i+1)
		}
		s.AddReel(reel)

		for c := 0; c < f.Number(0, 4); c++ {
			parent := s.AddComment(Comment{
				ReelID: reel.ID,
				Author: f.Name(),
				Text:   f.Sentence(f.Number(4, 12)),
			})
			for r := 0; r < f.Number(0, 2); r++ {
				s.AddComment(Comment{
					ReelID:   reel.ID,
					ParentID: parent.ID,
					Author:   f.Name(),
					Text:     f.Sentence(f.Number(3, 8)),
				})
			}
		}
	}
}

func pickTags(f *gofakeit.Faker, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(out) < n {
		t := demoTags[f.Number(0, len(demoTags)-1)]
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Start serves s on a loopback port and returns its base URL and a shutdown
// func.
func Start(s *Server) (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listening: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = ln.Close()
		}
	}()
	return "http://" + ln.Addr().String(), srv.Shutdown, nil
}
