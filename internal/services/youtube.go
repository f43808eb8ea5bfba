package services

import (
	"context"
	"fmt"
	urlpkg "net/url"
	"regexp"
	"strings"

	yt "github.com/kkdai/youtube/v2"
)

type YouTubeService struct {
	ytClient *yt.Client
}

func NewYouTubeService() *YouTubeService {
	return &YouTubeService{ytClient: &yt.Client{}}
}

// Duration returns the video length in seconds.
func (s *YouTubeService) Duration(ctx context.Context, videoID string) (float64, error) {
	id := ExtractVideoID(videoID)
	if id == "" {
		return 0, fmt.Errorf("invalid YouTube video id: %q", videoID)
	}
	video, err := s.ytClient.GetVideoContext(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("fetch video %s: %w", id, err)
	}
	if video.Duration <= 0 {
		return 0, fmt.Errorf("video %s reports no duration", id)
	}
	return video.Duration.Seconds(), nil
}

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

var videoURLPattern = regexp.MustCompile(`(?:v=|\/v\/|youtu\.be\/|embed\/|shorts\/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID accepts a bare 11-character id or any common YouTube URL form.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw
	}

	parsed, err := urlpkg.Parse(raw)
	if err == nil {
		host := strings.ToLower(parsed.Host)
		path := strings.Trim(parsed.Path, "/")

		if strings.Contains(host, "youtube.com") {
			if v := parsed.Query().Get("v"); videoIDPattern.MatchString(v) {
				return v
			}
			parts := strings.Split(path, "/")
			if len(parts) >= 2 {
				switch parts[0] {
				case "shorts", "embed", "v":
					if videoIDPattern.MatchString(parts[1]) {
						return parts[1]
					}
				}
			}
		}

		if strings.Contains(host, "youtu.be") {
			if candidate := strings.Split(path, "/")[0]; videoIDPattern.MatchString(candidate) {
				return candidate
			}
		}
	}

	if m := videoURLPattern.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}
