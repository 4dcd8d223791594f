package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound indicates the Data API knows no video with this ID.
var ErrVideoNotFound = errors.New("video not found")

// VideoMetadata describes a single video as reported by the Data API.
type VideoMetadata struct {
	ID          string
	Title       string
	ChannelName string
	Duration    time.Duration
}

// MetadataClient looks up video metadata via the YouTube Data API v3.
// It is optional infrastructure: construction requires an API key and
// callers without one skip the lookup entirely.
type MetadataClient struct {
	service *youtube.Service
}

// NewMetadataClient creates a Data API client with the given key.
func NewMetadataClient(ctx context.Context, apiKey string) (*MetadataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &MetadataClient{service: service}, nil
}

// FetchVideo retrieves title, channel, and duration for a video ID.
func (m *MetadataClient) FetchVideo(ctx context.Context, videoID string) (*VideoMetadata, error) {
	call := m.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("videos.list %s: %w", videoID, ErrVideoNotFound)
	}

	item := resp.Items[0]
	duration, err := parseISO8601Duration(item.ContentDetails.Duration)
	if err != nil {
		// Duration is advisory; a parse failure should not sink the lookup.
		duration = 0
	}

	return &VideoMetadata{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		ChannelName: item.Snippet.ChannelTitle,
		Duration:    duration,
	}, nil
}

var iso8601DurationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration parses the Data API's PT#H#M#S duration format.
func parseISO8601Duration(s string) (time.Duration, error) {
	m := iso8601DurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ISO 8601 duration: %q", s)
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration: %q", s)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}
