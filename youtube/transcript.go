package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	httpclient "clipbot/http"
)

// TranscriptEntry is one time-coded unit of spoken text.
type TranscriptEntry struct {
	// Text is the spoken text of this entry.
	Text string
	// Start is the offset from the beginning of the video, in seconds.
	Start float64
	// Duration is how long the entry is spoken for, in seconds.
	Duration float64
}

// CoveredDuration returns the total duration covered by a transcript:
// the end of the last entry. Returns 0 for an empty transcript.
func CoveredDuration(entries []TranscriptEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	last := entries[len(entries)-1]
	return last.Start + last.Duration
}

// TimedtextClient fetches captions from YouTube's timedtext API.
type TimedtextClient struct {
	httpClient *httpclient.Client
	baseURL    string
}

// timedtextRequestsPerSecond caps outbound caption requests so repeated
// fetches stay under YouTube's throttling radar.
const timedtextRequestsPerSecond = 10

// NewTimedtextClient creates a new timedtext API client.
func NewTimedtextClient(timeout time.Duration) *TimedtextClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TimedtextClient{
		httpClient: httpclient.New(&httpclient.Config{
			Timeout:           timeout,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RequestsPerSecond: timedtextRequestsPerSecond,
			Transport:         httpclient.DefaultTransportConfig(),
		}),
		baseURL: "https://www.youtube.com/api/timedtext",
	}
}

// timedtextResponse is the raw timedtext API response.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

// timedtextEvent is a single timed event; events without segs carry
// window metadata and are skipped.
type timedtextEvent struct {
	TStartMs    int64              `json:"tStartMs"`
	DDurationMs int64              `json:"dDurationMs"`
	Segs        []timedtextSegment `json:"segs,omitempty"`
}

type timedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// FetchCaptions fetches the caption track for a video in the given
// language (default "en") and returns it as an ordered transcript.
// Every failure mode (no captions, unavailable video, network error)
// surfaces as an error; the caller decides how to present it.
func (tc *TimedtextClient) FetchCaptions(ctx context.Context, videoID, langCode string) ([]TranscriptEntry, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}
	if langCode == "" {
		langCode = "en"
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", langCode)
	params.Set("fmt", "json3")

	apiURL := fmt.Sprintf("%s?%s", tc.baseURL, params.Encode())

	response, err := tc.httpClient.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("timedtext request failed: %w", err)
	}

	// An empty 200 body means the video has no caption track.
	if len(response.Body) == 0 {
		return nil, fmt.Errorf("no captions for video %s in language %s", videoID, langCode)
	}

	entries, err := parseTimedtext(response.Body)
	if err != nil {
		return nil, fmt.Errorf("parse timedtext response: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("empty transcript for video %s", videoID)
	}

	return entries, nil
}

// parseTimedtext parses the timedtext JSON response.
func parseTimedtext(data []byte) ([]TranscriptEntry, error) {
	var resp timedtextResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal timedtext JSON: %w", err)
	}

	var entries []TranscriptEntry
	for _, event := range resp.Events {
		if len(event.Segs) == 0 {
			continue
		}

		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}

		trimmed := strings.TrimSpace(text.String())
		if trimmed == "" {
			continue
		}

		entries = append(entries, TranscriptEntry{
			Text:     trimmed,
			Start:    float64(event.TStartMs) / 1000.0,
			Duration: float64(event.DDurationMs) / 1000.0,
		})
	}

	return entries, nil
}

// SetBaseURL overrides the timedtext endpoint. Used by tests.
func (tc *TimedtextClient) SetBaseURL(u string) {
	tc.baseURL = u
}

// Close closes the timedtext client and releases resources.
func (tc *TimedtextClient) Close() error {
	if tc.httpClient != nil {
		return tc.httpClient.Close()
	}
	return nil
}
