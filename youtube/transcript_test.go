package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleTimedtext = `{
	"events": [
		{"tStartMs": 0, "dDurationMs": 2000, "wpWinPosId": 1},
		{"tStartMs": 0, "dDurationMs": 2500, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
		{"tStartMs": 2500, "dDurationMs": 1500, "segs": [{"utf8": "second line"}]},
		{"tStartMs": 4000, "dDurationMs": 3000, "segs": [{"utf8": "\n"}]},
		{"tStartMs": 7000, "dDurationMs": 1250, "segs": [{"utf8": "the end"}]}
	]
}`

func TestParseTimedtext(t *testing.T) {
	entries, err := parseTimedtext([]byte(sampleTimedtext))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Text != "hello world" {
		t.Errorf("expected combined segs, got %q", entries[0].Text)
	}
	if entries[0].Start != 0 || entries[0].Duration != 2.5 {
		t.Errorf("expected start 0 duration 2.5, got %v/%v", entries[0].Start, entries[0].Duration)
	}
	if entries[2].Text != "the end" {
		t.Errorf("expected last entry text, got %q", entries[2].Text)
	}
	if entries[2].Start != 7.0 || entries[2].Duration != 1.25 {
		t.Errorf("expected start 7 duration 1.25, got %v/%v", entries[2].Start, entries[2].Duration)
	}
}

func TestParseTimedtextInvalidJSON(t *testing.T) {
	if _, err := parseTimedtext([]byte("<html>blocked</html>")); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestCoveredDuration(t *testing.T) {
	entries := []TranscriptEntry{
		{Text: "a", Start: 0, Duration: 5},
		{Text: "b", Start: 12.0, Duration: 3.0},
	}
	if got := CoveredDuration(entries); got != 15.0 {
		t.Errorf("expected 15.0, got %v", got)
	}
	if got := CoveredDuration(nil); got != 0 {
		t.Errorf("expected 0 for empty transcript, got %v", got)
	}
}

func TestFetchCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "dQw4w9WgXcQ" {
			t.Errorf("expected video id in query, got %q", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Errorf("expected default lang en, got %q", got)
		}
		w.Write([]byte(sampleTimedtext))
	}))
	defer server.Close()

	client := NewTimedtextClient(5 * time.Second)
	defer client.Close()
	client.SetBaseURL(server.URL)

	entries, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestFetchCaptionsEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTimedtextClient(5 * time.Second)
	defer client.Close()
	client.SetBaseURL(server.URL)

	if _, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", "en"); err == nil {
		t.Fatal("expected error for empty caption body")
	}
}

func TestFetchCaptionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewTimedtextClient(5 * time.Second)
	defer client.Close()
	client.SetBaseURL(server.URL)

	if _, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", "en"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchCaptionsRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTimedtext))
	}))
	defer server.Close()

	client := NewTimedtextClient(5 * time.Second)
	defer client.Close()
	client.SetBaseURL(server.URL)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.FetchCaptions(context.Background(), "dQw4w9WgXcQ", "en"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// At 10 rps the second and third requests wait ~100ms each.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("expected caption requests to be rate limited, took %v", elapsed)
	}
}

func TestFetchCaptionsRequiresVideoID(t *testing.T) {
	client := NewTimedtextClient(5 * time.Second)
	defer client.Close()

	if _, err := client.FetchCaptions(context.Background(), "", "en"); err == nil {
		t.Fatal("expected error for missing video id")
	}
}
