package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer hf-token" {
			t.Errorf("expected bearer credential, got %q", got)
		}

		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Inputs != "some transcript text" {
			t.Errorf("unexpected inputs: %q", req.Inputs)
		}

		json.NewEncoder(w).Encode([]summaryResult{{SummaryText: "a highlight"}})
	}))
	defer server.Close()

	client, err := New("hf-token", "", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	client.SetBaseURL(server.URL)

	got, err := client.Analyze(context.Background(), "some transcript text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a highlight" {
		t.Errorf("expected summary text, got %q", got)
	}
}

func TestAnalyzeNonArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text":"something else"}`))
	}))
	defer server.Close()

	client, err := New("hf-token", "custom/model", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	client.SetBaseURL(server.URL)

	got, err := client.Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"generated_text":"something else"}` {
		t.Errorf("expected raw body fallback, got %q", got)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New("hf-token", "", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	client.SetBaseURL(server.URL)

	if _, err := client.Analyze(context.Background(), "text"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New("", "", 0); err == nil {
		t.Fatal("expected error for missing token")
	}
}
