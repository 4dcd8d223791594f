// Package analysis calls an external text-analysis service (Hugging
// Face inference) with a transcript excerpt. The call is optional and
// best-effort: the pipeline works identically without a credential.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	httpclient "clipbot/http"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultModel   = "facebook/bart-large-cnn"
	defaultTimeout = 30 * time.Second
)

// Client talks to the Hugging Face inference API with a pre-issued
// bearer credential.
type Client struct {
	httpClient *httpclient.Client
	token      string
	model      string
	baseURL    string
}

// New creates an analysis client. The token is required; model and
// timeout fall back to defaults when zero.
func New(token, model string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("analysis token required")
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: httpclient.New(&httpclient.Config{
			Timeout:   timeout,
			UserAgent: "clipbot/1.0",
			Transport: httpclient.DefaultTransportConfig(),
		}),
		token:   token,
		model:   model,
		baseURL: defaultBaseURL,
	}, nil
}

// inferenceRequest is the model input payload.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// summaryResult is the shape returned by summarization models.
type summaryResult struct {
	SummaryText string `json:"summary_text"`
}

// Analyze sends promptText to the inference API and returns the model
// output as plain text. Any transport or decoding failure is returned
// as an error for the caller to decide on.
func (c *Client) Analyze(ctx context.Context, promptText string) (string, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: promptText})
	if err != nil {
		return "", fmt.Errorf("marshal analysis request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	headers := map[string]string{
		"Authorization": "Bearer " + c.token,
		"Content-Type":  "application/json",
	}

	resp, err := c.httpClient.Do(ctx, "POST", url, bytes.NewReader(payload), headers)
	if err != nil {
		return "", fmt.Errorf("analysis request failed: %w", err)
	}

	// Summarization models return a one-element array; fall back to the
	// raw body for models with a different output shape.
	var results []summaryResult
	if err := json.Unmarshal(resp.Body, &results); err == nil && len(results) > 0 {
		return results[0].SummaryText, nil
	}
	return string(resp.Body), nil
}

// SetBaseURL overrides the inference endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.httpClient.Close()
}
