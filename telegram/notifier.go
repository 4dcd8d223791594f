// Package telegram delivers status text and finished clips to a chat
// through the Bot API. Delivery is best-effort: every send is a single
// attempt with a bounded timeout, and failures are reported as a false
// delivered flag, never as an error.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	httpclient "clipbot/http"
)

// Explicit delivery policy: one attempt per send, no retry. The
// timeouts reflect expected payload size.
const (
	// TextTimeout bounds a text notification send.
	TextTimeout = 30 * time.Second
	// MediaTimeout bounds a clip upload.
	MediaTimeout = 120 * time.Second
	// SendAttempts is the number of delivery attempts per message.
	SendAttempts = 1
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends messages and video files to a Telegram chat.
type Notifier struct {
	token   string
	apiBase string
	log     hclog.Logger

	textClient  *httpclient.Client
	mediaClient *httpclient.Client
}

// NewNotifier creates a Notifier with the pre-issued bot token.
func NewNotifier(token string, log hclog.Logger) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token required")
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	return &Notifier{
		token:       token,
		apiBase:     defaultAPIBase,
		log:         log,
		textClient:  newClient(TextTimeout),
		mediaClient: newClient(MediaTimeout),
	}, nil
}

func newClient(timeout time.Duration) *httpclient.Client {
	return httpclient.New(&httpclient.Config{
		Timeout:   timeout,
		UserAgent: "clipbot/1.0",
		Transport: httpclient.DefaultTransportConfig(),
	})
}

// SetTimeouts replaces the per-send timeouts, rebuilding the
// underlying clients.
func (n *Notifier) SetTimeouts(text, media time.Duration) {
	n.textClient.Close()
	n.mediaClient.Close()
	n.textClient = newClient(text)
	n.mediaClient = newClient(media)
}

// SetAPIBase overrides the Bot API endpoint. Used by tests.
func (n *Notifier) SetAPIBase(base string) {
	n.apiBase = base
}

// SendText delivers a text message to the chat. It reports whether
// delivery succeeded; transport errors and non-success statuses are
// logged and swallowed.
func (n *Notifier) SendText(ctx context.Context, chatID, text string) bool {
	payload, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		n.log.Error("marshal sendMessage payload", "error", err)
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	if _, err := n.textClient.Post(ctx, url, "application/json", bytes.NewReader(payload)); err != nil {
		n.log.Warn("text notification failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

// SendVideo uploads the clip at filePath with the caption attached.
// It reports whether delivery succeeded.
func (n *Notifier) SendVideo(ctx context.Context, chatID, filePath, caption string) bool {
	body, contentType, err := buildVideoForm(chatID, filePath, caption)
	if err != nil {
		n.log.Warn("build video upload", "path", filePath, "error", err)
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendVideo", n.apiBase, n.token)
	if _, err := n.mediaClient.Post(ctx, url, contentType, body); err != nil {
		n.log.Warn("video delivery failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

// buildVideoForm assembles the multipart upload body for sendVideo.
func buildVideoForm(chatID, filePath, caption string) (io.Reader, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("open clip: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", chatID); err != nil {
		return nil, "", err
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return nil, "", err
		}
	}

	part, err := writer.CreateFormFile("video", filepath.Base(filePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read clip: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

// Close releases the underlying HTTP resources.
func (n *Notifier) Close() error {
	n.textClient.Close()
	return n.mediaClient.Close()
}
