package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultYtdlpPath       = "yt-dlp"
	defaultDownloadTimeout = 25 * time.Minute

	// maxDownloadHeight caps the requested resolution; clips do not
	// need more than 720p and larger sources slow every later stage.
	maxDownloadHeight = 720
)

// Sentinel errors for download operations.
var (
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("yt-dlp not installed")
	// ErrVideoUnavailable indicates the video is private, removed, or region locked.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrNoMediaFile indicates no recognized video container appeared after the download.
	ErrNoMediaFile = errors.New("no media file produced")
	// ErrNetworkTimeout indicates the download exceeded its time budget.
	ErrNetworkTimeout = errors.New("network timeout")
)

// videoContainerExts are the container extensions accepted as a valid
// download result.
var videoContainerExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".m4v":  true,
	".avi":  true,
	".flv":  true,
}

// Downloader retrieves source media for a video using yt-dlp as a
// subprocess, capped at 720p height.
type Downloader struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Timeout is the maximum time to wait for the download.
	// Defaults to 25 minutes.
	Timeout time.Duration

	// ExtraArgs are additional arguments to pass to yt-dlp.
	ExtraArgs []string
}

// NewDownloader creates a new yt-dlp based downloader.
func NewDownloader() *Downloader {
	return &Downloader{
		Path:    defaultYtdlpPath,
		Timeout: defaultDownloadTimeout,
	}
}

// Download fetches the source media for videoID into destDir, keyed by
// the video identifier, and returns the path of the downloaded file.
// The operation is a single attempt; a missing or unrecognized output
// file is an error, not something to retry.
func (d *Downloader) Download(ctx context.Context, videoID, destDir string) (string, error) {
	if err := d.checkInstalled(ctx); err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	timeout := d.Timeout
	if timeout == 0 {
		timeout = defaultDownloadTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := downloadArgs(videoID, destDir)
	args = append(args, d.ExtraArgs...)
	args = append(args, "https://www.youtube.com/watch?v="+videoID)

	cmd := exec.CommandContext(cmdCtx, d.path(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("download %s: %w", videoID, ErrNetworkTimeout)
		}
		if cmdCtx.Err() == context.Canceled {
			return "", context.Canceled
		}
		return "", classifyDownloadError(videoID, err, stderr.String())
	}

	path := parsePrintedPath(stdout.String())
	if path == "" {
		// yt-dlp did not print a final path; scan for the keyed file.
		found, ok := findDownloaded(destDir, videoID)
		if !ok {
			return "", fmt.Errorf("download %s: %w", videoID, ErrNoMediaFile)
		}
		path = found
	}

	if !videoContainerExts[strings.ToLower(filepath.Ext(path))] {
		return "", fmt.Errorf("download %s: unrecognized container %q: %w",
			videoID, filepath.Ext(path), ErrNoMediaFile)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("download %s: %w", videoID, ErrNoMediaFile)
	}

	return path, nil
}

// checkInstalled verifies that yt-dlp is available.
func (d *Downloader) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, d.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (d *Downloader) path() string {
	if d.Path != "" {
		return d.Path
	}
	return defaultYtdlpPath
}

// downloadArgs builds the yt-dlp argument list for a 720p-capped
// download keyed by video identifier.
func downloadArgs(videoID, destDir string) []string {
	format := fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best",
		maxDownloadHeight, maxDownloadHeight)
	return []string{
		"-f", format,
		"-o", filepath.Join(destDir, videoID+".%(ext)s"),
		"--no-warnings",
		"--no-playlist",
		"--print", "after_move:filepath",
	}
}

// parsePrintedPath extracts the final filepath from yt-dlp's stdout.
// With --print after_move:filepath the path is the last non-empty line.
func parsePrintedPath(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && strings.Contains(line, string(os.PathSeparator)) {
			return line
		}
	}
	return ""
}

// findDownloaded scans dir for a file named by the video identifier
// with a recognized video container extension.
func findDownloaded(dir, videoID string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if strings.TrimSuffix(name, filepath.Ext(name)) == videoID && videoContainerExts[ext] {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// classifyDownloadError maps yt-dlp stderr patterns onto sentinel errors.
func classifyDownloadError(videoID string, err error, stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "removed"),
		strings.Contains(lower, "does not exist"):
		return fmt.Errorf("download %s: %w", videoID, ErrVideoUnavailable)
	default:
		return fmt.Errorf("download %s: yt-dlp failed: %w: %s", videoID, err, strings.TrimSpace(stderr))
	}
}
