// Package media turns a downloaded source video and a clip selection
// into a finished, captioned clip file using ffmpeg as a subprocess.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"clipbot/clip"
)

const (
	// outputPrefix names finished clips on transient storage.
	outputPrefix = "clip_"

	// maxCaptionLineChars is the word-wrap width for the burned-in
	// caption; drawtext does not wrap on its own.
	maxCaptionLineChars = 28

	// durationSlack tolerates container metadata rounding when
	// validating the selection against the probed media duration.
	durationSlack = 0.5
)

// Sentinel errors for assembly.
var (
	// ErrRangeOutOfBounds indicates the selection lies outside the media's real duration.
	ErrRangeOutOfBounds = errors.New("selection outside media duration")
	// ErrEmptyRange indicates a zero or negative length selection window.
	ErrEmptyRange = errors.New("selection window is empty")
	// ErrNoOutput indicates ffmpeg exited cleanly but produced no file.
	ErrNoOutput = errors.New("no output file produced")
)

// RunFunc executes an external command and returns its stdout.
// It exists so tests can substitute the ffmpeg/ffprobe subprocesses.
type RunFunc func(ctx context.Context, name string, args ...string) (string, error)

// Assembler extracts a sub-range from source media, burns in the
// caption, and renders an H.264/AAC MP4.
type Assembler struct {
	// FFmpegPath is the path to the ffmpeg executable.
	FFmpegPath string
	// FFprobePath is the path to the ffprobe executable.
	FFprobePath string
	// Log receives per-step diagnostics.
	Log hclog.Logger

	run RunFunc
}

// NewAssembler creates an Assembler shelling out to the given binaries.
func NewAssembler(ffmpegPath, ffprobePath string, log hclog.Logger) *Assembler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Assembler{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Log:         log,
		run:         runCommand,
	}
}

// SetRunner replaces the subprocess runner. Used by tests.
func (a *Assembler) SetRunner(run RunFunc) {
	a.run = run
}

// Assemble renders the selected window of sourcePath with the caption
// burned in and returns the finished clip path, named by the video
// identifier next to the source. Every intermediate resource (caption
// text file, partial output) is released on success and failure; a
// returned error guarantees no partial output file remains.
func (a *Assembler) Assemble(ctx context.Context, videoID, sourcePath string, sel clip.Selection) (string, error) {
	duration, err := a.probeDuration(ctx, sourcePath)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", sourcePath, err)
	}

	if err := validateRange(sel, duration); err != nil {
		return "", err
	}

	dir := filepath.Dir(sourcePath)
	captionFile := filepath.Join(dir, videoID+"_caption.txt")
	outPath := filepath.Join(dir, outputPrefix+videoID+".mp4")

	wrapped := wrapCaption(sel.Caption, maxCaptionLineChars)
	if err := os.WriteFile(captionFile, []byte(wrapped), 0644); err != nil {
		return "", fmt.Errorf("write caption file: %w", err)
	}
	defer os.Remove(captionFile)

	a.Log.Debug("rendering clip",
		"video_id", videoID,
		"start", sel.Start,
		"end", sel.End,
		"source", sourcePath,
	)

	args := renderArgs(sourcePath, captionFile, outPath, sel)
	if _, err := a.run(ctx, a.FFmpegPath, args...); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("render clip %s: %w", videoID, err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("render clip %s: %w", videoID, ErrNoOutput)
	}

	return outPath, nil
}

// probeDuration returns the media duration in seconds via ffprobe.
func (a *Assembler) probeDuration(ctx context.Context, path string) (float64, error) {
	out, err := a.run(ctx, a.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}

// validateRange rejects selections the media cannot satisfy. A window
// beyond the real duration means a truncated or corrupt clip, so it
// fails here rather than producing one.
func validateRange(sel clip.Selection, mediaDuration float64) error {
	if sel.End <= sel.Start || sel.Start < 0 {
		return fmt.Errorf("window [%.2f, %.2f]: %w", sel.Start, sel.End, ErrEmptyRange)
	}
	if sel.Start >= mediaDuration || sel.End > mediaDuration+durationSlack {
		return fmt.Errorf("window [%.2f, %.2f] vs duration %.2f: %w",
			sel.Start, sel.End, mediaDuration, ErrRangeOutOfBounds)
	}
	return nil
}

// renderArgs builds the single-pass ffmpeg invocation: seek to the
// window, burn in the caption, and encode to a widely compatible
// H.264 + AAC MP4.
func renderArgs(sourcePath, captionFile, outPath string, sel clip.Selection) []string {
	return []string{
		"-y",
		"-ss", formatSeconds(sel.Start),
		"-to", formatSeconds(sel.End),
		"-i", sourcePath,
		"-vf", drawtextFilter(captionFile),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-movflags", "+faststart",
		outPath,
	}
}

// drawtextFilter renders the caption white with a 3px black border,
// bold sans face, horizontally centered near the bottom of the frame.
// The font size scales with frame height so the wrapped text fills
// roughly the frame width.
func drawtextFilter(captionFile string) string {
	return "drawtext=" + strings.Join([]string{
		"textfile=" + escapeFilterValue(captionFile),
		"fontcolor=white",
		"bordercolor=black",
		"borderw=3",
		"font=Sans Bold",
		"fontsize=h/12",
		"text_align=center",
		"x=(w-text_w)/2",
		"y=h-text_h-(h/20)",
	}, ":")
}

// escapeFilterValue escapes characters that are special inside an
// ffmpeg filter graph value.
func escapeFilterValue(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`,`, `\,`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return r.Replace(s)
}

// formatSeconds renders a float offset for ffmpeg's -ss/-to flags.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// wrapCaption word-wraps text at the given line width. Words longer
// than the width get a line of their own.
func wrapCaption(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n")
}

// runCommand executes a subprocess, returning stdout and attaching
// stderr to any failure.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
