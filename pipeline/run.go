// Package pipeline sequences the clip stages: identify the video,
// fetch its transcript, select a window, assemble the clip, and
// deliver it. One job runs end-to-end per invocation; each stage maps
// its failure onto a user-visible status message.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"clipbot/clip"
	"clipbot/youtube"
)

// State names a position in the linear run state machine.
type State string

// The run advances Start → IDExtracted → TranscriptFetched →
// ClipSelected → MediaAssembled → Delivered; Failed is absorbing and
// reachable from every state.
const (
	StateStart             State = "start"
	StateIDExtracted       State = "id_extracted"
	StateTranscriptFetched State = "transcript_fetched"
	StateClipSelected      State = "clip_selected"
	StateMediaAssembled    State = "media_assembled"
	StateDelivered         State = "delivered"
	StateFailed            State = "failed"
)

// Reason identifies why a run failed.
type Reason string

const (
	ReasonInvalidURL    Reason = "invalid-url"
	ReasonNoTranscript  Reason = "no-transcript"
	ReasonAssemblyError Reason = "assembly-error"
)

// ErrInvalidInput marks failures the caller should treat as a fatal
// configuration problem (nonzero exit) rather than a clean run.
var ErrInvalidInput = errors.New("invalid input")

// TranscriptFetcher retrieves a time-coded transcript for a video.
type TranscriptFetcher interface {
	FetchCaptions(ctx context.Context, videoID, langCode string) ([]youtube.TranscriptEntry, error)
}

// MediaDownloader retrieves source media for a video into a directory.
type MediaDownloader interface {
	Download(ctx context.Context, videoID, destDir string) (string, error)
}

// ClipSelector chooses a window and caption from a transcript.
type ClipSelector interface {
	Select(ctx context.Context, entries []youtube.TranscriptEntry) clip.Selection
}

// MediaAssembler renders the selected window with the caption burned in.
type MediaAssembler interface {
	Assemble(ctx context.Context, videoID, sourcePath string, sel clip.Selection) (string, error)
}

// Notifier delivers status text and the finished clip.
type Notifier interface {
	SendText(ctx context.Context, chatID, text string) bool
	SendVideo(ctx context.Context, chatID, filePath, caption string) bool
}

// MetadataFetcher looks up video metadata. Optional.
type MetadataFetcher interface {
	FetchVideo(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
}

// Result describes how a run ended.
type Result struct {
	// State is the terminal state of the run.
	State State
	// Reason is set when State is StateFailed.
	Reason Reason
	// VideoID is the extracted identifier, when one was found.
	VideoID string
	// Delivered reports whether the final clip upload succeeded.
	Delivered bool
}

// Pipeline wires the stages together.
type Pipeline struct {
	Transcripts TranscriptFetcher
	Downloader  MediaDownloader
	Selector    ClipSelector
	Assembler   MediaAssembler
	Notifier    Notifier

	// Metadata is optional; when nil, status messages use the bare
	// video identifier.
	Metadata MetadataFetcher

	// WorkDir is the parent for per-run scratch directories.
	WorkDir string

	Log hclog.Logger
}

// Run executes one job end-to-end. Business failures (bad URL, no
// transcript, assembly problems) are reported to the chat and returned
// as a Failed result; the error return is reserved for invalid input
// and unexpected internal failures. A failed clip delivery does not
// fail the run: delivery is best-effort and only reflected in the
// final status message and Result.Delivered.
func (p *Pipeline) Run(ctx context.Context, rawURL, chatID string) (*Result, error) {
	log := p.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}

	// Start → IDExtracted
	videoID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		log.Error("no video id in url", "url", rawURL)
		p.Notifier.SendText(ctx, chatID, msgInvalidURL)
		return &Result{State: StateFailed, Reason: ReasonInvalidURL},
			fmt.Errorf("url %q: %w", rawURL, ErrInvalidInput)
	}
	result := &Result{State: StateIDExtracted, VideoID: videoID}
	log.Info("video identified", "video_id", videoID)

	title := videoID
	var meta *youtube.VideoMetadata
	if p.Metadata != nil {
		m, err := p.Metadata.FetchVideo(ctx, videoID)
		if err != nil {
			log.Warn("metadata lookup failed", "video_id", videoID, "error", err)
		} else {
			meta = m
			title = m.Title
		}
	}
	p.Notifier.SendText(ctx, chatID, msgWorkingOn(title))

	// IDExtracted → TranscriptFetched
	entries, err := p.Transcripts.FetchCaptions(ctx, videoID, "")
	if err != nil || len(entries) == 0 {
		// Deliberately lossy: a missing transcript and a transient
		// fetch failure present the same terminal state to the user.
		log.Warn("transcript unavailable", "video_id", videoID, "error", err)
		p.Notifier.SendText(ctx, chatID, msgNoTranscript)
		result.State = StateFailed
		result.Reason = ReasonNoTranscript
		return result, nil
	}
	result.State = StateTranscriptFetched
	log.Info("transcript fetched", "video_id", videoID, "segments", len(entries))
	p.Notifier.SendText(ctx, chatID, msgTranscriptFetched)

	// TranscriptFetched → ClipSelected; total on non-empty input.
	sel := p.Selector.Select(ctx, entries)
	if meta != nil && meta.Duration > 0 {
		sel = clampSelection(sel, meta.Duration.Seconds(), log)
	}
	result.State = StateClipSelected
	log.Info("clip selected",
		"video_id", videoID,
		"start", sel.Start,
		"end", sel.End,
		"caption", sel.Caption,
	)
	p.Notifier.SendText(ctx, chatID, msgSelected(sel.Duration()))

	// ClipSelected → MediaAssembled
	runDir, err := p.makeRunDir(videoID)
	if err != nil {
		// The user already saw progress text; tell them the run died
		// even though this error propagates as unhandled.
		p.Notifier.SendText(ctx, chatID, msgInternalError)
		return result, fmt.Errorf("create run directory: %w", err)
	}
	defer os.RemoveAll(runDir)

	sourcePath, err := p.Downloader.Download(ctx, videoID, runDir)
	if err != nil {
		log.Error("media download failed", "video_id", videoID, "error", err)
		p.Notifier.SendText(ctx, chatID, msgDownloadFailed)
		result.State = StateFailed
		result.Reason = ReasonAssemblyError
		return result, nil
	}

	clipPath, err := p.Assembler.Assemble(ctx, videoID, sourcePath, sel)
	if err != nil {
		log.Error("clip assembly failed", "video_id", videoID, "error", err)
		p.Notifier.SendText(ctx, chatID, msgAssemblyFailed)
		result.State = StateFailed
		result.Reason = ReasonAssemblyError
		return result, nil
	}
	result.State = StateMediaAssembled
	log.Info("clip assembled", "video_id", videoID, "path", clipPath)

	// MediaAssembled → Delivered; attempted exactly once.
	p.Notifier.SendText(ctx, chatID, msgUploading)
	result.Delivered = p.Notifier.SendVideo(ctx, chatID, clipPath, sel.Caption)
	result.State = StateDelivered

	if result.Delivered {
		p.Notifier.SendText(ctx, chatID, msgDelivered)
	} else {
		log.Warn("clip delivery failed", "video_id", videoID)
		p.Notifier.SendText(ctx, chatID, msgDeliveryFailed)
	}

	return result, nil
}

// clampSelection trims a window that runs past the video duration
// reported by the metadata lookup. Transcripts sometimes cover a few
// seconds more than the actual media; trimming here keeps assembly
// from rejecting the range outright. A start past the reported
// duration is left alone for assembly to judge against the real file.
func clampSelection(sel clip.Selection, videoSeconds float64, log hclog.Logger) clip.Selection {
	if sel.End <= videoSeconds {
		return sel
	}
	log.Warn("selection runs past reported video duration",
		"start", sel.Start,
		"end", sel.End,
		"video_seconds", videoSeconds,
	)
	if sel.Start < videoSeconds {
		sel.End = videoSeconds
	}
	return sel
}

// makeRunDir creates a run-scoped scratch directory so concurrent runs
// on the same video cannot collide on transient file paths.
func (p *Pipeline) makeRunDir(videoID string) (string, error) {
	parent := p.WorkDir
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, fmt.Sprintf("clipbot-%s-%s", videoID, uuid.NewString()[:8]))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
