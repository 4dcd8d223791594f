// Package clip chooses the highlight window and caption for a
// transcript. Selection is total on non-empty transcripts: it always
// produces a valid window, falling back to a random strategy whenever
// external analysis is unavailable or fails.
package clip

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"clipbot/youtube"
)

const (
	// targetClipSeconds is the desired clip length; the window is
	// clamped to the transcript's covered duration.
	targetClipSeconds = 40.0

	// maxPromptSegments bounds how much transcript text is sent to the
	// analysis collaborator.
	maxPromptSegments = 50

	// windowTailSegments keeps the random start away from the very end
	// of the transcript so the window has room to grow.
	windowTailSegments = 10
)

// Selection is the chosen time window and caption for the final clip.
// Invariant: 0 <= Start < End <= transcript covered duration.
type Selection struct {
	// Start is the clip start offset in seconds.
	Start float64
	// End is the clip end offset in seconds.
	End float64
	// Caption is the text burned into the clip.
	Caption string
}

// Duration returns the selected window length in seconds.
func (s Selection) Duration() float64 {
	return s.End - s.Start
}

// Analyzer is the optional external text-analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, promptText string) (string, error)
}

// Selector picks a clip window from a transcript.
type Selector struct {
	// Analyzer, when non-nil, is consulted with a transcript excerpt
	// before the window is chosen.
	Analyzer Analyzer

	// Log receives analysis outcomes; selection itself never fails.
	Log hclog.Logger

	rng *rand.Rand
}

// NewSelector creates a Selector seeded from the current time.
func NewSelector() *Selector {
	return &Selector{
		Log: hclog.NewNullLogger(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed reseeds the random source. Used by tests for reproducibility.
func (s *Selector) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Select chooses a window and caption for the given transcript.
// The transcript must be non-empty; callers reject empty transcripts
// before selection.
func (s *Selector) Select(ctx context.Context, entries []youtube.TranscriptEntry) Selection {
	if s.Analyzer != nil {
		s.analyzeExcerpt(ctx, entries)
	}
	return s.randomSelection(entries)
}

// analyzeExcerpt sends the opening transcript text to the analysis
// collaborator. The response does not influence the window yet: the
// model's highlight output has no stable timestamp format, so the
// result is only logged and selection proceeds randomly.
// TODO: map the analysis response onto a start offset once the model
// output format settles.
func (s *Selector) analyzeExcerpt(ctx context.Context, entries []youtube.TranscriptEntry) {
	n := len(entries)
	if n > maxPromptSegments {
		n = maxPromptSegments
	}

	texts := make([]string, 0, n)
	for _, entry := range entries[:n] {
		texts = append(texts, entry.Text)
	}
	prompt := strings.Join(texts, " ")

	result, err := s.Analyzer.Analyze(ctx, prompt)
	if err != nil {
		s.Log.Warn("transcript analysis failed, using random selection", "error", err)
		return
	}
	s.Log.Debug("transcript analysis response", "result", result)
}

// randomSelection picks a uniform random start segment, leaving
// windowTailSegments of headroom, and clamps the 40-second target
// window to the transcript's covered duration.
func (s *Selector) randomSelection(entries []youtube.TranscriptEntry) Selection {
	idx := 0
	if span := len(entries) - windowTailSegments; span > 0 {
		idx = s.rng.Intn(span + 1)
	}

	start := entries[idx].Start
	end := math.Min(start+targetClipSeconds, youtube.CoveredDuration(entries))

	return Selection{
		Start:   start,
		End:     end,
		Caption: captionPool[s.rng.Intn(len(captionPool))],
	}
}
