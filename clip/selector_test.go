package clip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipbot/youtube"
)

// makeTranscript builds n contiguous 4-second entries.
func makeTranscript(n int) []youtube.TranscriptEntry {
	entries := make([]youtube.TranscriptEntry, n)
	for i := range entries {
		entries[i] = youtube.TranscriptEntry{
			Text:     fmt.Sprintf("segment %d", i),
			Start:    float64(i) * 4.0,
			Duration: 4.0,
		}
	}
	return entries
}

func TestSelectWindowBounds(t *testing.T) {
	s := NewSelector()
	s.Seed(1)

	entries := makeTranscript(100)
	total := youtube.CoveredDuration(entries)

	for i := 0; i < 200; i++ {
		sel := s.Select(context.Background(), entries)
		require.GreaterOrEqual(t, sel.Start, 0.0)
		require.Less(t, sel.Start, sel.End)
		require.LessOrEqual(t, sel.End, total)
		require.LessOrEqual(t, sel.Duration(), targetClipSeconds)
	}
}

func TestSelectShortTranscriptStartsAtZero(t *testing.T) {
	s := NewSelector()
	s.Seed(42)

	for _, n := range []int{1, 2, 5, 9} {
		entries := makeTranscript(n)
		for i := 0; i < 20; i++ {
			sel := s.Select(context.Background(), entries)
			assert.Equal(t, entries[0].Start, sel.Start, "transcript with %d segments must start at segment 0", n)
		}
	}
}

func TestSelectScenarioFiveSegments(t *testing.T) {
	s := NewSelector()
	s.Seed(7)

	entries := []youtube.TranscriptEntry{
		{Text: "a", Start: 0.0, Duration: 3.0},
		{Text: "b", Start: 3.0, Duration: 3.0},
		{Text: "c", Start: 6.0, Duration: 3.0},
		{Text: "d", Start: 9.0, Duration: 3.0},
		{Text: "e", Start: 12.0, Duration: 3.0},
	}

	sel := s.Select(context.Background(), entries)
	assert.Equal(t, 0.0, sel.Start)
	assert.Equal(t, 15.0, sel.End)
}

func TestSelectCaptionFromPool(t *testing.T) {
	s := NewSelector()
	s.Seed(99)

	entries := makeTranscript(30)
	for i := 0; i < 100; i++ {
		sel := s.Select(context.Background(), entries)
		assert.Contains(t, captionPool, sel.Caption)
	}
}

type recordingAnalyzer struct {
	prompt string
	result string
	err    error
}

func (a *recordingAnalyzer) Analyze(_ context.Context, promptText string) (string, error) {
	a.prompt = promptText
	return a.result, a.err
}

func TestSelectAnalysisResultDoesNotChangeOutcome(t *testing.T) {
	entries := makeTranscript(60)

	withAnalyzer := NewSelector()
	withAnalyzer.Seed(5)
	withAnalyzer.Analyzer = &recordingAnalyzer{result: "use minute three, trust me"}

	without := NewSelector()
	without.Seed(5)

	got := withAnalyzer.Select(context.Background(), entries)
	want := without.Select(context.Background(), entries)

	assert.Equal(t, want, got, "analysis response must not influence the selection yet")
}

func TestSelectAnalysisPromptBounded(t *testing.T) {
	entries := makeTranscript(80)
	analyzer := &recordingAnalyzer{result: "ok"}

	s := NewSelector()
	s.Seed(3)
	s.Analyzer = analyzer

	s.Select(context.Background(), entries)

	require.NotEmpty(t, analyzer.prompt)
	assert.Contains(t, analyzer.prompt, "segment 0")
	assert.Contains(t, analyzer.prompt, "segment 49")
	assert.NotContains(t, analyzer.prompt, "segment 50", "prompt must stop at 50 segments")
}

func TestSelectAnalyzerErrorFallsBack(t *testing.T) {
	entries := makeTranscript(40)

	s := NewSelector()
	s.Seed(11)
	s.Analyzer = &recordingAnalyzer{err: errors.New("model loading")}

	sel := s.Select(context.Background(), entries)
	require.Greater(t, sel.End, sel.Start)
	assert.Contains(t, captionPool, sel.Caption)
}

func TestCaptionPoolIsReasonable(t *testing.T) {
	require.NotEmpty(t, captionPool)
	for _, c := range captionPool {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}
