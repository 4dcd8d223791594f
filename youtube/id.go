package youtube

import "regexp"

// videoIDPatterns are tried in order against the raw URL; the first
// capture wins. The order is part of the contract: adjacent URL shapes
// can be matched by more than one pattern and callers rely on the
// earlier pattern taking precedence.
var videoIDPatterns = []*regexp.Regexp{
	// watch?v=TOKEN and any other v= query form
	regexp.MustCompile(`v=([0-9A-Za-z_-]{11})`),
	// bare /TOKEN path segment (covers youtu.be/TOKEN and /shorts/TOKEN)
	regexp.MustCompile(`/([0-9A-Za-z_-]{11})(?:[?&#/]|$)`),
	// /embed/TOKEN
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	// legacy /v/TOKEN and youtu.be/TOKEN
	regexp.MustCompile(`(?:v/|youtu\.be/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID parses a free-form YouTube URL into its canonical
// 11-character video identifier. It returns ok=false when no known URL
// shape matches; partial or malformed identifiers are never returned.
// Pure string parsing, no network access.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}
