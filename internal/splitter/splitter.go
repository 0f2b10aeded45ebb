package splitter

import (
	"strings"
	"unicode/utf8"
)

// Splitter breaks reply text into parts no longer than maxLength bytes
type Splitter struct {
	maxLength int // Maximum part length in bytes
}

// New creates a new message splitter with the specified max length
func New(maxLength int) *Splitter {
	if maxLength < utf8.UTFMax {
		maxLength = utf8.UTFMax
	}
	return &Splitter{
		maxLength: maxLength,
	}
}

// Split breaks a message into parts at word boundaries. A word longer than
// the limit is cut at a punctuation mark if it has one, otherwise at the
// last rune boundary that fits. Whitespace at the cut is dropped.
func (s *Splitter) Split(message string) []string {
	if !s.NeedsSplit(message) {
		return []string{message}
	}

	var parts []string
	remaining := message

	for len(remaining) > 0 {
		if len(remaining) <= s.maxLength {
			parts = append(parts, remaining)
			break
		}

		splitPoint := s.findSplitPoint(remaining)

		part := strings.TrimRight(remaining[:splitPoint], " \t")
		if part != "" {
			parts = append(parts, part)
		}

		remaining = strings.TrimLeft(remaining[splitPoint:], " \t")
	}

	return parts
}

// findSplitPoint returns the cut position for a message longer than maxLength
func (s *Splitter) findSplitPoint(message string) int {
	// Never cut inside a UTF-8 sequence
	limit := s.maxLength
	for limit > 0 && !utf8.RuneStart(message[limit]) {
		limit--
	}

	// A space right at the limit still leaves a full first part
	if message[limit] == ' ' || message[limit] == '\t' {
		return limit
	}

	if i := strings.LastIndexAny(message[:limit], " \t"); i > 0 {
		return i
	}

	if i := strings.LastIndexAny(message[:limit], ",.;:!?"); i >= 0 && i+1 < limit {
		return i + 1
	}

	return limit
}

// NeedsSplit reports whether message is longer than the limit
func (s *Splitter) NeedsSplit(message string) bool {
	return len(message) > s.maxLength
}
