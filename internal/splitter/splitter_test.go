package splitter

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_PlainText(t *testing.T) {
	s := New(50)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "short message",
			input:    "Hello world",
			expected: []string{"Hello world"},
		},
		{
			name:     "exactly at limit",
			input:    strings.Repeat("a", 50),
			expected: []string{strings.Repeat("a", 50)},
		},
		{
			name:     "needs split at word boundary",
			input:    "Hello world this is a test message that needs to be split",
			expected: []string{"Hello world this is a test message that needs to", "be split"},
		},
		{
			name:     "space exactly at limit",
			input:    strings.Repeat("a", 50) + " tail",
			expected: []string{strings.Repeat("a", 50), "tail"},
		},
		{
			name:     "long word cut at punctuation",
			input:    strings.Repeat("a", 30) + "," + strings.Repeat("b", 30),
			expected: []string{strings.Repeat("a", 30) + ",", strings.Repeat("b", 30)},
		},
		{
			name:     "long word hard cut",
			input:    strings.Repeat("x", 120),
			expected: []string{strings.Repeat("x", 50), strings.Repeat("x", 50), strings.Repeat("x", 20)},
		},
		{
			name:     "empty message",
			input:    "",
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Split(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("Split() returned %d parts, want %d", len(result), len(tt.expected))
				t.Errorf("Got: %v", result)
				return
			}
			for i, part := range result {
				if part != tt.expected[i] {
					t.Errorf("Split()[%d] = %q, want %q", i, part, tt.expected[i])
				}
			}
		})
	}
}

func TestSplit_Bounds(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 200),
		strings.Repeat("ünïcödé ", 90),
		strings.Repeat("日本語", 100),
		"Why do programmers prefer dark mode? Because light attracts bugs. " + strings.Repeat("ha", 300),
	}

	for _, max := range []int{10, 37, 400} {
		s := New(max)
		for _, input := range inputs {
			parts := s.Split(input)
			var rebuilt []string
			for i, part := range parts {
				if len(part) > max {
					t.Errorf("max %d: part %d has %d bytes", max, i, len(part))
				}
				if !utf8.ValidString(part) {
					t.Errorf("max %d: part %d is not valid UTF-8: %q", max, i, part)
				}
				rebuilt = append(rebuilt, strings.Fields(part)...)
			}
			if got, want := strings.Join(rebuilt, ""), strings.Join(strings.Fields(input), ""); got != want {
				t.Errorf("max %d: parts lost text", max)
			}
		}
	}
}

func TestNeedsSplit(t *testing.T) {
	s := New(10)

	if s.NeedsSplit("short") {
		t.Error("NeedsSplit(short) = true, want false")
	}
	if !s.NeedsSplit("this is longer than ten") {
		t.Error("NeedsSplit(long) = false, want true")
	}
}

func TestNew_MinimumLength(t *testing.T) {
	s := New(0)
	if s.NeedsSplit(strings.Repeat("a", utf8.UTFMax)) {
		t.Errorf("New(0) splits %d bytes, want a floor of utf8.UTFMax", utf8.UTFMax)
	}
	if !s.NeedsSplit(strings.Repeat("a", utf8.UTFMax+1)) {
		t.Errorf("New(0) keeps %d bytes in one part", utf8.UTFMax+1)
	}
}

func TestPartialSendFailure(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewPartialSendFailure(1, 3, cause)

	if !errors.Is(err, cause) {
		t.Error("PartialSendFailure should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "sent 1 of 3 parts") {
		t.Errorf("Error() = %q, want part counts", err.Error())
	}
}
