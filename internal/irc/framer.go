package irc

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	boterrors "github.com/yourusername/ludbot/internal/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var lineTerminator = []byte("\r\n")

// Codec converts between protocol text and bytes in the session encoding
type Codec struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// NewCodec resolves an encoding label such as "utf-8" or "latin1"
func NewCodec(label string) (*Codec, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return &Codec{name: name, enc: enc, utf8: name == "utf-8"}, nil
}

// Name returns the canonical encoding name
func (c *Codec) Name() string {
	return c.name
}

// Decode converts one line to a string. Invalid input is a FramingError.
func (c *Codec) Decode(line []byte) (string, error) {
	if c.utf8 {
		if !utf8.Valid(line) {
			return "", boterrors.NewFramingError(c.name, fmt.Errorf("invalid byte sequence in %q", line))
		}
		return string(line), nil
	}
	out, err := c.enc.NewDecoder().Bytes(line)
	if err != nil {
		return "", boterrors.NewFramingError(c.name, err)
	}
	return string(out), nil
}

// Encode converts outbound text to bytes
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.utf8 {
		return []byte(s), nil
	}
	return c.enc.NewEncoder().Bytes([]byte(s))
}

// Framer splits a byte stream into protocol lines. Bytes after the last
// terminator are kept until a later Feed completes the line.
type Framer struct {
	codec *Codec
	buf   []byte
}

// NewFramer creates a Framer decoding lines with codec
func NewFramer(codec *Codec) *Framer {
	return &Framer{codec: codec}
}

// Feed appends data and returns the complete lines now available. The
// sequence is lazy: lines are taken from the buffer as they are yielded, and
// any the caller does not consume are returned by the next Feed. Empty lines
// are skipped. A decoding failure yields a FramingError and drops that line.
func (f *Framer) Feed(data []byte) iter.Seq2[string, error] {
	f.buf = append(f.buf, data...)

	return func(yield func(string, error) bool) {
		for {
			idx := bytes.Index(f.buf, lineTerminator)
			if idx < 0 {
				return
			}
			raw := f.buf[:idx]
			f.buf = f.buf[idx+len(lineTerminator):]
			if len(raw) == 0 {
				continue
			}

			line, err := f.codec.Decode(raw)
			if !yield(line, err) {
				return
			}
		}
	}
}

// Reset drops any partial line
func (f *Framer) Reset() {
	f.buf = nil
}
