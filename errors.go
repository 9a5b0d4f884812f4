// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every format's encoder and decoder.
var (
	// ErrEmptyInput is returned when Compress is called with no data.
	ErrEmptyInput = errors.New("lzss: empty input")
	// ErrInputOverrun is returned when a decoder reads past the end of its input stream.
	ErrInputOverrun = errors.New("lzss: input overrun")
	// ErrOutputOverrun reports a write past an expected output bound. No
	// decoder in this package returns it: GBA and Rocket stop at their
	// declared output size instead.
	ErrOutputOverrun = errors.New("lzss: output overrun")
	// ErrLookBehindUnderrun is returned when a back-reference points before the start of output.
	ErrLookBehindUnderrun = errors.New("lzss: lookbehind underrun")
	// ErrUnexpectedEOF reports a stream that ends before its terminator. No
	// decoder in this package returns it: that case surfaces as a
	// FormatError wrapping ErrInputOverrun.
	ErrUnexpectedEOF = errors.New("lzss: unexpected end of input, no terminator found")
	// ErrInputTooLarge is returned by DecompressFromReader when the reader
	// holds more than its maxInputSize bytes.
	ErrInputTooLarge = errors.New("lzss: input too large for this format")
	// ErrOddLength is returned by word-oriented formats (Comper) given an odd-length input.
	ErrOddLength = errors.New("lzss: input length must be even")
	// ErrCompressInternal is returned when the optimal parser or a codec hits an
	// invariant violation. Callers can check with errors.Is(err, lzss.ErrCompressInternal).
	ErrCompressInternal = errors.New("lzss: internal compressor error")
)

// FormatError wraps a sentinel error with the byte position at which it
// occurred, in the position-reporting style the reference decoders use
// for diagnostics.
type FormatError struct {
	Format string
	Pos    int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("lzss: %s: %s (at byte %d)", e.Format, e.Err, e.Pos)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newFormatError(format string, pos int, err error) error {
	return &FormatError{Format: format, Pos: pos, Err: err}
}
