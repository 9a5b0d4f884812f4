// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import "io"

// DecompressFunc is any of this package's per-format Decompress functions
// (KosinskiDecompress, ChameleonDecompress, and so on).
type DecompressFunc func(data []byte) ([]byte, error)

// DecompressFromReader reads r to completion and decodes it with decode. It
// does no decoding of its own; maxInputSize, if positive, bounds how much of
// r will be read before giving up with ErrInputTooLarge.
func DecompressFromReader(r io.Reader, maxInputSize int, decode DecompressFunc) ([]byte, error) {
	var src []byte
	var err error
	if maxInputSize > 0 {
		src, err = io.ReadAll(io.LimitReader(r, int64(maxInputSize)+1))
	} else {
		src, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, err
	}

	if maxInputSize > 0 && len(src) > maxInputSize {
		return nil, ErrInputTooLarge
	}

	return decode(src)
}
