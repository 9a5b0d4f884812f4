// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"bytes"
	"math/rand"
	"testing"
)

// roundtripInputSet returns named test inputs exercising the shapes every
// format's parser and opcode encoding need to handle: a single value
// (empty input is covered by TestRoundTripAllFormatsRejectEmptyInput), short literal runs, long repeated runs (forcing matches), and
// pseudo-random bytes (forcing a mix of literals and matches of varying
// length and distance).
func roundtripInputSet() map[string][]byte {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 513)
	for i := range random {
		random[i] = byte(rng.Intn(256))
	}

	repeated := bytes.Repeat([]byte{0xAB}, 300)

	cycle := make([]byte, 256)
	for i := range cycle {
		cycle[i] = byte(i)
	}
	cycle = bytes.Repeat(cycle, 4)

	return map[string][]byte{
		"single-byte":      {0x41},
		"short-text":       []byte("the quick brown fox jumps over the lazy dog"),
		"repeated-pattern": repeated,
		"byte-cycle":       cycle,
		"random":           random,
	}
}

// evenByteInputSet is roundtripInputSet restricted/adjusted to even lengths,
// for the word-oriented formats (Comper, Enigma) that reject odd input.
func evenByteInputSet() map[string][]byte {
	out := map[string][]byte{}
	for name, data := range roundtripInputSet() {
		if len(data)%2 != 0 {
			data = append(data, 0x00)
		}
		out[name] = data
	}
	return out
}

type roundtripFormat struct {
	name       string
	even       bool // requires even-length input
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

func roundtripFormats() []roundtripFormat {
	return []roundtripFormat{
		{"kosinski", false, KosinskiCompress, KosinskiDecompress},
		{"kosinski-plus", false, KosinskiPlusCompress, KosinskiPlusDecompress},
		{"comper", true, ComperCompress, ComperDecompress},
		{"chameleon", false, ChameleonCompress, ChameleonDecompress},
		{"faxman", false, FaxmanCompress, FaxmanDecompress},
		{"saxman-header", false, SaxmanCompressWithHeader, SaxmanDecompressWithHeader},
		{"saxman-no-header", false, SaxmanCompressWithoutHeader, SaxmanDecompressWithoutHeader},
		{"rocket", false, RocketCompress, RocketDecompress},
		{"rage", false, RageCompress, RageDecompress},
		{"enigma", true, EnigmaCompress, EnigmaDecompress},
		{"gba", false, GbaCompress, GbaDecompress},
		{"gba-vram-safe", false, GbaVRAMSafeCompress, GbaDecompress},
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	for _, f := range roundtripFormats() {
		f := f
		t.Run(f.name, func(t *testing.T) {
			inputs := roundtripInputSet()
			if f.even {
				inputs = evenByteInputSet()
			}

			for name, data := range inputs {
				data := data
				t.Run(name, func(t *testing.T) {
					compressed, err := f.compress(data)
					if err != nil {
						t.Fatalf("compress: %v", err)
					}

					got, err := f.decompress(compressed)
					if err != nil {
						t.Fatalf("decompress: %v", err)
					}

					if !bytes.Equal(got, data) {
						t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(data))
					}
				})
			}
		})
	}
}

func TestRoundTripAllFormatsRejectEmptyInput(t *testing.T) {
	for _, f := range roundtripFormats() {
		f := f
		t.Run(f.name, func(t *testing.T) {
			if _, err := f.compress(nil); err == nil {
				t.Fatalf("expected error compressing empty input")
			}
		})
	}
}

type moduledFormat struct {
	name       string
	even       bool
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

func moduledFormats() []moduledFormat {
	return []moduledFormat{
		{"kosinski", false, KosinskiModuledCompress, KosinskiModuledDecompress},
		{"kosinski-plus", false, func(d []byte) ([]byte, error) { return KosinskiPlusModuledCompress(d, 0x1000) },
			func(d []byte) ([]byte, error) { return KosinskiPlusModuledDecompress(d, 0x1000) }},
		{"comper", true, ComperModuledCompress, ComperModuledDecompress},
		{"chameleon", false, ChameleonModuledCompress, ChameleonModuledDecompress},
		{"faxman", false, FaxmanModuledCompress, FaxmanModuledDecompress},
		{"saxman", false, SaxmanModuledCompress, SaxmanModuledDecompress},
		{"rocket", false, RocketModuledCompress, RocketModuledDecompress},
		{"rage", false, RageModuledCompress, RageModuledDecompress},
		{"enigma", true, func(d []byte) ([]byte, error) { return EnigmaModuledCompress(d, 0x1000) },
			func(d []byte) ([]byte, error) { return EnigmaModuledDecompress(d, 0x1000) }},
		{"gba", false, func(d []byte) ([]byte, error) { return GbaModuledCompress(d, 0x1000) },
			func(d []byte) ([]byte, error) { return GbaModuledDecompress(d, 0x1000) }},
	}
}

// TestModuledRoundTripAllFormats exercises the chunking wrapper with input
// spanning multiple modules (module size 0x1000, input over 3x that), since
// single-module inputs wouldn't exercise the header's module-count field or
// the inter-module alignment padding.
func TestModuledRoundTripAllFormats(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, 0x1000*3+0x123)
	for i := range data {
		// Biased toward repetition so matches span and straddle module
		// boundaries, not just literal runs.
		if i > 0 && rng.Intn(4) != 0 {
			data[i] = data[i-1]
		} else {
			data[i] = byte(rng.Intn(256))
		}
	}

	for _, f := range moduledFormats() {
		f := f
		t.Run(f.name, func(t *testing.T) {
			input := data
			if f.even && len(input)%2 != 0 {
				input = append(append([]byte{}, input...), 0x00)
			}

			compressed, err := f.compress(input)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}

			got, err := f.decompress(compressed)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}

			if !bytes.Equal(got, input) {
				t.Fatalf("moduled round trip mismatch: got %d bytes, want %d bytes", len(got), len(input))
			}
		})
	}
}
