// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"bytes"
	"testing"
)

// TestSeedKosinskiSingleLiteral: a single byte can only ever be encoded as
// one literal followed immediately by the terminator match (0x00 0xF0
// 0x00), since there is nothing in the (empty) window to match against.
func TestSeedKosinskiSingleLiteral(t *testing.T) {
	compressed, err := KosinskiCompress([]byte{0x41})
	if err != nil {
		t.Fatalf("KosinskiCompress: %v", err)
	}

	want := []byte{0x05, 0x00, 0x41, 0x00, 0xF0, 0x00}
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed: got % x want % x", compressed, want)
	}

	br := NewBitReader(NewStreamFromBytes(compressed), kosinskiReaderBitFieldConfig())
	firstBit, err := br.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if firstBit != 1 {
		t.Fatalf("descriptor's first bit: got %d want 1 (literal)", firstBit)
	}

	got, err := KosinskiDecompress(compressed)
	if err != nil {
		t.Fatalf("KosinskiDecompress: %v", err)
	}
	if !bytes.Equal(got, []byte{0x41}) {
		t.Fatalf("round trip: got % x want 41", got)
	}
}

// TestSeedKosinskiShortRun: a leading literal followed by a run of the same
// byte compresses to something shorter than encoding all six bytes as
// literals (two bytes of descriptor/terminator overhead plus six literal
// bytes plus three terminator bytes = 11), confirming the run is actually
// carried by a match rather than six individual literals.
func TestSeedKosinskiShortRun(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 6)

	compressed, err := KosinskiCompress(data)
	if err != nil {
		t.Fatalf("KosinskiCompress: %v", err)
	}

	const allLiteralsSize = 2 + 6 + 3
	if len(compressed) >= allLiteralsSize {
		t.Fatalf("expected the repeated run to be carried by a match: got %d bytes, want < %d", len(compressed), allLiteralsSize)
	}

	got, err := KosinskiDecompress(compressed)
	if err != nil {
		t.Fatalf("KosinskiDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got % x want % x", got, data)
	}
}

// TestSeedComperIdenticalWords: two identical 16-bit words tie a length-1
// match's cost against a literal's (both 1+16 bits), and the parser's
// documented literal tie-break picks the literal in that case — so the
// second word is encoded as its own literal, not as a match, and the whole
// input becomes literal, literal, terminator.
func TestSeedComperIdenticalWords(t *testing.T) {
	data := []byte{0x12, 0x34, 0x12, 0x34}

	compressed, err := ComperCompress(data)
	if err != nil {
		t.Fatalf("ComperCompress: %v", err)
	}

	want := []byte{0x20, 0x00, 0x12, 0x34, 0x12, 0x34, 0x00, 0x00}
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed: got % x want % x", compressed, want)
	}

	got, err := ComperDecompress(compressed)
	if err != nil {
		t.Fatalf("ComperDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got % x want % x", got, data)
	}
}

// TestSeedGbaRunAfterLiteral: a leading literal followed by an 18-byte run
// of the same value produces a 4-byte header (type 0x10, size 19 little-
// endian) regardless of how the body is encoded, and round-trips to the
// original 19 bytes.
func TestSeedGbaRunAfterLiteral(t *testing.T) {
	data := append([]byte{0x41}, bytes.Repeat([]byte{0x41}, 18)...)
	if len(data) != 19 {
		t.Fatalf("test input length: got %d want 19", len(data))
	}

	compressed, err := GbaCompress(data)
	if err != nil {
		t.Fatalf("GbaCompress: %v", err)
	}

	wantHeader := []byte{0x10, 0x13, 0x00, 0x00}
	if !bytes.Equal(compressed[:4], wantHeader) {
		t.Fatalf("header: got % x want % x", compressed[:4], wantHeader)
	}
	if len(compressed)%4 != 0 {
		t.Fatalf("compressed length %d not 4-byte aligned", len(compressed))
	}

	got, err := GbaDecompress(compressed)
	if err != nil {
		t.Fatalf("GbaDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes want %d bytes", len(got), len(data))
	}
}

// TestSeedModuledKosinskiHeader: an input of length 0x2345 with
// module_size=0x1000 packs a header of size/module_size=2 in the top
// nibble and the 0x345 remainder in the low 12 bits, big-endian — bytes
// 0x23 0x45 — followed by three independently-compressed Kosinski modules
// (two full 0x1000-byte modules and a 0x345-byte tail), with zero padding
// between consecutive modules to a 16-byte boundary measured from the end
// of the header.
func TestSeedModuledKosinskiHeader(t *testing.T) {
	data := make([]byte, 0x2345)
	for i := range data {
		data[i] = byte(i)
	}

	compressed, err := KosinskiModuledCompress(data)
	if err != nil {
		t.Fatalf("KosinskiModuledCompress: %v", err)
	}

	wantHeader := []byte{0x23, 0x45}
	if !bytes.Equal(compressed[:2], wantHeader) {
		t.Fatalf("header: got % x want % x", compressed[:2], wantHeader)
	}

	got, err := KosinskiModuledDecompress(compressed)
	if err != nil {
		t.Fatalf("KosinskiModuledDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes want %d bytes", len(got), len(data))
	}
}

// TestSeedEnigmaIncrementingWords: four consecutive incrementing 16-bit
// words (0,1,2,3) all fit in an 11-bit inline value with no render-flag
// bits set (their bitwise OR is 3, needing 2 bits, with nothing above bit
// 10 set), so the whole input becomes a single increment-run command
// (type 5, length-1=3, inline_value=0) following the 6-byte header (bit-
// width 2, flags mask 0, two zeroed persisted-state words).
func TestSeedEnigmaIncrementingWords(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03}

	compressed, err := EnigmaCompress(data)
	if err != nil {
		t.Fatalf("EnigmaCompress: %v", err)
	}

	want := []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xA6, 0x7F}
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed: got % x want % x", compressed, want)
	}

	got, err := EnigmaDecompress(compressed)
	if err != nil {
		t.Fatalf("EnigmaDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got % x want % x", got, data)
	}
}
