// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"math/rand"
	"testing"
)

// TestBitFieldRoundTrip exercises every {Width, RefillWhen, Endian}
// combination this package actually uses, paired with a writer/reader
// Position pairing opposite to each other: a writer that pushes bits into
// one end of a word must be read back by a reader popping from the other
// end (the same push-high/pop-low or push-low/pop-high pairing every
// format codec in this package uses), since a writer that fills a word
// by repeatedly shifting it toward one end reverses the bit order seen by
// a reader that drains from that same end.
func TestBitFieldRoundTrip(t *testing.T) {
	widths := []int{1, 2}
	refills := []RefillWhen{BeforeAccess, AfterAccess}
	endians := []Endian{BigEndian, LittleEndian}
	pairings := []struct{ writer, reader BitPosition }{
		{Low, High},
		{High, Low},
	}

	rng := rand.New(rand.NewSource(1))

	for _, width := range widths {
		for _, refill := range refills {
			for _, endian := range endians {
				for _, pairing := range pairings {
					writerCfg := BitFieldConfig{Width: width, RefillWhen: refill, Position: pairing.writer, Endian: endian}
					readerCfg := BitFieldConfig{Width: width, RefillWhen: refill, Position: pairing.reader, Endian: endian}

					bits := make([]uint, 200)
					for i := range bits {
						bits[i] = uint(rng.Intn(2))
					}

					out := NewStream(64)
					bw := NewBitWriter(out, writerCfg)
					for _, b := range bits {
						bw.Push(b)
					}
					bw.Finish()

					in := NewStreamFromBytes(out.Bytes())
					br := NewBitReader(in, readerCfg)
					for i, want := range bits {
						got, err := br.Pop()
						if err != nil {
							t.Fatalf("width=%d refill=%v pairing=%v endian=%v: Pop at %d: %v", width, refill, pairing, endian, i, err)
						}
						if got != want {
							t.Fatalf("width=%d refill=%v pairing=%v endian=%v: bit %d: got %d want %d", width, refill, pairing, endian, i, got, want)
						}
					}
				}
			}
		}
	}
}

// TestBitFieldPushNPopN checks multi-bit fields round-trip MSB-first.
func TestBitFieldPushNPopN(t *testing.T) {
	writerCfg := BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
	readerCfg := BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}

	values := []struct {
		v uint
		n uint
	}{
		{0x5, 3},
		{0x0, 4},
		{0xF, 4},
		{0x2A, 6},
	}

	out := NewStream(16)
	bw := NewBitWriter(out, writerCfg)
	for _, tc := range values {
		bw.PushN(tc.v, tc.n)
	}
	bw.Finish()

	in := NewStreamFromBytes(out.Bytes())
	br := NewBitReader(in, readerCfg)
	for i, tc := range values {
		got, err := br.PopN(tc.n)
		if err != nil {
			t.Fatalf("field %d: %v", i, err)
		}
		if got != tc.v {
			t.Fatalf("field %d: got %#x want %#x", i, got, tc.v)
		}
	}
}

// TestDescriptorWriterDeferredPlacement confirms a descriptor writer
// reserves its placeholder word immediately and patches it in place once
// filled, rather than writing bits inline where they're pushed.
func TestDescriptorWriterDeferredPlacement(t *testing.T) {
	cfg := BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}

	out := NewStream(16)
	bw := NewDescriptorWriter(out, cfg)

	bw.Push(1)
	_ = out.WriteByte(0xAB) // payload interleaved with descriptor bits
	bw.Push(0)
	bw.Finish()

	b := out.Bytes()
	if len(b) != 2 {
		t.Fatalf("expected 2 bytes, got %d: % x", len(b), b)
	}
	if b[0] != 0x01 {
		t.Fatalf("descriptor word patched wrong: got %#x want %#x", b[0], 0x01)
	}
	if b[1] != 0xAB {
		t.Fatalf("payload byte displaced: got %#x want %#x", b[1], 0xAB)
	}
}
