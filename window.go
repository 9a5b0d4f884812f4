// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// dummyIndex is the sentinel "no node" value used throughout the window's
// linked lists, matching clownlzss.c's `const size_t DUMMY = -1`.
const dummyIndex = -1

// matchWindow is the bucketed sliding-window string index the optimal
// parser uses to enumerate every candidate match at each position. It
// keeps, for each possible first byte, a most-recent-first linked list of
// window positions starting with that byte; matches are found by walking
// the list for the current position's first byte and extending byte by
// byte. Grounded on clownlzss.c's buffer/bytes/prev/next arrays, restructured
// as a named Go type in the style of the teacher's slidingWindowDict (one
// struct holding ring-buffer state plus per-slot arrays, grouped fields,
// small single-purpose methods).
type matchWindow struct {
	maxDistance int // window size in values (maximum_match_distance)

	// bytes[slot] is the absolute value-index currently occupying the
	// window slot; prev/next thread the doubly-linked list for the
	// first-byte bucket that slot currently belongs to.
	bytes []int
	prev  []int
	next  []int

	// heads[b] is the most-recently-inserted window slot whose value
	// starts with first byte b (256 buckets, one per possible byte).
	heads []int
}

// newMatchWindow allocates a window sized for maxDistance values.
func newMatchWindow(maxDistance int) *matchWindow {
	w := &matchWindow{
		maxDistance: maxDistance,
		bytes:       make([]int, maxDistance),
		prev:        make([]int, maxDistance),
		next:        make([]int, maxDistance),
		heads:       make([]int, 0x100),
	}

	for b := range w.heads {
		w.heads[b] = dummyIndex
	}
	for i := range w.prev {
		w.prev[i] = dummyIndex
	}

	return w
}

// head returns the list head for the bucket matching firstByte.
func (w *matchWindow) head(firstByte byte) int {
	return w.heads[firstByte]
}

// linkAtHead inserts slot at the front of firstByte's bucket list. Split
// out from insert so the "prev" sentinel for head-of-bucket nodes (encoded
// as a negative, out-of-range marker in the C original via a combined
// array) stays an explicit, ordinary field here instead of an aliasing
// trick: Go has no reason to combine the head array with the node array.
func (w *matchWindow) linkAtHead(slot int, firstByte byte) {
	oldHead := w.heads[firstByte]

	w.prev[slot] = headMarker(firstByte)
	w.next[slot] = oldHead
	if oldHead != dummyIndex {
		w.prev[oldHead] = slot
	}
	w.heads[firstByte] = slot
}

// headMarker is a sentinel "this node's prev is the bucket head, not
// another node" value, distinct from dummyIndex and from any valid slot
// index (slot indices are always >= 0).
func headMarker(firstByte byte) int {
	return -2 - int(firstByte)
}

func isHeadMarker(v int) bool {
	return v <= -2
}

// remove detaches window slot i%maxDistance from whatever bucket list it
// is currently linked into. Called just before insert() overwrites the
// slot with a new value, matching clownlzss.c's detach-then-reinsert
// window maintenance.
func (w *matchWindow) remove(i int) {
	slot := i % w.maxDistance
	if w.prev[slot] == dummyIndex {
		return
	}

	if isHeadMarker(w.prev[slot]) {
		firstByte := byte(-2 - w.prev[slot])
		w.heads[firstByte] = w.next[slot]
	} else {
		w.next[w.prev[slot]] = w.next[slot]
	}

	if w.next[slot] != dummyIndex {
		w.prev[w.next[slot]] = w.prev[slot]
	}

	w.prev[slot] = dummyIndex
}

// advance retires the value that currently occupies the slot about to be
// reused for position i, then installs i into that slot at the head of
// its own bucket. This is the per-step window update the parser calls
// once per value processed.
func (w *matchWindow) advance(i int, firstByte byte) {
	slot := i % w.maxDistance
	w.remove(i)
	w.bytes[slot] = i
	w.linkAtHead(slot, firstByte)
}

// valueAt returns the value-index stored in window slot.
func (w *matchWindow) valueAt(slot int) int {
	return w.bytes[slot]
}
