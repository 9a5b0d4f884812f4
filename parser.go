// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import "math"

// infiniteCost stands in for clownlzss.c's use of (size_t)-1 as "no path
// found yet": that code relies on unsigned wraparound making -1 compare
// greater than any real cost. Go ints don't wrap that way, so a plain
// "larger than anything real" sentinel does the same job explicitly.
const infiniteCost = math.MaxInt32

// graphEdge is one node's best-known incoming edge during the shortest-path
// relaxation pass: either a literal (matchOffset == literalSource) or a
// back-reference from matchOffset. Grounded on clownlzss.h's
// ClownLZSS_GraphEdge; Go keeps matches in a separate slice after the pass
// instead of reusing this array's storage via a pointer cast, per the
// reference implementation's own caveat that the aliasing trick is an
// unsafe convenience, not a requirement of the algorithm.
type graphEdge struct {
	cost         int
	previousNode int
	nextNode     int
	matchOffset  int
}

// ExtraMatchesFunc lets a format inject synthetic candidate edges at
// position i beyond what the sliding-window search finds on its own
// (Saxman/Faxman's zero-fill runs, Rage's RLE and uncompressed-run
// candidates). It receives the node array so it can relax node[i+len].cost
// exactly like the main search loop does.
type ExtraMatchesFunc func(data []byte, totalValues, i int, nodes []graphEdge)

// MatchCostFunc returns the bit cost of encoding a match of the given
// distance (in values) and length (in values), or 0 if no such match is
// representable by the format (making it ineligible).
type MatchCostFunc func(distance, length int) int

// ParserConfig bundles the knobs clownlzss.c's ClownLZSS_Compress takes as
// parameters: per spec.md's Design Notes, this is a plain runtime struct
// rather than a C++-template instantiation, since the per-value branch
// cost of reading these fields is negligible next to the match search.
type ParserConfig struct {
	BytesPerValue        int
	MaximumMatchLength   int
	MaximumMatchDistance int
	LiteralCost          int
	MatchCost            MatchCostFunc
	ExtraMatches         ExtraMatchesFunc // may be nil
}

// FindOptimalMatches runs the single-pass DP / DAG-shortest-path parse
// described in clownlzss.c: advance through the data one value at a time,
// relax the edges reachable via the sliding-window's candidate matches
// (plus any extra synthetic matches), relax the literal edge with a
// literal-bias tie-break, then walk the resulting shortest path from the
// end back to the start and re-walk it forward to build the match list.
func FindOptimalMatches(data []byte, cfg ParserConfig) ([]Match, error) {
	if cfg.BytesPerValue <= 0 || cfg.MaximumMatchDistance <= 0 {
		return nil, ErrCompressInternal
	}

	totalValues := len(data) / cfg.BytesPerValue
	if totalValues == 0 {
		return nil, nil
	}

	window := newMatchWindow(cfg.MaximumMatchDistance)
	nodes := make([]graphEdge, totalValues+1)

	nodes[0].cost = 0
	for i := 1; i <= totalValues; i++ {
		nodes[i].cost = infiniteCost
	}

	maxMatchLen := cfg.MaximumMatchLength
	startJ := 0
	if cfg.BytesPerValue == 1 {
		startJ = 1
	}

	for i := 0; i < totalValues; i++ {
		currentBytes := data[i*cfg.BytesPerValue:]
		firstByte := data[i*cfg.BytesPerValue]

		if cfg.ExtraMatches != nil {
			cfg.ExtraMatches(data, totalValues, i, nodes)
		}

		limit := maxMatchLen
		if totalValues-i < limit {
			limit = totalValues - i
		}

		for slot := window.head(firstByte); slot != dummyIndex; slot = window.next[slot] {
			matchStart := window.valueAt(slot)
			matchBytes := data[matchStart*cfg.BytesPerValue:]
			distance := i - matchStart

			for j := startJ; j < limit; j++ {
				if !valuesEqual(currentBytes, matchBytes, j, cfg.BytesPerValue) {
					break
				}

				cost := cfg.MatchCost(distance, j+1)
				if cost != 0 && nodes[i+j+1].cost > nodes[i].cost+cost {
					nodes[i+j+1].cost = nodes[i].cost + cost
					nodes[i+j+1].previousNode = i
					nodes[i+j+1].matchOffset = matchStart
				}
			}
		}

		// A literal is used whenever it is at least as cheap as every run
		// ending at this value: >= biases ties toward literals, matching
		// clownlzss.c exactly (needed for bit-exact reproduction of its
		// output on inputs with multiple equal-cost parses).
		if nodes[i+1].cost >= nodes[i].cost+cfg.LiteralCost {
			nodes[i+1].cost = nodes[i].cost + cfg.LiteralCost
			nodes[i+1].previousNode = i
			nodes[i+1].matchOffset = literalSource
		}

		window.advance(i, firstByte)
	}

	nodes[0].previousNode = dummyIndex
	nodes[totalValues].nextNode = dummyIndex

	for i := totalValues; nodes[i].previousNode != dummyIndex; i = nodes[i].previousNode {
		nodes[nodes[i].previousNode].nextNode = i
	}

	var matches []Match
	for i := 0; nodes[i].nextNode != dummyIndex; {
		next := nodes[i].nextNode
		matches = append(matches, Match{
			Source:      nodes[next].matchOffset,
			Destination: i,
			Length:      next - i,
		})
		i = next
	}

	return matches, nil
}

func valuesEqual(a, b []byte, valueIndex, bytesPerValue int) bool {
	base := valueIndex * bytesPerValue
	for l := 0; l < bytesPerValue; l++ {
		if a[base+l] != b[base+l] {
			return false
		}
	}
	return true
}
