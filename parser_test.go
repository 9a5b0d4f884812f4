// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"math/rand"
	"testing"
)

// totalCost sums the bit cost FindOptimalMatches attributes to a parse, the
// same way the DP relaxation accumulates it edge by edge, so a parse can be
// compared against an alternative without re-deriving the parser's own
// bookkeeping.
func totalCost(matches []Match, literalCost int, matchCost MatchCostFunc) int {
	cost := 0
	for _, m := range matches {
		if m.IsLiteral() {
			cost += literalCost * m.Length
			continue
		}
		cost += matchCost(m.Distance(), m.Length)
	}
	return cost
}

// greedyParse is a naive longest-match-first parser used only as a baseline
// to confirm FindOptimalMatches never does worse: at each position, take
// the longest match reachable within the window if one exists and is cheaper
// than emitting that many literals, otherwise emit one literal.
func greedyParse(data []byte, maxLen, maxDist, literalCost int, matchCost MatchCostFunc) []Match {
	var matches []Match
	for i := 0; i < len(data); {
		bestLen := 0
		bestSrc := 0

		limit := maxLen
		if len(data)-i < limit {
			limit = len(data) - i
		}

		lo := i - maxDist
		if lo < 0 {
			lo = 0
		}

		for start := lo; start < i; start++ {
			l := 0
			for l < limit && data[start+l] == data[i+l] {
				l++
			}
			if l > bestLen {
				bestLen = l
				bestSrc = start
			}
		}

		if bestLen > 0 && matchCost(i-bestSrc, bestLen) != 0 && matchCost(i-bestSrc, bestLen) < literalCost*bestLen {
			matches = append(matches, Match{Source: bestSrc, Destination: i, Length: bestLen})
			i += bestLen
		} else {
			matches = append(matches, Match{Source: literalSource, Destination: i, Length: 1})
			i++
		}
	}
	return matches
}

// TestFindOptimalMatchesNeverWorseThanGreedy checks the DP parse's total
// cost never exceeds a naive greedy longest-match parse's, across a mix of
// random and repetitive inputs — the property that motivates the
// DAG-shortest-path approach over a greedy one in the first place.
func TestFindOptimalMatchesNeverWorseThanGreedy(t *testing.T) {
	const literalCost = 9
	const matchCost = 17
	cost := func(distance, length int) int {
		if length < 3 || distance < 1 {
			return 0
		}
		return matchCost
	}

	rng := rand.New(rand.NewSource(3))

	inputs := map[string][]byte{}
	{
		random := make([]byte, 400)
		for i := range random {
			random[i] = byte(rng.Intn(4)) // small alphabet forces many candidate matches
		}
		inputs["small-alphabet-random"] = random
	}
	{
		repeated := make([]byte, 200)
		for i := range repeated {
			repeated[i] = byte(i % 5)
		}
		inputs["short-cycle"] = repeated
	}

	for name, data := range inputs {
		data := data
		t.Run(name, func(t *testing.T) {
			optimal, err := FindOptimalMatches(data, ParserConfig{
				BytesPerValue:        1,
				MaximumMatchLength:   255,
				MaximumMatchDistance: 0x2000,
				LiteralCost:          literalCost,
				MatchCost:            cost,
			})
			if err != nil {
				t.Fatalf("FindOptimalMatches: %v", err)
			}

			greedy := greedyParse(data, 255, 0x2000, literalCost, cost)

			optimalCost := totalCost(optimal, literalCost, cost)
			greedyCost := totalCost(greedy, literalCost, cost)

			if optimalCost > greedyCost {
				t.Fatalf("optimal parse cost %d exceeds greedy parse cost %d", optimalCost, greedyCost)
			}
		})
	}
}

// TestFindOptimalMatchesReconstructsInput confirms the match list returned
// actually reproduces data when each edge is replayed as a literal copy or
// back-reference copy, and that the edges are contiguous and cover the
// entire input with no gaps or overlaps.
func TestFindOptimalMatchesReconstructsInput(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := make([]byte, 600)
	for i := range data {
		if i > 20 && rng.Intn(3) == 0 {
			data[i] = data[i-1-rng.Intn(20)]
		} else {
			data[i] = byte(rng.Intn(256))
		}
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   64,
		MaximumMatchDistance: 0x1000,
		LiteralCost:          9,
		MatchCost: func(distance, length int) int {
			if length < 3 {
				return 0
			}
			return 17
		},
	})
	if err != nil {
		t.Fatalf("FindOptimalMatches: %v", err)
	}

	out := make([]byte, 0, len(data))
	pos := 0
	for _, m := range matches {
		if m.Destination != pos {
			t.Fatalf("gap/overlap in parse: expected edge at %d, got %d", pos, m.Destination)
		}
		if m.IsLiteral() {
			out = append(out, data[m.Destination:m.Destination+m.Length]...)
		} else {
			for i := 0; i < m.Length; i++ {
				out = append(out, data[m.Source+i])
			}
		}
		pos += m.Length
	}

	if pos != len(data) {
		t.Fatalf("parse covers %d of %d bytes", pos, len(data))
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("reconstructed byte %d: got %#x want %#x", i, out[i], data[i])
		}
	}
}

// TestFindOptimalMatchesEmptyInput confirms the parser degrades gracefully
// on zero-length input rather than panicking or returning a spurious edge.
func TestFindOptimalMatchesEmptyInput(t *testing.T) {
	matches, err := FindOptimalMatches(nil, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   8,
		MaximumMatchDistance: 0x100,
		LiteralCost:          9,
		MatchCost:            func(int, int) int { return 17 },
	})
	if err != nil {
		t.Fatalf("FindOptimalMatches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches for empty input, got %d", len(matches))
	}
}
