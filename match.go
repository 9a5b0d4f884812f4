// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// literalSource marks a Match as a literal rather than a back-reference,
// mirroring clownlzss.h's CLOWNLZSS_MATCH_IS_LITERAL, which tests
// match->source == (size_t)-1.
const literalSource = -1

// Match is one edge of the parsed LZSS graph: either a literal run or a
// back-reference, expressed in value units (bytesPerValue-sized elements,
// not necessarily bytes — Comper operates on 16-bit values).
type Match struct {
	// Source is the value-index the match copies from, or literalSource
	// if this is a literal run.
	Source int
	// Destination is the value-index this match/literal starts at.
	Destination int
	// Length is the number of values this match/literal covers.
	Length int
}

// IsLiteral reports whether m represents a literal run rather than a
// back-reference.
func (m Match) IsLiteral() bool {
	return m.Source == literalSource
}

// Distance returns how far back (in values) a back-reference match points.
// Only meaningful when !m.IsLiteral().
func (m Match) Distance() int {
	return m.Destination - m.Source
}
