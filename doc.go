// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

/*
Package lzss implements the family of LZSS-derived compressors and
decompressors used across Sega, Nintendo, and other retro consoles'
software: Chameleon, Comper, Enigma, Faxman, the GBA BIOS format, Kosinski,
Kosinski+, Rage, Rocket, and Saxman.

Every back-reference format (all but Enigma, which is a run-length scheme
over 16-bit tilemap words) shares a single cost-optimal LZSS parser
(FindOptimalMatches): rather than greedily taking the first or longest
match at each position, it builds a DAG over every reachable literal and
match edge and finds the minimum-bit-cost path through it in one pass, so
the chosen parse is provably as small as the format's opcode encoding
allows. Formats differ in the shape of that encoding — bit width, the
descriptor stream's push/pop direction and endianness, match length and
distance bounds, header layout, and a handful of format-specific synthetic
edges (Saxman and Faxman's zero-fill sentinels, Rage's byte-repeat and
uncompressed-run opcodes) — which is what each format's own file (e.g.
kosinski.go, rage.go) configures via ParserConfig, BitFieldConfig, and its
own encode/decode loop.

# Compress

	out, err := lzss.KosinskiCompress(data)
	out, err := lzss.ChameleonCompress(data)

# Decompress

	out, err := lzss.KosinskiDecompress(compressed)

	out, n, err := kosinskiDecompressStream(stream) // internal: also reports bytes consumed

From an io.Reader (the second argument caps how many input bytes are read;
0 means no cap):

	out, err := lzss.DecompressFromReader(r, 0, lzss.KosinskiDecompress)

# Moduled variants

Several formats also support a "moduled" framing that splits large input
into independently-compressed chunks of a fixed uncompressed size, each
padded to a format-specific alignment — used where a console's DMA or
decompression routine cannot handle a single unbounded compressed block:

	out, err := lzss.KosinskiModuledCompress(data)
	out, err := lzss.KosinskiModuledDecompress(compressed)
*/
package lzss
