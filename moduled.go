// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// ModuledOptions configures the chunking wrapper shared by every format's
// "moduled" variant. Grounded on common.c's ModuledCompressionWrapper and
// moduled.c's ModuledCompress/ModuledDecompress.
type ModuledOptions struct {
	// ModuleSize is the uncompressed chunk size; input is split into
	// ceil(len/ModuleSize) chunks, each compressed independently.
	ModuleSize int
	// ModuleAlignment is the byte boundary each module's *compressed*
	// start must be padded to (1 for no padding, 2/16/4 depending on
	// format — GBA uses 4, Kosinski-family wrappers commonly use 16).
	ModuleAlignment int
	// HeaderSize selects how many bytes the header occupies: 2 (default,
	// most formats) or 4 (GBA). The header value itself is always
	// `(size % ModuleSize) | ((size / ModuleSize) << 12)` regardless of
	// HeaderSize — a wider header just gives the module-count half of
	// that value more room above the fixed 12-bit remainder field, per
	// ModuledCompressionWrapper's single `<< 12` shift (it never varies
	// with its total_bytes template parameter).
	HeaderSize int
	// LittleEndianHeader selects little-endian header byte order. Every
	// format here uses the default (big-endian) except GBA.
	LittleEndianHeader bool
}

// DefaultModuledOptions returns a 2-byte big-endian header, 1-byte-aligned
// (no padding) configuration. The per-format moduled wrappers build their
// own options; of those, only Kosinski+'s uses these same values.
func DefaultModuledOptions(moduleSize int) *ModuledOptions {
	return &ModuledOptions{ModuleSize: moduleSize, ModuleAlignment: 1, HeaderSize: 2}
}

func (o *ModuledOptions) headerSize() int {
	if o.HeaderSize != 0 {
		return o.HeaderSize
	}
	return 2
}

func (o *ModuledOptions) alignment() int {
	if o.ModuleAlignment != 0 {
		return o.ModuleAlignment
	}
	return 1
}

// chunkCompressor compresses one module's worth of uncompressed bytes.
type chunkCompressor func(chunk []byte) ([]byte, error)

// chunkDecompressor decompresses exactly one module, returning the bytes
// it produced and how much compressed input it consumed. uncompressedSize
// tells the codec how many bytes this module is expected to decode to
// (taken from the header), since most per-format decode loops are
// terminator-driven rather than length-driven.
type chunkDecompressor func(compressed []byte, uncompressedSize int) (decoded []byte, consumed int, err error)

// ModuledCompress splits data into opts.ModuleSize chunks, compresses each
// independently with compress, and frames them with the 2-byte (or 4-byte)
// header `(size % moduleSize) | ((size / moduleSize) << 12)` plus
// alignment padding before every module after the first. Grounded on
// common.c's ModuledCompressionWrapper.
func ModuledCompress(data []byte, opts *ModuledOptions, compress chunkCompressor) ([]byte, error) {
	if opts == nil || opts.ModuleSize <= 0 {
		return nil, ErrCompressInternal
	}

	out := NewStream(len(data))

	header := (len(data) % opts.ModuleSize) | ((len(data) / opts.ModuleSize) << 12)
	out.WriteBytes(encodeModuleHeader(header, opts.headerSize(), opts.LittleEndianHeader))

	// compressedSize tracks only the module just emitted (reset every
	// iteration), not the cumulative stream position: ModuledCompressionWrapper
	// pads based on each module's own length modulo alignment, which by
	// induction keeps every module boundary aligned relative to the end of
	// the header rather than to the start of the file.
	compressedSize := 0
	for offset := 0; offset < len(data); offset += opts.ModuleSize {
		if compressedSize%opts.alignment() != 0 {
			padModule(out, compressedSize, opts.alignment())
		}

		start := out.Tell()

		end := offset + opts.ModuleSize
		if end > len(data) {
			end = len(data)
		}

		compressed, err := compress(data[offset:end])
		if err != nil {
			return nil, err
		}
		out.WriteBytes(compressed)

		compressedSize = out.Distance(start)
	}

	return out.Bytes(), nil
}

// encodeModuleHeader serializes header into size bytes (2 or 4), in either
// byte order.
func encodeModuleHeader(header, size int, littleEndian bool) []byte {
	b := make([]byte, size)
	for i := range b {
		shift := uint(8 * (size - 1 - i))
		if littleEndian {
			shift = uint(8 * i)
		}
		b[i] = byte(header >> shift)
	}
	return b
}

// decodeModuleHeader is encodeModuleHeader's inverse.
func decodeModuleHeader(b []byte, littleEndian bool) int {
	header := 0
	for i, v := range b {
		shift := uint(8 * (len(b) - 1 - i))
		if littleEndian {
			shift = uint(8 * i)
		}
		header |= int(v) << shift
	}
	return header
}

// padModule writes exactly enough zero bytes to bring the previous module's
// own length up to a multiple of alignment, matching
// ModuledCompressionWrapper's `output.Fill(0, module_alignment -
// (compressed_size % module_alignment))` step.
func padModule(out *Stream, compressedSize, alignment int) {
	for i := 0; i < alignment-(compressedSize%alignment); i++ {
		_ = out.WriteByte(0)
	}
}

// ModuledDecompress reads the module-count header, then repeatedly invokes
// decompress (which must stop at its own format's terminator/bound) once
// per module, skipping alignment padding between modules, until the full
// uncompressed size is reached.
func ModuledDecompress(data []byte, opts *ModuledOptions, decompress chunkDecompressor) ([]byte, error) {
	if opts == nil || opts.ModuleSize <= 0 {
		return nil, ErrCompressInternal
	}

	in := NewStreamFromBytes(data)

	b, err := readBytes(in, opts.headerSize())
	if err != nil {
		return nil, err
	}
	header := decodeModuleHeader(b, opts.LittleEndianHeader)
	remainder := header & 0xFFF
	moduleCount := header >> 12

	totalSize := moduleCount*opts.ModuleSize + remainder

	headerLen := opts.headerSize()
	var out []byte
	pos := in.Tell()

	for len(out) < totalSize {
		if len(out) > 0 {
			for (pos-headerLen)%opts.alignment() != 0 {
				pos++
			}
		}

		decoded, consumed, err := decompress(data[pos:], min(opts.ModuleSize, totalSize-len(out)))
		if err != nil {
			return nil, err
		}

		out = append(out, decoded...)
		pos += consumed
	}

	return out, nil
}

func readBytes(in *Stream, n int) ([]byte, error) {
	b := make([]byte, n)
	for i := range n {
		v, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		b[i] = v
	}
	return b, nil
}
