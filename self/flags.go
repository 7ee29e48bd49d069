package self

// EntryFlags is the packed properties word of a segment table entry.
//
// Bit layout:
//   - bit 0: ordered
//   - bit 1: encrypted
//   - bit 2: signed
//   - bit 3: compressed
//   - bit 11: blocked (payload addressed in fixed-size blocks)
//   - bits 12-15: block size exponent, log2(size)-12; zero means 4KiB
//   - bits 20-31: segment index
type EntryFlags uint64

const (
	entryFlagOrdered    EntryFlags = 1 << 0
	entryFlagEncrypted  EntryFlags = 1 << 1
	entryFlagSigned     EntryFlags = 1 << 2
	entryFlagCompressed EntryFlags = 1 << 3
	entryFlagBlocked    EntryFlags = 1 << 11

	entrySegmentIndexShift = 20
	entrySegmentIndexMask  = 0xFFF
)

// NewEntryFlags returns the fixed flag policy for encoded segments: ordered,
// signed, blocked, neither encrypted nor compressed, tagged with idx.
func NewEntryFlags(idx int) EntryFlags {
	f := entryFlagOrdered | entryFlagSigned | entryFlagBlocked
	f |= EntryFlags(idx&entrySegmentIndexMask) << entrySegmentIndexShift

	return f
}

// Encrypted reports whether the entry's payload is encrypted.
func (f EntryFlags) Encrypted() bool {
	return f&entryFlagEncrypted != 0
}

// Compressed reports whether the entry's payload is compressed.
func (f EntryFlags) Compressed() bool {
	return f&entryFlagCompressed != 0
}

// Blocked reports whether the entry's payload is block-addressed.
func (f EntryFlags) Blocked() bool {
	return f&entryFlagBlocked != 0
}

// Signed reports whether the entry is covered by the container's signature.
func (f EntryFlags) Signed() bool {
	return f&entryFlagSigned != 0
}

// SegmentIndex returns the source segment index recorded in the flags word.
func (f EntryFlags) SegmentIndex() int {
	return int((f >> entrySegmentIndexShift) & entrySegmentIndexMask)
}

// WithEncrypted marks the entry encrypted. The encoder never sets this; it
// exists so tests and external tooling can build such entries.
func (f EntryFlags) WithEncrypted() EntryFlags {
	return f | entryFlagEncrypted
}

// WithCompressed marks the entry compressed. The encoder never sets this.
func (f EntryFlags) WithCompressed() EntryFlags {
	return f | entryFlagCompressed
}
