package self

import (
	"fmt"

	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// Entry is one segment table record. It is a fixed 32 bytes on disk.
type Entry struct {
	// Flags is the packed properties word.
	Flags EntryFlags // byte offset 0-7
	// Offset is the container-relative byte offset of the segment payload.
	Offset uint64 // byte offset 8-15
	// CompressedSize is the payload size in the container. Equal to
	// PlainSize when the payload is not compressed, which is the only form
	// this codec produces.
	CompressedSize uint64 // byte offset 16-23
	// PlainSize is the payload size after decompression.
	PlainSize uint64 // byte offset 24-31
}

// Parse parses an entry from the start of data.
func (e *Entry) Parse(data []byte) error {
	if len(data) < format.SelfEntrySize {
		return fmt.Errorf("%w: %d byte entry", errs.ErrCorruptTable, len(data))
	}

	e.Flags = EntryFlags(wire.Uint64(data[0:8]))
	e.Offset = wire.Uint64(data[8:16])
	e.CompressedSize = wire.Uint64(data[16:24])
	e.PlainSize = wire.Uint64(data[24:32])

	return nil
}

// Bytes serializes the entry into a fixed-size byte slice.
func (e *Entry) Bytes() []byte {
	b := make([]byte, format.SelfEntrySize)

	wire.PutUint64(b[0:8], uint64(e.Flags))
	wire.PutUint64(b[8:16], e.Offset)
	wire.PutUint64(b[16:24], e.CompressedSize)
	wire.PutUint64(b[24:32], e.PlainSize)

	return b
}
