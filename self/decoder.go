package self

import (
	"fmt"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// Decode unwraps a container back into a standalone image.
//
// The base offset is re-derived from the header's own size fields, every
// entry's payload is copied to its image-relative offset, and the rebuilt
// buffer is parsed as an image so the returned File carries real segment
// descriptors from the round-tripped program header table. Gaps between
// segment ranges are zero-filled. The returned image owns a fresh buffer;
// data is read by reference only.
//
// Returns:
//   - *elf.File: the reconstructed image
//   - error: ErrInvalidMagic/ErrTruncated for a malformed or short
//     container, ErrCorruptTable for entries inconsistent with the buffer,
//     ErrUnsupportedSegment for encrypted or compressed payloads
func Decode(data []byte) (*elf.File, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return nil, err
	}

	if int(h.HeaderSize)+int(h.MetaSize) > len(data) {
		return nil, fmt.Errorf("%w: metadata past end", errs.ErrTruncated)
	}
	if h.FileSize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: declared size 0x%X, have 0x%X", errs.ErrTruncated, h.FileSize, len(data))
	}

	n := int(h.NumEntries)
	if n == 0 {
		return nil, fmt.Errorf("%w: no entries", errs.ErrCorruptTable)
	}

	tableOff := int(h.HeaderSize) + int(h.MetaSize)
	tableEnd := tableOff + n*format.SelfEntrySize
	if tableEnd > len(data) {
		return nil, fmt.Errorf("%w: table past end", errs.ErrCorruptTable)
	}

	base := uint64(baseOffset(int(h.HeaderSize), int(h.MetaSize), n))

	entries := make([]Entry, n)
	var imageSize uint64
	for i := range entries {
		e := &entries[i]
		if err := e.Parse(data[tableOff+i*format.SelfEntrySize:]); err != nil {
			return nil, err
		}

		if e.Flags.Encrypted() || e.Flags.Compressed() {
			return nil, fmt.Errorf("%w: entry %d", errs.ErrUnsupportedSegment, i)
		}
		if e.CompressedSize != e.PlainSize {
			return nil, fmt.Errorf("%w: entry %d size mismatch", errs.ErrCorruptTable, i)
		}

		end := e.Offset + e.CompressedSize
		if end < e.Offset || end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d range [0x%X, 0x%X)", errs.ErrCorruptTable, i, e.Offset, end)
		}
		if e.Offset < base {
			return nil, fmt.Errorf("%w: entry %d offset 0x%X before base 0x%X", errs.ErrCorruptTable, i, e.Offset, base)
		}

		if extent := e.Offset - base + e.PlainSize; extent > imageSize {
			imageSize = extent
		}
	}

	buf := make([]byte, imageSize)
	for i := range entries {
		e := &entries[i]
		copy(buf[e.Offset-base:], data[e.Offset:e.Offset+e.PlainSize])
	}

	img, err := elf.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("reconstructed image: %w", err)
	}

	return img, nil
}
