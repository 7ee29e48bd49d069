package self

import (
	"fmt"
	"math"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// alignUp rounds v up to the next multiple of align, which must be a power
// of two.
func alignUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}

// baseOffset is the container-relative offset the wrapped image starts at:
// the header, metadata and segment table, rounded up to the first segment
// alignment boundary. Encoder and decoder derive it the same way, from the
// same three sizes.
func baseOffset(headerSize, metaSize, numEntries int) int {
	return alignUp(headerSize+metaSize+numEntries*format.SelfEntrySize, format.SegmentAlign)
}

// Encode wraps img into a fake-signed container under id's policy.
//
// The image bytes are emitted contiguously and unmodified at the aligned base
// offset, so every segment table entry's offset is its source segment's
// image-relative offset shifted by the base. Segment order is preserved.
// The output buffer is newly allocated and owned by the caller; img is read
// by reference and never mutated.
//
// Returns:
//   - []byte: the complete container
//   - error: ErrNoSegments for an image with nothing to wrap,
//     ErrUnknownProgramType for a program type outside the recognized set,
//     ErrAuthInfoTooLarge / ErrTooManySegments for oversized identity or
//     segment counts. No partial output is produced on any error.
func Encode(img *elf.File, id Identity) ([]byte, error) {
	if len(img.Segments) == 0 {
		return nil, errs.ErrNoSegments
	}
	if !id.ProgramType.Recognized() {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownProgramType, id.ProgramType)
	}
	if len(id.AuthInfo) > format.AuthInfoSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrAuthInfoTooLarge, len(id.AuthInfo))
	}
	if len(img.Segments) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", errs.ErrTooManySegments, len(img.Segments))
	}

	base := baseOffset(format.SelfHeaderSize, format.SelfMetaSize, len(img.Segments))
	out := make([]byte, base+len(img.Data))

	hdr := NewHeader()
	hdr.FileSize = uint64(len(out))
	hdr.NumEntries = uint16(len(img.Segments))
	copy(out, hdr.Bytes())

	ext := ExtendedInfo{
		AuthID:      id.AuthID,
		ProgramType: uint64(id.ProgramType),
		AppVersion:  uint64(id.AppVersion),
		FwVersion:   uint64(id.FwVersion),
	}
	copy(out[format.SelfHeaderSize:], ext.Bytes())
	// Auth info slot: blob bytes first, zero-filled to AuthInfoSize.
	copy(out[format.SelfHeaderSize+format.ExtendedInfoSize:], id.AuthInfo)

	tableOff := format.SelfHeaderSize + format.SelfMetaSize
	for i, seg := range img.Segments {
		e := Entry{
			Flags:          NewEntryFlags(i),
			Offset:         uint64(base) + seg.Offset,
			CompressedSize: seg.FileSize,
			PlainSize:      seg.FileSize,
		}
		copy(out[tableOff+i*format.SelfEntrySize:], e.Bytes())
	}

	copy(out[base:], img.Data)

	return out, nil
}
