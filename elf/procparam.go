package elf

import (
	"bytes"

	"github.com/psxtools/backport/format"
)

// ProcParamOffset locates the process parameter block and returns its byte
// offset in the image buffer.
//
// The dedicated process parameter segment is checked first; when an image
// carries none, loadable segments are scanned for the block's magic prefix.
// The boolean result is false when no valid block exists — images without a
// process parameter block are legal, they just cannot be version-patched.
func (f *File) ProcParamOffset() (uint64, bool) {
	for _, seg := range f.Segments {
		if seg.Type == format.SegmentProcParam && f.validParamAt(seg.Offset) {
			return seg.Offset, true
		}
	}

	magic := make([]byte, 4)
	f.ByteOrder.PutUint32(magic, format.ProcParamMagic)

	for _, seg := range f.Segments {
		if seg.Type != format.SegmentLoad || seg.FileSize < format.ProcParamMinSize {
			continue
		}

		region := f.Data[seg.Offset : seg.Offset+seg.FileSize]
		for start := 0; start < len(region); {
			idx := bytes.Index(region[start:], magic)
			if idx < 0 {
				break
			}

			off := seg.Offset + uint64(start+idx)
			if f.validParamAt(off) {
				return off, true
			}
			start += idx + 1
		}
	}

	return 0, false
}

// validParamAt reports whether a well-formed process parameter block starts
// at off: magic in place, declared size covering every recognized field, and
// the whole record inside the buffer.
func (f *File) validParamAt(off uint64) bool {
	if off+format.ProcParamMinSize > uint64(len(f.Data)) {
		return false
	}
	if f.ByteOrder.Uint32(f.Data[off:off+4]) != format.ProcParamMagic {
		return false
	}

	size := uint64(f.ByteOrder.Uint32(f.Data[off+format.ProcParamSizeOffset : off+format.ProcParamSizeOffset+4]))
	if size < format.ProcParamMinSize {
		return false
	}

	return off+size <= uint64(len(f.Data))
}
