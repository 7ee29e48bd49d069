package elf

import (
	"fmt"
	"sort"

	"github.com/psxtools/backport/endian"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// Segment describes one program segment of an image: where it lives in the
// file, where it is mapped in memory, and with which permissions.
type Segment struct {
	// Type is the classified segment type.
	Type format.SegmentType
	// RawType is the image's original p_type value, preserved for segments
	// that classify as SegmentOther.
	RawType uint32
	// Flags holds the permission bits (PfRead/PfWrite/PfExec).
	Flags uint32
	// Offset is the segment's byte offset in the image file.
	Offset uint64
	// FileSize is the segment's size in the image file.
	FileSize uint64
	// Addr is the virtual address the segment is mapped at.
	Addr uint64
	// MemSize is the segment's size in memory (>= FileSize for bss-style tails).
	MemSize uint64
	// Align is the segment's alignment requirement.
	Align uint64
}

// File is a parsed image: the raw byte buffer plus its segment descriptors.
// The File owns Data exclusively; nothing else mutates it.
type File struct {
	// Data is the raw image buffer.
	Data []byte
	// Segments are the image's segments in non-decreasing file offset order.
	Segments []Segment
	// ByteOrder is the engine selected by the image's ident bytes. In-place
	// field rewrites go through it.
	ByteOrder endian.EndianEngine
}

// Parse parses an image from data.
//
// Returns:
//   - *File: the parsed image, referencing data
//   - error: ErrInvalidMagic if the magic is absent, ErrTruncated when a
//     declared range exceeds the buffer, ErrInvalidClass/ErrInvalidByteOrder
//     for unsupported ident bytes
func Parse(data []byte) (*File, error) {
	if len(data) < 4 || endian.GetLittleEndianEngine().Uint32(data[0:4]) != format.ElfMagic {
		return nil, errs.ErrInvalidMagic
	}
	if len(data) < format.ElfHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", errs.ErrTruncated, len(data))
	}

	if class := data[format.ElfClassOffset]; class != format.ElfClass64 {
		return nil, fmt.Errorf("%w: class %d", errs.ErrInvalidClass, class)
	}

	var engine endian.EndianEngine
	switch data[format.ElfDataOffset] {
	case format.ElfDataLittle:
		engine = endian.GetLittleEndianEngine()
	case format.ElfDataBig:
		engine = endian.GetBigEndianEngine()
	default:
		return nil, fmt.Errorf("%w: ident data %d", errs.ErrInvalidByteOrder, data[format.ElfDataOffset])
	}

	phOff := engine.Uint64(data[format.ElfPhoffOffset : format.ElfPhoffOffset+8])
	phEntSize := uint64(engine.Uint16(data[format.ElfPhentszOffset : format.ElfPhentszOffset+2]))
	phNum := uint64(engine.Uint16(data[format.ElfPhnumOffset : format.ElfPhnumOffset+2]))

	if phNum > 0 && phEntSize < format.ProgHeaderMinSize {
		return nil, fmt.Errorf("%w: entry size %d", errs.ErrInvalidProgramTable, phEntSize)
	}
	tableEnd := phOff + phNum*phEntSize
	if tableEnd < phOff || tableEnd > uint64(len(data)) {
		return nil, fmt.Errorf("%w: program table at 0x%X", errs.ErrTruncated, phOff)
	}

	segments := make([]Segment, 0, phNum)
	for i := uint64(0); i < phNum; i++ {
		ph := data[phOff+i*phEntSize:]

		seg := Segment{
			RawType:  engine.Uint32(ph[0x00:0x04]),
			Flags:    engine.Uint32(ph[0x04:0x08]),
			Offset:   engine.Uint64(ph[0x08:0x10]),
			Addr:     engine.Uint64(ph[0x10:0x18]),
			FileSize: engine.Uint64(ph[0x20:0x28]),
			MemSize:  engine.Uint64(ph[0x28:0x30]),
			Align:    engine.Uint64(ph[0x30:0x38]),
		}
		seg.Type = classify(seg.RawType)

		segEnd := seg.Offset + seg.FileSize
		if segEnd < seg.Offset || segEnd > uint64(len(data)) {
			return nil, fmt.Errorf("%w: segment %d range [0x%X, 0x%X)", errs.ErrTruncated, i, seg.Offset, segEnd)
		}

		segments = append(segments, seg)
	}

	// Program headers are normally emitted offset-ascending already; keep the
	// order stable for equal offsets (contained segments).
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Offset < segments[j].Offset
	})

	return &File{Data: data, Segments: segments, ByteOrder: engine}, nil
}

// classify maps a raw p_type value to a SegmentType.
func classify(pType uint32) format.SegmentType {
	switch pType {
	case format.PtLoad:
		return format.SegmentLoad
	case format.PtDynamic:
		return format.SegmentDynamic
	case format.PtNote:
		return format.SegmentNote
	case format.PtProcParam:
		return format.SegmentProcParam
	default:
		return format.SegmentOther
	}
}

// Size returns the image buffer length.
func (f *File) Size() int {
	return len(f.Data)
}
