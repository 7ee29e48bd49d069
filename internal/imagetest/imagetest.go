// Package imagetest builds minimal synthetic ELF64 images for tests.
package imagetest

import (
	"github.com/psxtools/backport/endian"
	"github.com/psxtools/backport/format"
)

const (
	// Size is the total size of a built image.
	Size = 0x200
	// ParamOffset is where the process parameter block lands inside the
	// first loadable segment.
	ParamOffset = 0x100
	// DynamicOffset is the file offset of the dynamic segment.
	DynamicOffset = 0x1A0

	defaultSDKVersion    = 0x07000041
	defaultCompatVersion = 0x12000001
)

// Spec controls the shape of the built image. The zero value produces a
// little-endian image with two segments (a loadable segment covering the
// whole file and a dynamic segment) and a valid process parameter block
// found only by scanning.
type Spec struct {
	// BigEndian emits a big-endian image.
	BigEndian bool
	// ParamSegment adds a dedicated process parameter segment pointing at
	// the block.
	ParamSegment bool
	// OmitParam leaves the process parameter block out entirely.
	OmitParam bool
	// SDKVersion and CompatVersion preload the block's version fields.
	// Zero values fall back to a current-generation pair.
	SDKVersion    uint32
	CompatVersion uint32
}

// Build constructs the image described by spec.
func Build(spec Spec) []byte {
	eng := endian.GetLittleEndianEngine()
	ident := byte(format.ElfDataLittle)
	if spec.BigEndian {
		eng = endian.GetBigEndianEngine()
		ident = format.ElfDataBig
	}

	buf := make([]byte, Size)
	buf[0] = 0x7F
	buf[1] = 'E'
	buf[2] = 'L'
	buf[3] = 'F'
	buf[format.ElfClassOffset] = format.ElfClass64
	buf[format.ElfDataOffset] = ident

	phNum := 2
	if spec.ParamSegment {
		phNum = 3
	}
	eng.PutUint64(buf[format.ElfPhoffOffset:], format.ElfHeaderSize)
	eng.PutUint16(buf[format.ElfPhentszOffset:], format.ProgHeaderMinSize)
	eng.PutUint16(buf[format.ElfPhnumOffset:], uint16(phNum))

	writePhdr(eng, buf, 0, format.PtLoad, format.PfRead|format.PfExec, 0, Size, 0x1000)
	writePhdr(eng, buf, 1, format.PtDynamic, format.PfRead, DynamicOffset, 0x20, 8)
	if spec.ParamSegment {
		writePhdr(eng, buf, 2, format.PtProcParam, format.PfRead, ParamOffset, 0x40, 8)
	}

	if !spec.OmitParam {
		sdkVer := spec.SDKVersion
		if sdkVer == 0 {
			sdkVer = defaultSDKVersion
		}
		compatVer := spec.CompatVersion
		if compatVer == 0 {
			compatVer = defaultCompatVersion
		}

		eng.PutUint32(buf[ParamOffset+format.ProcParamMagicOffset:], format.ProcParamMagic)
		eng.PutUint32(buf[ParamOffset+format.ProcParamSizeOffset:], 0x40)
		eng.PutUint32(buf[ParamOffset+format.ProcParamSDKVerOffset:], sdkVer)
		eng.PutUint32(buf[ParamOffset+format.ProcParamCompatOffset:], compatVer)
	}

	// Non-zero payload so copies and round-trips cannot pass by accident.
	for i := 0x180; i < DynamicOffset; i++ {
		buf[i] = byte(i)
	}

	return buf
}

func writePhdr(eng endian.EndianEngine, buf []byte, idx int, pType, pFlags uint32, off, size, align uint64) {
	ph := buf[format.ElfHeaderSize+idx*format.ProgHeaderMinSize:]

	eng.PutUint32(ph[0x00:], pType)
	eng.PutUint32(ph[0x04:], pFlags)
	eng.PutUint64(ph[0x08:], off)
	eng.PutUint64(ph[0x10:], off) // vaddr mirrors the file offset
	eng.PutUint64(ph[0x20:], size)
	eng.PutUint64(ph[0x28:], size)
	eng.PutUint64(ph[0x30:], align)
}
