package format

// SegmentType classifies a program segment of an image.
type SegmentType uint8

const (
	SegmentOther     SegmentType = 0x0 // SegmentOther represents any unclassified segment.
	SegmentLoad      SegmentType = 0x1 // SegmentLoad represents a loadable segment.
	SegmentDynamic   SegmentType = 0x2 // SegmentDynamic represents the dynamic linking segment.
	SegmentNote      SegmentType = 0x3 // SegmentNote represents a note segment.
	SegmentProcParam SegmentType = 0x4 // SegmentProcParam represents the process parameter segment.
)

func (s SegmentType) String() string {
	switch s {
	case SegmentLoad:
		return "Load"
	case SegmentDynamic:
		return "Dynamic"
	case SegmentNote:
		return "Note"
	case SegmentProcParam:
		return "ProcParam"
	case SegmentOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// ELF image constants.
const (
	// ElfMagic is "\x7FELF" read as a little-endian uint32.
	ElfMagic uint32 = 0x464C457F

	ElfHeaderSize     = 64 // ELF64 header size
	ProgHeaderMinSize = 56 // minimum program header entry size (ELF64)

	ElfClass64       = 2 // EI_CLASS for 64-bit images
	ElfDataLittle    = 1 // EI_DATA little-endian
	ElfDataBig       = 2 // EI_DATA big-endian
	ElfClassOffset   = 4
	ElfDataOffset    = 5
	ElfPhoffOffset   = 0x20
	ElfPhentszOffset = 0x36
	ElfPhnumOffset   = 0x38
)

// Program header p_type values this codec recognizes. Anything else maps to
// SegmentOther and is carried through unchanged.
const (
	PtLoad      uint32 = 0x00000001
	PtDynamic   uint32 = 0x00000002
	PtNote      uint32 = 0x00000004
	PtProcParam uint32 = 0x61000001 // platform process parameter segment
)

// Program header permission flags.
const (
	PfExec  uint32 = 0x1
	PfWrite uint32 = 0x2
	PfRead  uint32 = 0x4
)

// Signed container constants. The layout is fixed by the target loader; none
// of these are configurable.
const (
	// SelfMagic is the container magic, bytes 54 14 F5 EE on disk.
	SelfMagic uint32 = 0xEEF51454
	// SelfMagicLegacy is the older container magic, bytes 4F 15 3D 1D on disk.
	// The decoder accepts it; the encoder always emits SelfMagic.
	SelfMagicLegacy uint32 = 0x1D3D154F

	SelfVersion    uint8 = 0x00
	SelfMode       uint8 = 0x01
	SelfEndian     uint8 = 0x01 // container structures are always little-endian
	SelfAttributes uint8 = 0x12

	// KeyTypeFake is the key/algorithm tag emitted for fake-signed containers.
	KeyTypeFake uint32 = 0x101

	SelfHeaderFlags uint16 = 0x02

	SelfHeaderSize   = 0x20 // fixed container header size in bytes
	ExtendedInfoSize = 0x40 // authentication record (ids, versions, digest)
	AuthInfoSize     = 0x88 // opaque auth info blob, zero-filled when absent
	SelfMetaSize     = ExtendedInfoSize + AuthInfoSize
	SelfEntrySize    = 0x20 // fixed segment table entry size in bytes

	// MetaAlign is the alignment of metadata structures.
	MetaAlign = 16
	// SegmentAlign is the alignment boundary of the first wrapped segment; the
	// base offset of the wrapped image is rounded up to it.
	SegmentAlign = 0x1000
)

// Process parameter block constants. The block is a small fixed-layout record
// identified by a magic/size prefix inside a loadable segment.
const (
	// ProcParamMagic is "ORBI" read as a little-endian uint32.
	ProcParamMagic uint32 = 0x4942524F

	ProcParamMagicOffset  = 0x00
	ProcParamSizeOffset   = 0x04
	ProcParamSDKVerOffset = 0x10 // platform SDK version field
	ProcParamCompatOffset = 0x14 // compatibility version field

	// ProcParamMinSize is the smallest declared size that still covers the
	// last recognized field.
	ProcParamMinSize = ProcParamCompatOffset + 4
)
