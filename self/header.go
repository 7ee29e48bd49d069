package self

import (
	"fmt"

	"github.com/psxtools/backport/endian"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// wire is the container's byte order. Container structures are always
// little-endian regardless of the wrapped image's byte order.
var wire = endian.GetLittleEndianEngine()

// Header is the fixed-size header at the start of a container.
type Header struct {
	// Magic identifies the container format.
	Magic uint32 // byte offset 0-3
	// Version is the container format version.
	Version uint8 // byte offset 4
	// Mode is the container mode byte.
	Mode uint8 // byte offset 5
	// Endian declares the byte order of the container structures.
	Endian uint8 // byte offset 6
	// Attributes is the container attribute byte.
	Attributes uint8 // byte offset 7
	// KeyType is the key/algorithm tag; fake-signed containers use KeyTypeFake.
	KeyType uint32 // byte offset 8-11
	// HeaderSize is the size of this header in bytes.
	HeaderSize uint16 // byte offset 12-13
	// MetaSize is the size of the authentication metadata that follows the
	// header. It does not include the segment table.
	MetaSize uint16 // byte offset 14-15
	// FileSize is the total container file size in bytes.
	FileSize uint64 // byte offset 16-23
	// NumEntries is the number of segment table entries.
	NumEntries uint16 // byte offset 24-25
	// Flags is the header flags word.
	Flags uint16 // byte offset 26-27
	// bytes 28-31 are reserved padding, written as zero
}

// NewHeader returns a header carrying the fixed fake-signing policy values.
// FileSize and NumEntries are filled in when the encoder finishes.
func NewHeader() Header {
	return Header{
		Magic:      format.SelfMagic,
		Version:    format.SelfVersion,
		Mode:       format.SelfMode,
		Endian:     format.SelfEndian,
		Attributes: format.SelfAttributes,
		KeyType:    format.KeyTypeFake,
		HeaderSize: format.SelfHeaderSize,
		MetaSize:   format.SelfMetaSize,
		Flags:      format.SelfHeaderFlags,
	}
}

// Parse parses the header from the start of data.
//
// Returns:
//   - error: ErrTruncated if data is shorter than the fixed header size,
//     ErrInvalidMagic if the magic matches neither accepted value
func (h *Header) Parse(data []byte) error {
	if len(data) < format.SelfHeaderSize {
		return fmt.Errorf("%w: %d byte header", errs.ErrTruncated, len(data))
	}

	h.Magic = wire.Uint32(data[0:4])
	if h.Magic != format.SelfMagic && h.Magic != format.SelfMagicLegacy {
		return errs.ErrInvalidMagic
	}

	h.Version = data[4]
	h.Mode = data[5]
	h.Endian = data[6]
	h.Attributes = data[7]
	h.KeyType = wire.Uint32(data[8:12])
	h.HeaderSize = wire.Uint16(data[12:14])
	h.MetaSize = wire.Uint16(data[14:16])
	h.FileSize = wire.Uint64(data[16:24])
	h.NumEntries = wire.Uint16(data[24:26])
	h.Flags = wire.Uint16(data[26:28])

	return nil
}

// Bytes serializes the header into a fixed-size byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, format.SelfHeaderSize)

	wire.PutUint32(b[0:4], h.Magic)
	b[4] = h.Version
	b[5] = h.Mode
	b[6] = h.Endian
	b[7] = h.Attributes
	wire.PutUint32(b[8:12], h.KeyType)
	wire.PutUint16(b[12:14], h.HeaderSize)
	wire.PutUint16(b[14:16], h.MetaSize)
	wire.PutUint64(b[16:24], h.FileSize)
	wire.PutUint16(b[24:26], h.NumEntries)
	wire.PutUint16(b[26:28], h.Flags)

	return b
}
