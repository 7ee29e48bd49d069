package self

import (
	"fmt"

	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
)

// Identity is the policy a container is signed under. It is assembled by the
// caller immediately before encoding and read by reference only.
type Identity struct {
	// AuthID is the 64-bit program authentication id.
	AuthID uint64
	// ProgramType is the program type code; Encode rejects codes outside the
	// recognized set.
	ProgramType format.ProgramType
	// AppVersion is the declared application version.
	AppVersion uint32
	// FwVersion is the declared firmware version.
	FwVersion uint32
	// AuthInfo is an optional opaque blob copied into the fixed-size auth
	// info slot; the remainder is zero-filled. Must not exceed AuthInfoSize.
	AuthInfo []byte
}

// ExtendedInfo is the authentication record embedded after the header. The
// identity's 32-bit fields are widened to the record's 64-bit wire fields.
type ExtendedInfo struct {
	AuthID      uint64   // byte offset 0-7
	ProgramType uint64   // byte offset 8-15
	AppVersion  uint64   // byte offset 16-23
	FwVersion   uint64   // byte offset 24-31
	Digest      [32]byte // byte offset 32-63, fixed placeholder, never computed
}

// Parse parses the record from the start of data.
func (x *ExtendedInfo) Parse(data []byte) error {
	if len(data) < format.ExtendedInfoSize {
		return fmt.Errorf("%w: %d byte extended info", errs.ErrTruncated, len(data))
	}

	x.AuthID = wire.Uint64(data[0:8])
	x.ProgramType = wire.Uint64(data[8:16])
	x.AppVersion = wire.Uint64(data[16:24])
	x.FwVersion = wire.Uint64(data[24:32])
	copy(x.Digest[:], data[32:64])

	return nil
}

// Bytes serializes the record into a fixed-size byte slice.
func (x *ExtendedInfo) Bytes() []byte {
	b := make([]byte, format.ExtendedInfoSize)

	wire.PutUint64(b[0:8], x.AuthID)
	wire.PutUint64(b[8:16], x.ProgramType)
	wire.PutUint64(b[16:24], x.AppVersion)
	wire.PutUint64(b[24:32], x.FwVersion)
	copy(b[32:64], x.Digest[:])

	return b
}

// ReadIdentity recovers the identity fields from an encoded container's
// metadata. Useful for inspection; decoding does not need it.
func ReadIdentity(data []byte) (Identity, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return Identity{}, err
	}
	if int(h.HeaderSize)+format.ExtendedInfoSize > len(data) {
		return Identity{}, fmt.Errorf("%w: metadata past end", errs.ErrTruncated)
	}

	var x ExtendedInfo
	if err := x.Parse(data[h.HeaderSize:]); err != nil {
		return Identity{}, err
	}

	return Identity{
		AuthID:      x.AuthID,
		ProgramType: format.ProgramType(x.ProgramType),
		AppVersion:  uint32(x.AppVersion),
		FwVersion:   uint32(x.FwVersion),
	}, nil
}
