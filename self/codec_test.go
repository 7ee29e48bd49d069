package self

import (
	"bytes"
	"testing"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/internal/imagetest"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{
		AuthID:      0x3100000000000002,
		ProgramType: format.PTypeFake,
	}
}

func parseImage(t *testing.T, spec imagetest.Spec) *elf.File {
	t.Helper()

	img, err := elf.Parse(imagetest.Build(spec))
	require.NoError(t, err)

	return img
}

func encodeImage(t *testing.T, spec imagetest.Spec) (*elf.File, []byte) {
	t.Helper()

	img := parseImage(t, spec)
	data, err := Encode(img, testIdentity())
	require.NoError(t, err)

	return img, data
}

func TestEncode_Header(t *testing.T) {
	img, data := encodeImage(t, imagetest.Spec{})

	var h Header
	require.NoError(t, h.Parse(data))
	require.Equal(t, format.SelfMagic, h.Magic)
	require.Equal(t, format.KeyTypeFake, h.KeyType)
	require.Equal(t, uint64(len(data)), h.FileSize)
	require.Equal(t, uint16(len(img.Segments)), h.NumEntries)
}

func TestEncode_EntryTable(t *testing.T) {
	img, data := encodeImage(t, imagetest.Spec{})

	base := uint64(baseOffset(format.SelfHeaderSize, format.SelfMetaSize, len(img.Segments)))
	require.Zero(t, base%format.SegmentAlign)

	tableOff := format.SelfHeaderSize + format.SelfMetaSize
	var prevOffset uint64
	for i, seg := range img.Segments {
		var e Entry
		require.NoError(t, e.Parse(data[tableOff+i*format.SelfEntrySize:]))

		require.Equal(t, base+seg.Offset, e.Offset)
		require.Equal(t, seg.FileSize, e.PlainSize)
		require.Equal(t, e.PlainSize, e.CompressedSize)
		require.Equal(t, i, e.Flags.SegmentIndex())
		require.True(t, e.Flags.Signed())
		require.False(t, e.Flags.Encrypted())
		require.False(t, e.Flags.Compressed())

		if i > 0 {
			require.GreaterOrEqual(t, e.Offset, prevOffset)
		}
		prevOffset = e.Offset
	}

	// The wrapped image sits unmodified at the base offset.
	require.True(t, bytes.Equal(img.Data, data[base:]))
}

func TestEncode_Identity(t *testing.T) {
	id := Identity{
		AuthID:      0x4400000000000011,
		ProgramType: format.PTypeSystemDynlib,
		AppVersion:  2,
		FwVersion:   5,
		AuthInfo:    []byte{0xAA, 0xBB},
	}

	img := parseImage(t, imagetest.Spec{})
	data, err := Encode(img, id)
	require.NoError(t, err)

	got, err := ReadIdentity(data)
	require.NoError(t, err)
	require.Equal(t, id.AuthID, got.AuthID)
	require.Equal(t, id.ProgramType, got.ProgramType)
	require.Equal(t, id.AppVersion, got.AppVersion)
	require.Equal(t, id.FwVersion, got.FwVersion)

	// Auth info blob lands at the start of its slot, zero-filled after.
	slot := data[format.SelfHeaderSize+format.ExtendedInfoSize:]
	require.Equal(t, byte(0xAA), slot[0])
	require.Equal(t, byte(0xBB), slot[1])
	require.Equal(t, byte(0x00), slot[2])
}

func TestEncode_Errors(t *testing.T) {
	img := parseImage(t, imagetest.Spec{})

	_, err := Encode(&elf.File{Data: img.Data, ByteOrder: img.ByteOrder}, testIdentity())
	require.ErrorIs(t, err, errs.ErrNoSegments)

	id := testIdentity()
	id.ProgramType = 0x7
	_, err = Encode(img, id)
	require.ErrorIs(t, err, errs.ErrUnknownProgramType)

	id = testIdentity()
	id.AuthInfo = make([]byte, format.AuthInfoSize+1)
	_, err = Encode(img, id)
	require.ErrorIs(t, err, errs.ErrAuthInfoTooLarge)
}

func TestDecode_RoundTrip(t *testing.T) {
	img, data := encodeImage(t, imagetest.Spec{})

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, bytes.Equal(img.Data, got.Data))
	require.Equal(t, img.Segments, got.Segments)
	require.Equal(t, img.ByteOrder, got.ByteOrder)
}

func TestDecode_RoundTripBigEndian(t *testing.T) {
	img, data := encodeImage(t, imagetest.Spec{BigEndian: true})

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, bytes.Equal(img.Data, got.Data))
	require.Equal(t, img.Segments, got.Segments)
}

func TestDecode_LegacyMagic(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	wire.PutUint32(data[0:4], format.SelfMagicLegacy)

	_, err := Decode(data)
	require.NoError(t, err)
}

func TestDecode_InvalidMagic(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	wire.PutUint32(data[0:4], 0x11111111)

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrInvalidMagic)
}

func TestDecode_Truncated(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})

	_, err := Decode(data[:16])
	require.ErrorIs(t, err, errs.ErrTruncated)

	// Header declares the full size; a shortened buffer must be rejected.
	_, err = Decode(data[:len(data)-1])
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestDecode_EmptyTable(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	wire.PutUint16(data[24:26], 0)

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrCorruptTable)
}

func TestDecode_EncryptedEntry(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	tableOff := format.SelfHeaderSize + format.SelfMetaSize

	var e Entry
	require.NoError(t, e.Parse(data[tableOff:]))
	e.Flags = e.Flags.WithEncrypted()
	copy(data[tableOff:], e.Bytes())

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrUnsupportedSegment)
}

func TestDecode_CompressedEntry(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	tableOff := format.SelfHeaderSize + format.SelfMetaSize

	var e Entry
	require.NoError(t, e.Parse(data[tableOff:]))
	e.Flags = e.Flags.WithCompressed()
	copy(data[tableOff:], e.Bytes())

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrUnsupportedSegment)
}

func TestDecode_SizeMismatch(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	tableOff := format.SelfHeaderSize + format.SelfMetaSize

	var e Entry
	require.NoError(t, e.Parse(data[tableOff:]))
	e.CompressedSize = e.PlainSize / 2
	copy(data[tableOff:], e.Bytes())

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrCorruptTable)
}

func TestDecode_EntryBeforeBase(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	tableOff := format.SelfHeaderSize + format.SelfMetaSize

	var e Entry
	require.NoError(t, e.Parse(data[tableOff:]))
	e.Offset = 0x10
	e.CompressedSize = 8
	e.PlainSize = 8
	copy(data[tableOff:], e.Bytes())

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrCorruptTable)
}

func TestDecode_EntryOutOfRange(t *testing.T) {
	_, data := encodeImage(t, imagetest.Spec{})
	tableOff := format.SelfHeaderSize + format.SelfMetaSize

	var e Entry
	require.NoError(t, e.Parse(data[tableOff:]))
	e.PlainSize = uint64(len(data))
	e.CompressedSize = e.PlainSize
	copy(data[tableOff:], e.Bytes())

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrCorruptTable)
}

func TestEncodeDecode_PatchSurvivesRoundTrip(t *testing.T) {
	img := parseImage(t, imagetest.Spec{SDKVersion: 0x04000031, CompatVersion: 0x09040001})

	data, err := Encode(img, testIdentity())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	off, ok := got.ProcParamOffset()
	require.True(t, ok)
	require.Equal(t, uint32(0x04000031), got.ByteOrder.Uint32(got.Data[off+0x10:off+0x14]))
	require.Equal(t, uint32(0x09040001), got.ByteOrder.Uint32(got.Data[off+0x14:off+0x18]))
}
