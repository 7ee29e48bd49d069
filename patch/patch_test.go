package patch

import (
	"bytes"
	"testing"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/internal/imagetest"
	"github.com/stretchr/testify/require"
)

func parseImage(t *testing.T, spec imagetest.Spec) *elf.File {
	t.Helper()

	img, err := elf.Parse(imagetest.Build(spec))
	require.NoError(t, err)

	return img
}

func TestApply(t *testing.T) {
	img := parseImage(t, imagetest.Spec{})

	require.NoError(t, Apply(img, 4))

	sdkVer, compatVer, ok := Versions(img)
	require.True(t, ok)
	require.Equal(t, uint32(0x04000031), sdkVer)
	require.Equal(t, uint32(0x09040001), compatVer)
}

func TestApply_Idempotent(t *testing.T) {
	img := parseImage(t, imagetest.Spec{})

	require.NoError(t, Apply(img, 4))
	snapshot := append([]byte(nil), img.Data...)

	require.NoError(t, Apply(img, 4))
	require.True(t, bytes.Equal(snapshot, img.Data))
}

func TestApply_OnlyVersionFieldsChange(t *testing.T) {
	original := imagetest.Build(imagetest.Spec{})
	img, err := elf.Parse(append([]byte(nil), original...))
	require.NoError(t, err)

	require.NoError(t, Apply(img, 7))

	for i := range original {
		inField := i >= imagetest.ParamOffset+0x10 && i < imagetest.ParamOffset+0x18
		if inField {
			continue
		}
		require.Equal(t, original[i], img.Data[i], "byte 0x%X changed", i)
	}
}

func TestApply_UnknownPair(t *testing.T) {
	img := parseImage(t, imagetest.Spec{})
	snapshot := append([]byte(nil), img.Data...)

	err := Apply(img, 0)
	require.ErrorIs(t, err, errs.ErrUnknownSDKPair)

	err = Apply(img, 11)
	require.ErrorIs(t, err, errs.ErrUnknownSDKPair)

	// The image must be untouched on error.
	require.True(t, bytes.Equal(snapshot, img.Data))
}

func TestApply_NoProcParam(t *testing.T) {
	img := parseImage(t, imagetest.Spec{OmitParam: true})
	snapshot := append([]byte(nil), img.Data...)

	err := Apply(img, 4)
	require.ErrorIs(t, err, errs.ErrNoProcParam)
	require.True(t, bytes.Equal(snapshot, img.Data))
}

func TestApply_WithBackup(t *testing.T) {
	img := parseImage(t, imagetest.Spec{})

	var backup []byte
	require.NoError(t, Apply(img, 4, WithBackup(&backup)))

	// The snapshot covers the block's full declared size and holds the
	// pre-patch field values.
	require.Len(t, backup, 0x40)
	require.Equal(t, uint32(0x07000041), img.ByteOrder.Uint32(backup[0x10:0x14]))
	require.Equal(t, uint32(0x12000001), img.ByteOrder.Uint32(backup[0x14:0x18]))
}

func TestApply_BigEndian(t *testing.T) {
	img := parseImage(t, imagetest.Spec{BigEndian: true})

	require.NoError(t, Apply(img, 9))

	sdkVer, compatVer, ok := Versions(img)
	require.True(t, ok)
	require.Equal(t, uint32(0x06000041), sdkVer)
	require.Equal(t, uint32(0x11000001), compatVer)
}

func TestVersions_Missing(t *testing.T) {
	img := parseImage(t, imagetest.Spec{OmitParam: true})

	_, _, ok := Versions(img)
	require.False(t, ok)
}
