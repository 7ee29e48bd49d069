// Package patch rewrites the version fields of an image's process parameter
// block so the image declares compatibility with an older platform revision.
//
// Patching mutates the image buffer in place: the fields are fixed-width, so
// the buffer never resizes and applying the same pair twice is a no-op.
package patch

import (
	"fmt"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/errs"
	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/sdk"
)

// Option configures a single Apply call.
type Option func(*options)

type options struct {
	backup *[]byte
}

// WithBackup snapshots the process parameter block's original bytes into dst
// before mutation. The caller decides whether to retain or discard the
// snapshot; Apply never restores it.
func WithBackup(dst *[]byte) Option {
	return func(o *options) {
		o.backup = dst
	}
}

// Apply looks up pairKey in the SDK version pair table and overwrites the
// image's platform SDK version and compatibility version fields in place.
//
// Returns:
//   - error: ErrUnknownSDKPair when pairKey is not in the table,
//     ErrNoProcParam when the image has no process parameter block. The image
//     bytes are untouched on any error.
func Apply(img *elf.File, pairKey uint32, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pair, ok := sdk.Lookup(pairKey)
	if !ok {
		return fmt.Errorf("%w: key %d", errs.ErrUnknownSDKPair, pairKey)
	}

	off, ok := img.ProcParamOffset()
	if !ok {
		return errs.ErrNoProcParam
	}

	if o.backup != nil {
		size := uint64(img.ByteOrder.Uint32(img.Data[off+format.ProcParamSizeOffset : off+format.ProcParamSizeOffset+4]))
		*o.backup = append([]byte(nil), img.Data[off:off+size]...)
	}

	img.ByteOrder.PutUint32(img.Data[off+format.ProcParamSDKVerOffset:off+format.ProcParamSDKVerOffset+4], pair.SDKVersion)
	img.ByteOrder.PutUint32(img.Data[off+format.ProcParamCompatOffset:off+format.ProcParamCompatOffset+4], pair.CompatVersion)

	return nil
}

// Versions reads the image's current platform SDK version and compatibility
// version fields. The boolean result is false when the image has no process
// parameter block.
func Versions(img *elf.File) (sdkVer, compatVer uint32, ok bool) {
	off, ok := img.ProcParamOffset()
	if !ok {
		return 0, 0, false
	}

	sdkVer = img.ByteOrder.Uint32(img.Data[off+format.ProcParamSDKVerOffset : off+format.ProcParamSDKVerOffset+4])
	compatVer = img.ByteOrder.Uint32(img.Data[off+format.ProcParamCompatOffset : off+format.ProcParamCompatOffset+4])

	return sdkVer, compatVer, true
}
