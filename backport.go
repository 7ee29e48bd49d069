// Package backport converts native executable images between the platform's
// plain image format and its signed container format, and downgrades the
// platform SDK versions an image declares.
//
// The codec is structural only: encoded containers satisfy the loader's
// layout rules without genuine cryptographic signing ("fake signing"), and
// decoding reverses that wrapping. Genuinely encrypted or compressed
// containers are out of scope and rejected.
//
// # Basic Usage
//
// Downgrading and signing an image:
//
//	import "github.com/psxtools/backport"
//
//	img, _ := backport.ReadImage(data)
//	_ = backport.PatchMetadata(img, 4) // SDK version pair 4
//
//	container, _ := backport.EncodeContainer(img, self.Identity{
//	    AuthID:      0x3100000000000002,
//	    ProgramType: format.PTypeFake,
//	})
//
// Unwrapping a container:
//
//	img, _ := backport.DecodeContainer(container)
//
// # Package Structure
//
// This package provides thin top-level wrappers around the elf, patch, self
// and sdk packages, which cover the common pipeline. Use those packages
// directly for fine-grained control (backup snapshots, identity inspection,
// raw header structures).
//
// All operations are synchronous, in-memory transformations with no shared
// mutable state; they are safe to call concurrently on independent inputs.
package backport

import (
	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/patch"
	"github.com/psxtools/backport/sdk"
	"github.com/psxtools/backport/self"
)

// ReadImage parses a plain executable image.
func ReadImage(data []byte) (*elf.File, error) {
	return elf.Parse(data)
}

// PatchMetadata rewrites the image's declared SDK versions in place using
// the version pair selected by pairKey.
func PatchMetadata(img *elf.File, pairKey uint32) error {
	return patch.Apply(img, pairKey)
}

// EncodeContainer wraps an image into a fake-signed container under id.
func EncodeContainer(img *elf.File, id self.Identity) ([]byte, error) {
	return self.Encode(img, id)
}

// DecodeContainer unwraps a container back into a standalone image.
func DecodeContainer(data []byte) (*elf.File, error) {
	return self.Decode(data)
}

// SDKPairs returns the supported SDK version pairs ordered by key.
func SDKPairs() []sdk.Pair {
	return sdk.Pairs()
}

// ParseProgramType resolves a symbolic program type name or bare integer.
func ParseProgramType(s string) (format.ProgramType, error) {
	return format.ParseProgramType(s)
}
