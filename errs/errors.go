// Package errs defines the sentinel errors shared by the codec packages.
//
// All errors returned by the elf, self, sdk and patch packages either are one
// of these sentinels or wrap one, so callers can classify failures with
// errors.Is without string matching.
package errs

import "errors"

// Image (ELF) errors.
var (
	// ErrInvalidMagic indicates the buffer does not start with the expected magic.
	ErrInvalidMagic = errors.New("invalid magic")
	// ErrTruncated indicates a declared size or offset exceeds the buffer length.
	ErrTruncated = errors.New("buffer truncated")
	// ErrInvalidClass indicates the image is not a 64-bit executable.
	ErrInvalidClass = errors.New("unsupported image class")
	// ErrInvalidByteOrder indicates the image ident declares an unknown byte order.
	ErrInvalidByteOrder = errors.New("unsupported byte order")
	// ErrInvalidProgramTable indicates the program header table is malformed.
	ErrInvalidProgramTable = errors.New("invalid program header table")
)

// Container (SELF) errors.
var (
	// ErrCorruptTable indicates a segment table entry is inconsistent with the buffer.
	ErrCorruptTable = errors.New("corrupt segment table")
	// ErrUnsupportedSegment indicates a segment is encrypted or compressed,
	// which this codec does not decode.
	ErrUnsupportedSegment = errors.New("unsupported segment flags")
	// ErrNoSegments indicates the image has no segments to wrap.
	ErrNoSegments = errors.New("image has no segments")
	// ErrTooManySegments indicates the segment count does not fit the
	// header's entry count field.
	ErrTooManySegments = errors.New("too many segments")
	// ErrUnknownProgramType indicates a program type outside the recognized set.
	ErrUnknownProgramType = errors.New("unknown program type")
	// ErrAuthInfoTooLarge indicates the identity's auth info blob exceeds the
	// fixed metadata slot.
	ErrAuthInfoTooLarge = errors.New("auth info exceeds fixed size")
)

// Metadata patch errors.
var (
	// ErrUnknownSDKPair indicates the SDK pair key is not in the version table.
	ErrUnknownSDKPair = errors.New("unknown sdk version pair")
	// ErrNoProcParam indicates the image carries no process parameter block.
	ErrNoProcParam = errors.New("no process parameter block")
)
