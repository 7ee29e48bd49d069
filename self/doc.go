// Package self implements the signed container codec: encoding a parsed
// image into a structurally valid fake-signed container, and decoding a
// container back into a standalone image.
//
// "Fake" signing means every structural field the loader inspects is filled
// in — header, authentication record, segment table, alignment — while the
// digest region holds a fixed placeholder instead of a computed signature.
// The encoder never produces encrypted or compressed segments, and the
// decoder rejects containers that carry them.
//
// Encode and Decode are pure transformations over in-memory buffers with no
// shared state; they are safe to call concurrently on independent inputs.
package self
