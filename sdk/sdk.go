// Package sdk holds the static SDK version pair table used to downgrade an
// image's declared platform compatibility.
//
// The table is process-wide, read-only configuration: built once at package
// init and never mutated afterward, so it is safe to share across goroutines
// without synchronization.
package sdk

// Pair maps a platform SDK version to the compatibility version declared
// alongside it.
type Pair struct {
	// Key is the pair's selector, dense from 1.
	Key uint32
	// SDKVersion is the platform SDK version written into the process
	// parameter block.
	SDKVersion uint32
	// CompatVersion is the compatibility version written next to it.
	CompatVersion uint32
}

// pairs is ordered by key; Key fields must stay dense from 1 and every
// (SDKVersion, CompatVersion) tuple unique.
var pairs = []Pair{
	{Key: 1, SDKVersion: 0x02000041, CompatVersion: 0x09040001},
	{Key: 2, SDKVersion: 0x02500051, CompatVersion: 0x09040001},
	{Key: 3, SDKVersion: 0x03000021, CompatVersion: 0x09040001},
	{Key: 4, SDKVersion: 0x04000031, CompatVersion: 0x09040001},
	{Key: 5, SDKVersion: 0x04020031, CompatVersion: 0x09040001},
	{Key: 6, SDKVersion: 0x04500011, CompatVersion: 0x09040001},
	{Key: 7, SDKVersion: 0x05000041, CompatVersion: 0x10000001},
	{Key: 8, SDKVersion: 0x05020041, CompatVersion: 0x10010001},
	{Key: 9, SDKVersion: 0x06000041, CompatVersion: 0x11000001},
	{Key: 10, SDKVersion: 0x07000041, CompatVersion: 0x12000001},
}

// Lookup returns the pair for key, and whether the key exists.
func Lookup(key uint32) (Pair, bool) {
	if key == 0 || key > uint32(len(pairs)) {
		return Pair{}, false
	}

	return pairs[key-1], true
}

// Pairs returns all supported pairs ordered by key. The returned slice is a
// copy; the table itself is never exposed for mutation.
func Pairs() []Pair {
	out := make([]Pair, len(pairs))
	copy(out, pairs)

	return out
}

// MaxKey returns the highest supported pair key.
func MaxKey() uint32 {
	return uint32(len(pairs))
}
