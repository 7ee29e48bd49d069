// Package rawpatch applies and reverts a raw byte-pattern substitution
// in system library files, verifying every write against the expected
// content hash before committing.
package rawpatch

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Default search pattern and its replacement for the libc compatibility
// toggle. Both must be the same length so the substitution never moves
// file offsets.
var (
	DefaultPattern     = []byte("4h6F1LLbTiw#A#B")
	DefaultReplacement = []byte("IWIBBdTHit4#A#B")
)

// ErrPatternNotFound is returned when neither the pattern nor its
// replacement occurs in the target file.
var ErrPatternNotFound = errors.New("rawpatch: pattern not found")

// State describes what a file currently contains.
type State int

const (
	// StateOriginal means the file contains the unmodified pattern.
	StateOriginal State = iota
	// StatePatched means the file contains the replacement.
	StatePatched
	// StateAbsent means the file contains neither byte sequence.
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StatePatched:
		return "patched"
	default:
		return "absent"
	}
}

// Patcher performs in-place substitution of a fixed byte pattern.
type Patcher struct {
	Pattern     []byte
	Replacement []byte
}

// New returns a Patcher for the default libc pattern.
func New() *Patcher {
	return &Patcher{Pattern: DefaultPattern, Replacement: DefaultReplacement}
}

// Status reports whether the file currently holds the original pattern,
// the replacement, or neither.
func (p *Patcher) Status(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StateAbsent, err
	}

	switch {
	case bytes.Contains(data, p.Pattern):
		return StateOriginal, nil
	case bytes.Contains(data, p.Replacement):
		return StatePatched, nil
	default:
		return StateAbsent, nil
	}
}

// Apply replaces every occurrence of the pattern with the replacement.
// It returns the resulting state: StatePatched on success or when the
// file was already patched, ErrPatternNotFound when neither sequence
// occurs. When backup is set a .bak copy is written first and removed
// again after the write verifies.
func (p *Patcher) Apply(path string, backup bool) (State, error) {
	return p.swap(path, p.Pattern, p.Replacement, StatePatched, path+".bak", backup)
}

// Revert replaces the replacement with the original pattern, undoing
// Apply. The backup copy uses a .revert_bak suffix so it never clobbers
// a backup taken by Apply.
func (p *Patcher) Revert(path string, backup bool) (State, error) {
	return p.swap(path, p.Replacement, p.Pattern, StateOriginal, path+".revert_bak", backup)
}

func (p *Patcher) swap(path string, from, to []byte, want State, bakPath string, backup bool) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StateAbsent, err
	}

	if !bytes.Contains(data, from) {
		if bytes.Contains(data, to) {
			// Already in the desired state.
			return want, nil
		}

		return StateAbsent, fmt.Errorf("%w in %s", ErrPatternNotFound, path)
	}

	patched := bytes.ReplaceAll(data, from, to)
	wantSum := xxhash.Sum64(patched)

	if backup {
		if err := os.WriteFile(bakPath, data, 0o644); err != nil {
			return StateAbsent, fmt.Errorf("rawpatch: write backup: %w", err)
		}
	}

	if err := os.WriteFile(path, patched, 0o644); err != nil {
		p.restore(path, data, bakPath, backup)
		return StateAbsent, err
	}

	// Read back and verify before trusting the write.
	got, err := os.ReadFile(path)
	if err != nil || xxhash.Sum64(got) != wantSum {
		p.restore(path, data, bakPath, backup)
		if err == nil {
			err = fmt.Errorf("rawpatch: verification failed for %s", path)
		}

		return StateAbsent, err
	}

	if backup {
		_ = os.Remove(bakPath)
	}

	return want, nil
}

// restore puts the original content back after a failed write, using
// the backup file when one was taken.
func (p *Patcher) restore(path string, original []byte, bakPath string, backup bool) {
	if backup {
		if data, err := os.ReadFile(bakPath); err == nil {
			_ = os.WriteFile(path, data, 0o644)
			return
		}
	}
	_ = os.WriteFile(path, original, 0o644)
}
