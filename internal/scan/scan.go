// Package scan discovers candidate executable files on disk.
//
// It classifies files by their leading magic bytes rather than by
// extension, since dumped system modules carry a variety of suffixes
// (.elf, .self, .sprx, .prx, .bin) with no consistency between dumps.
package scan

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/psxtools/backport/format"
)

// Kind identifies the container format sniffed from a file's leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindELF
	KindSELF
)

func (k Kind) String() string {
	switch k {
	case KindELF:
		return "elf"
	case KindSELF:
		return "self"
	default:
		return "unknown"
	}
}

// Sniff classifies data by its magic bytes. Data shorter than 4 bytes
// is always KindUnknown.
func Sniff(data []byte) Kind {
	if len(data) < 4 {
		return KindUnknown
	}

	magic := binary.LittleEndian.Uint32(data[:4])
	switch magic {
	case format.ElfMagic:
		return KindELF
	case format.SelfMagic, format.SelfMagicLegacy:
		return KindSELF
	}

	return KindUnknown
}

// SniffFile classifies the named file by reading its first 4 bytes.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	var head [4]byte
	n, _ := f.Read(head[:])

	return Sniff(head[:n]), nil
}

// Entry is a discovered candidate file.
type Entry struct {
	Path string
	Kind Kind
}

// skip returns true for files and directories the walker should not
// descend into or report: backup files left by earlier runs and output
// directories from a previous decrypt pass.
func skip(name string, isDir bool) bool {
	lower := strings.ToLower(name)
	if isDir {
		return lower == "decrypted"
	}

	return strings.HasSuffix(lower, ".bak")
}

// Walk recursively scans root and returns every ELF or SELF file found,
// in lexical walk order. Backup files (*.bak) and "decrypted" output
// directories are skipped. If root is a single file it is sniffed and
// returned alone when it matches.
func Walk(root string) ([]Entry, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		kind, err := SniffFile(root)
		if err != nil {
			return nil, err
		}
		if kind == KindUnknown {
			return nil, nil
		}

		return []Entry{{Path: root, Kind: kind}}, nil
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// The skip rules apply to entries under the root, never to the
		// root itself: scanning a directory named "decrypted" directly
		// must still work.
		if path == root {
			return nil
		}
		if skip(d.Name(), d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		kind, err := SniffFile(path)
		if err != nil {
			return err
		}
		if kind != KindUnknown {
			entries = append(entries, Entry{Path: path, Kind: kind})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
