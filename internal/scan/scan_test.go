package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/psxtools/backport/elf"
	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/internal/imagetest"
	"github.com/psxtools/backport/self"
	"github.com/stretchr/testify/require"
)

func elfBytes(t *testing.T) []byte {
	t.Helper()

	return imagetest.Build(imagetest.Spec{})
}

func selfBytes(t *testing.T) []byte {
	t.Helper()

	img, err := elf.Parse(imagetest.Build(imagetest.Spec{}))
	require.NoError(t, err)

	data, err := self.Encode(img, self.Identity{
		AuthID:      0x3100000000000002,
		ProgramType: format.PTypeFake,
	})
	require.NoError(t, err)

	return data
}

func TestSniff(t *testing.T) {
	require.Equal(t, KindELF, Sniff(elfBytes(t)))
	require.Equal(t, KindSELF, Sniff(selfBytes(t)))
	require.Equal(t, KindUnknown, Sniff([]byte("plain text file")))
	require.Equal(t, KindUnknown, Sniff([]byte{0x7F}))
	require.Equal(t, KindUnknown, Sniff(nil))
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module.elf")
	require.NoError(t, os.WriteFile(path, elfBytes(t), 0o644))

	kind, err := SniffFile(path)
	require.NoError(t, err)
	require.Equal(t, KindELF, kind)
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()

	write := func(rel string, data []byte) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	write("a.elf", elfBytes(t))
	write("sub/b.sprx", selfBytes(t))
	write("notes.txt", []byte("not a binary"))
	write("a.elf.bak", elfBytes(t))
	write("Decrypted/c.elf", elfBytes(t))

	entries, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, filepath.Join(dir, "a.elf"), entries[0].Path)
	require.Equal(t, KindELF, entries[0].Kind)
	require.Equal(t, filepath.Join(dir, "sub", "b.sprx"), entries[1].Path)
	require.Equal(t, KindSELF, entries[1].Kind)
}

func TestWalk_DecryptedRoot(t *testing.T) {
	// Scanning a directory named "decrypted" directly must not trip the
	// skip rule for nested decrypted directories.
	dir := filepath.Join(t.TempDir(), "decrypted")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.elf"), elfBytes(t), 0o644))

	entries, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, KindELF, entries[0].Kind)
}

func TestWalk_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.elf")
	require.NoError(t, os.WriteFile(path, elfBytes(t), 0o644))

	entries, err := Walk(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, KindELF, entries[0].Kind)
}

func TestWalk_SingleUnknownFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	entries, err := Walk(path)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "elf", KindELF.String())
	require.Equal(t, "self", KindSELF.String())
	require.Equal(t, "unknown", KindUnknown.String())
}
