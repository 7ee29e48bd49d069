package rawpatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTarget(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "libc.prx")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func targetWithPattern(t *testing.T) string {
	t.Helper()

	content := append([]byte("prefix-"), DefaultPattern...)
	content = append(content, []byte("-suffix")...)

	return writeTarget(t, content)
}

func TestApply(t *testing.T) {
	path := targetWithPattern(t)
	p := New()

	state, err := p.Apply(path, false)
	require.NoError(t, err)
	require.Equal(t, StatePatched, state)

	got, err := p.Status(path)
	require.NoError(t, err)
	require.Equal(t, StatePatched, got)

	// File length never changes; the patterns are equal length.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, len("prefix-")+len(DefaultPattern)+len("-suffix"))
}

func TestApply_AlreadyPatched(t *testing.T) {
	path := targetWithPattern(t)
	p := New()

	_, err := p.Apply(path, false)
	require.NoError(t, err)

	state, err := p.Apply(path, false)
	require.NoError(t, err)
	require.Equal(t, StatePatched, state)
}

func TestApply_PatternNotFound(t *testing.T) {
	path := writeTarget(t, []byte("no pattern here"))
	p := New()

	_, err := p.Apply(path, false)
	require.ErrorIs(t, err, ErrPatternNotFound)

	state, err := p.Status(path)
	require.NoError(t, err)
	require.Equal(t, StateAbsent, state)
}

func TestApply_BackupRemovedOnSuccess(t *testing.T) {
	path := targetWithPattern(t)
	p := New()

	_, err := p.Apply(path, true)
	require.NoError(t, err)

	_, err = os.Stat(path + ".bak")
	require.True(t, os.IsNotExist(err))
}

func TestRevert(t *testing.T) {
	path := targetWithPattern(t)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	p := New()
	_, err = p.Apply(path, false)
	require.NoError(t, err)

	state, err := p.Revert(path, true)
	require.NoError(t, err)
	require.Equal(t, StateOriginal, state)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, original, got)

	_, err = os.Stat(path + ".revert_bak")
	require.True(t, os.IsNotExist(err))
}

func TestRevert_AlreadyOriginal(t *testing.T) {
	path := targetWithPattern(t)
	p := New()

	state, err := p.Revert(path, false)
	require.NoError(t, err)
	require.Equal(t, StateOriginal, state)
}

func TestStatus_MissingFile(t *testing.T) {
	p := New()

	_, err := p.Status(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestPatternLengthsMatch(t *testing.T) {
	require.Len(t, DefaultReplacement, len(DefaultPattern))
}
