package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	cfg := &Config{
		LastInput:  "/dumps/in",
		LastOutput: "/dumps/out",
		LastUsed:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cfg.Save(path))

	got := Load(path)
	require.Equal(t, cfg.LastInput, got.LastInput)
	require.Equal(t, cfg.LastOutput, got.LastOutput)
	require.True(t, cfg.LastUsed.Equal(got.LastUsed))
}

func TestLoad_Missing(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Equal(t, &Config{}, got)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got := Load(path)
	require.Equal(t, &Config{}, got)
}

func TestRememberDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	RememberDirs(path, "/a", "/b")

	got := Load(path)
	require.Equal(t, "/a", got.LastInput)
	require.Equal(t, "/b", got.LastOutput)
	require.False(t, got.LastUsed.IsZero())
}
