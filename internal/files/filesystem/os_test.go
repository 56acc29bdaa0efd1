package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOSFileSystem_Open_ValidDirectory(t *testing.T) {
	dir := t.TempDir()

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	absDir, _ := filepath.Abs(dir)
	require.Equal(t, absDir, d.Path())
}

func TestOSFileSystem_Open_NonexistentPath(t *testing.T) {
	_, err := NewOSFileSystem().Open(filepath.Join(t.TempDir(), "nonexistent"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFileSystem_Open_FileNotDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "song.json")
	writeFile(t, filePath, "{}")

	_, err := NewOSFileSystem().Open(filePath)
	require.ErrorContains(t, err, "not a directory")
}

func TestOSFileSystem_ReadFileAndStat(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "song.json")
	writeFile(t, filePath, `{"song_id":"S1"}`)
	fs := NewOSFileSystem()

	data, err := fs.ReadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, `{"song_id":"S1"}`, string(data))

	info, err := fs.Stat(filePath)
	require.NoError(t, err)
	require.False(t, info.IsDir())
	require.Equal(t, "song.json", info.Name())
}

func TestOSDirectory_Walk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A", "B", "one.json"), "{}")
	writeFile(t, filepath.Join(dir, "A", "two.json"), "{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	var rel []string
	err = d.Walk(func(f File, err error) error {
		require.NoError(t, err)
		if !f.Info().IsDir() {
			rel = append(rel, f.RelativePath())
			content, err := f.ReadContent()
			require.NoError(t, err)
			require.NotEmpty(t, content)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A/B/one.json", "A/two.json", "notes.txt"}, rel)
}

func TestOSDirectory_WalkRecoversPanic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.json"), "{}")

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	err = d.Walk(func(File, error) error { panic("boom") })
	require.ErrorContains(t, err, "panicked")
}
