package mount

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestOpen_Folder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b.txt"), []byte("hello"), 0644))

	mp, err := Open(dir)
	require.NoError(t, err)
	defer mp.Close()

	assert.Equal(t, KindFolder, mp.Kind())
	data, err := mp.ReadFile("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpen_Archive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.1.0.0.nupkg")
	writeZip(t, path, map[string]string{
		"content/console/.template.config/template.json": `{"identity":"x"}`,
	})

	mp, err := Open(path)
	require.NoError(t, err)
	defer mp.Close()

	assert.Equal(t, KindArchive, mp.Kind())

	var found []string
	err = fs.WalkDir(mp.FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			found = append(found, p)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"content/console/.template.config/template.json"}, found)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	plain := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0644))
	_, err = Open(plain)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0644))
	_, err = Open(broken)
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "t.zip")
	writeZip(t, archive, map[string]string{"a": "b"})

	assert.True(t, Exists(dir))
	assert.True(t, Exists(archive))
	assert.False(t, Exists(filepath.Join(dir, "nope")))
}

func TestNormalize_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := Normalize("~/templates")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "templates"), got)
}

func TestModTime_TracksNestedChanges(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "x", "y")
	require.NoError(t, os.MkdirAll(nested, 0755))
	file := filepath.Join(nested, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("1"), 0644))

	before := ModTime(dir)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))

	assert.Greater(t, ModTime(dir), before)
	assert.Zero(t, ModTime(filepath.Join(dir, "missing")))
}
