package alias

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, s.Names())

	require.NoError(t, s.Add("csharpconsole", []string{"console", "--language", "C#"}))
	require.NoError(t, s.Add("api", []string{"webapi"}))
	require.NoError(t, s.Save())

	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "csharpconsole"}, s.Names())
	args, ok := s.Get("csharpconsole")
	require.True(t, ok)
	assert.Equal(t, []string{"console", "--language", "C#"}, args)
}

func TestStore_Expand(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "aliases.yaml"))
	require.NoError(t, err)
	require.NoError(t, s.Add("csharpconsole", []string{"console"}))
	require.NoError(t, s.Add("loop", []string{"csharpconsole"}))

	got, ok := s.Expand([]string{"csharpconsole", "-n", "MyApp"})
	assert.True(t, ok)
	assert.Equal(t, []string{"console", "-n", "MyApp"}, got)

	got, ok = s.Expand([]string{"loop"})
	assert.True(t, ok)
	assert.Equal(t, []string{"csharpconsole"}, got, "expansion is not recursive")

	got, ok = s.Expand([]string{"console"})
	assert.False(t, ok)
	assert.Equal(t, []string{"console"}, got)

	_, ok = s.Expand(nil)
	assert.False(t, ok)
}

func TestStore_AddValidation(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "aliases.yaml"))
	require.NoError(t, err)

	assert.Error(t, s.Add("", []string{"console"}))
	assert.Error(t, s.Add("has space", []string{"console"}))
	assert.Error(t, s.Add("--flag", []string{"console"}))
	assert.Error(t, s.Add("ok", nil))
}

func TestStore_Remove(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "aliases.yaml"))
	require.NoError(t, err)
	require.NoError(t, s.Add("api", []string{"webapi"}))

	require.NoError(t, s.Remove("api"))
	_, ok := s.Get("api")
	assert.False(t, ok)

	err = s.Remove("api")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "console --language C#", Format([]string{"console", "--language", "C#"}))
}
