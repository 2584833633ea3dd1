package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"grammar_enhancer/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok, "fresh store must report the secret as absent")

	require.NoError(t, s.Set(ctx, "sk-first"))
	v, ok, err := s.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sk-first", v)

	// no format validation: anything goes
	require.NoError(t, s.Set(ctx, "  not a key  "))
	v, _, err = s.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "  not a key  ", v)

	require.NoError(t, s.Set(ctx, ""))
	_, ok, err = s.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok, "empty value counts as absent")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(""))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_WritesApiKeyField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "sk-abc"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"apiKey": "sk-abc"`)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background())
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStore_SharedBetweenHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	a, err := OpenSQLite(path)
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLite(path)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(context.Background(), "sk-shared"))
	v, ok, err := b.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sk-shared", v)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.SettingsConfig{Backend: "memory"})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.SettingsConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	s, err = Open(config.SettingsConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, Close(s))

	_, err = Open(config.SettingsConfig{Backend: "etcd"})
	require.Error(t, err)
}

func TestHint(t *testing.T) {
	require.Equal(t, "wxyz", Hint("sk-abcdwxyz"))
	require.Equal(t, "", Hint("abc"))
}
