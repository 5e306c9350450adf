package ssl

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	name, err := store.Generate("*.selva.local")
	require.NoError(t, err)
	assert.Equal(t, "_.selva.local", name)

	require.NoError(t, store.Validate(name))

	cert, err := store.Load(name)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)

	info, err := store.Info(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.selva.local"}, info.DNSNames)
	assert.True(t, info.NotAfter.After(info.NotBefore))

	keyInfo, err := os.Stat(filepath.Join(store.Dir, name, keyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), keyInfo.Mode().Perm())
}

func TestGenerateForIP(t *testing.T) {
	store := NewStore(t.TempDir())

	name, err := store.Generate("127.0.0.1")
	require.NoError(t, err)

	info, err := store.Info(name)
	require.NoError(t, err)
	require.Len(t, info.IPs, 1)
	assert.True(t, info.IPs[0].Equal(net.ParseIP("127.0.0.1")))
	assert.Empty(t, info.DNSNames)
}

func TestGenerateRequiresHost(t *testing.T) {
	_, err := NewStore(t.TempDir()).Generate("  ")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	store = NewStore(t.TempDir())
	_, err = store.Generate("b.local")
	require.NoError(t, err)
	_, err = store.Generate("a.local")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "stray.txt"), []byte("x"), 0o644))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.local", "b.local"}, names)
}

func TestValidateMissingFiles(t *testing.T) {
	store := NewStore(t.TempDir())

	err := store.Validate("nope")
	assert.ErrorContains(t, err, "certificate file not found")

	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir, "half"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "half", certFile), []byte("x"), 0o644))
	assert.ErrorContains(t, store.Validate("half"), "key file not found")
}

func TestValidateRejectsGarbage(t *testing.T) {
	store := NewStore(t.TempDir())
	dir := filepath.Join(store.Dir, "bad")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, certFile), []byte("not a cert"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFile), []byte("not a key"), 0o600))

	assert.ErrorContains(t, store.Validate("bad"), "invalid certificate or key")

	_, err := store.Load("bad")
	assert.Error(t, err)
}
