package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByExtension(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
		ts := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}
	write("b.pth", time.Hour)
	write("a.PT", 2*time.Hour)
	write("c.wav", time.Minute)
	write("notes.txt", time.Minute)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pth"), 0755))

	got, err := ListByExtension(dir, ".pth", ".pt", ".wav")
	require.NoError(t, err)

	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.PT", "b.pth", "c.wav"}, names)

	_, err = ListByExtension(filepath.Join(dir, "missing"), ".pth")
	assert.Error(t, err)
}

func TestExtensionHelpers(t *testing.T) {
	assert.True(t, HasExtension("voice.WAV", ".wav"))
	assert.False(t, HasExtension("voice.wav.bak", ".wav"))
	assert.Equal(t, "voice", TrimExtension("/tmp/w/voice.pth"))
	assert.Equal(t, "v1.model", TrimExtension("v1.model.pt"))
}

func TestCopyAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dst := filepath.Join(dir, "out.wav")
	payload := []byte{0x52, 0x49, 0x46, 0x46, 0x00, 0x01}
	require.NoError(t, os.WriteFile(src, payload, 0644))

	require.NoError(t, CopyFile(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.True(t, Exists(dst))

	require.NoError(t, Remove(dst))
	assert.False(t, Exists(dst))
	assert.NoError(t, Remove(dst))
	assert.NoError(t, Remove(""))

	assert.Error(t, CopyFile(filepath.Join(dir, "missing.wav"), dst))
}

func TestTempPath(t *testing.T) {
	dir := t.TempDir()

	a, err := TempPath(dir, "org/model", "_input.wav")
	require.NoError(t, err)
	b, err := TempPath(dir, "org/model", "_input.wav")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, dir, filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "org_model_"))
	assert.True(t, strings.HasSuffix(a, "_input.wav"))
	assert.True(t, Exists(a))
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "b")
	require.NoError(t, EnsureDirs(a, "", filepath.Join(root, "c")))
	info, err := os.Stat(a)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := SHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = SHA256(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
