package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	t.Run("no env file", func(t *testing.T) {
		path, err := LoadEnv()
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("loads first env file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RVC_TEST_LOADED=yes\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("RVC_TEST_LOADED") })

		path, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, ".env", path)
		assert.Equal(t, "yes", os.Getenv("RVC_TEST_LOADED"))
	})
}
