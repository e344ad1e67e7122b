package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app_name: testapp
database:
  name: shopdb
  data_dir: /tmp/shop
server:
  addr: 0.0.0.0:9000
  debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "testapp", cfg.AppName)
	assert.Equal(t, "shopdb", cfg.Database.Name)
	assert.Equal(t, "/tmp/shop", cfg.Database.DataDir)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Debug)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: partial\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.AppName)
	assert.Equal(t, "mydb", cfg.Database.Name)
	assert.Equal(t, "data", cfg.Database.DataDir)
	assert.Equal(t, "127.0.0.1:8866", cfg.Server.Addr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
