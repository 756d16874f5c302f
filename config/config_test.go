package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file::memory:"
  driver: sqlite
auth:
  jwt_secret: "0123456789abcdef0123"
business:
  item_categories: [Linen, Cleaning]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 50, cfg.Inventory.LowThreshold)
	assert.Equal(t, 24*60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Your Business", cfg.Business.Name)
	assert.Equal(t, []string{"Linen", "Cleaning"}, cfg.Business.ItemCategories)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "missing dsn",
			body: "auth:\n  jwt_secret: \"0123456789abcdef0123\"\n",
		},
		{
			name: "short secret",
			body: "database:\n  dsn: x\nauth:\n  jwt_secret: short\n",
		},
		{
			name: "unknown driver",
			body: "database:\n  dsn: x\n  driver: mysql\nauth:\n  jwt_secret: \"0123456789abcdef0123\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
