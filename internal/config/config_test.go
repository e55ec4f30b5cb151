package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, 100*time.Millisecond, cfg.Tick.Interval.D())
	assert.True(t, cfg.ExpirySweep.Enabled)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchend.yaml")
	data := []byte(`
port: 9000
catalog: data/catalog.yaml
tick:
  interval: 50ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 9090, cfg.MetricsPort, "unset fields keep their defaults")
	assert.Equal(t, "data/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick.Interval.D())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"port out of range", "port: 99999"},
		{"clashing ports", "port: 9090\nmetrics_port: 9090"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kitchend.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
