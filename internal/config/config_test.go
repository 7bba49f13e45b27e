package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.DefaultSpeed())
}

func TestParse_OverDefaults(t *testing.T) {
	cfg, err := Parse([]byte("addr: :9000\ndb: runs.db\nlog_format: json\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, Default().MaxSteps, cfg.MaxSteps)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "adress: :9000\n", "field adress not found"},
		{"speed too fast", "default_speed_ms: 50\n", "DefaultSpeedMS"},
		{"bad log level", "log_level: loud\n", "LogLevel"},
		{"zero max steps", "max_steps: 0\n", "MaxSteps"},
		{"empty addr", "addr: \"\"\n", "Addr"},
		{"not yaml", "addr: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps: 500\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxSteps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	addr, speed := ":7000", 100
	cfg, err := Default().Merge(Overrides{Addr: &addr, SpeedMS: &speed})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 100*time.Millisecond, cfg.DefaultSpeed())

	bad := 5000
	_, err = Default().Merge(Overrides{SpeedMS: &bad})
	assert.Error(t, err)
}
