package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SALESPULSE_SERVER_PORT", "SALESPULSE_PATHS_DATA_DIR", "SALESPULSE_LOGGING_LEVEL",
		"SALESPULSE_DASHBOARD_DEFAULT_TOP_N", "SALESPULSE_DASHBOARD_DEFAULT_MIN_QTY",
		"SALESPULSE_CONFIG_FILE", "SALESPULSE_CACHE_MAX_ENTRIES",
	} {
		if val, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "outputs", cfg.Paths.DataDir)
				assert.Equal(t, 10, cfg.Dashboard.DefaultTopN)
				assert.Equal(t, 5, cfg.Dashboard.MinTopN)
				assert.Equal(t, 25, cfg.Dashboard.MaxTopN)
				assert.Equal(t, 50, cfg.Dashboard.DefaultMinQty)
				assert.Equal(t, 500, cfg.Dashboard.MaxMinQty)
				assert.True(t, cfg.Cache.Enabled)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"SALESPULSE_SERVER_PORT":             "9090",
				"SALESPULSE_PATHS_DATA_DIR":          "/srv/sales",
				"SALESPULSE_DASHBOARD_DEFAULT_TOP_N": "15",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "/srv/sales", cfg.Paths.DataDir)
				assert.Equal(t, 15, cfg.Dashboard.DefaultTopN)
			},
		},
		{
			name: "config file fills unset values",
			file: `
server:
  port: 7070
paths:
  data_dir: exports
dashboard:
  default_min_qty: 20
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "exports", cfg.Paths.DataDir)
				assert.Equal(t, 20, cfg.Dashboard.DefaultMinQty)
			},
		},
		{
			name: "environment wins over config file",
			env:  map[string]string{"SALESPULSE_PATHS_DATA_DIR": "from-env"},
			file: "paths:\n  data_dir: from-file\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Paths.DataDir)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SALESPULSE_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "default top-n outside bounds",
			env:     map[string]string{"SALESPULSE_DASHBOARD_DEFAULT_TOP_N": "40"},
			wantErr: true,
		},
		{
			name:    "malformed config file",
			file:    "server: [not, a, map",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
				os.Setenv("SALESPULSE_CONFIG_FILE", path)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultDataDir, cfg.Paths.DataDir)
	assert.Equal(t, int64(32<<20), cfg.Dashboard.MaxUploadBytes)
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "syslog"
	cfg.Logging.Format = "text"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "json", cfg.Logging.Format)
}
