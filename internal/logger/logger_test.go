package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/maxviazov/stock-adjustment-service/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
				Fields:         map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "invalid-level",
			},
			expectError: true,
		},
		{
			name: "invalid time format",
			config: &logpkg.LoggerConfig{
				Env:        "prod",
				TimeFormat: "2006-01-02",
			},
			expectError: true,
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				ServiceName:  "test-service",
				Env:          "staging",
				Level:        "warn",
				OutputTarget: "stderr",
				Stacktrace:   true,
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "dev defaults to debug console",
			config: &logpkg.LoggerConfig{
				Env: "dev",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "test environment with error level",
			config: &logpkg.LoggerConfig{
				Env:        "test",
				Level:      "error",
				WithCaller: true,
			},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logpkg.New(test.config)
			if test.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantLevel, zerolog.GlobalLevel())
			assert.Equal(t, test.wantLevel, l.GetLevel())
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.Equal(t, "rfc3339nano", cfg.TimeFormat)
	assert.Equal(t, "stock-adjustment-service", cfg.ServiceName)
	assert.True(t, cfg.Stacktrace)
	assert.NotNil(t, cfg.Fields)
}

func TestNew_DebugFileCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	cfg := &logpkg.LoggerConfig{
		ServiceName: "integration-test",
		Env:         "dev",
		Level:       "debug",
		DebugFile:   path,
	}

	l, err := logpkg.New(cfg)
	require.NoError(t, err)
	l.Debug().Msg("hello")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
