package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compscraper/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scrape.log")
	log, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Info("hello")
	assert.FileExists(t, path)
}

func TestWithFieldsChaining(t *testing.T) {
	log := NewTestLogger()

	child := log.WithField("phase", "discover").WithFields(map[string]interface{}{"page": 3})
	child.InfoWithFields("page scanned", map[string]interface{}{"components": 12})

	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "INFO", msgs[0].Level)
	assert.Equal(t, "page scanned", msgs[0].Message)
	assert.Equal(t, "discover", msgs[0].Fields["phase"])
	assert.Equal(t, 3, msgs[0].Fields["page"])
	assert.Equal(t, 12, msgs[0].Fields["components"])
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled"} {
		_, err := parseLogLevel(level)
		assert.NoError(t, err, "level %q", level)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}
