package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "provision", "provision.log")
			_, err := os.Stat(logPath)
			require.NoError(t, err, "log file should be created at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, filepath.Join("/custom/state", "provision", "provision.log"), getLogFilePath())
}

func TestLogCommand(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogCommand(logger, "flatpak", []string{"install", "org.videolan.VLC", "-y"})

	output := buf.String()
	assert.Contains(t, output, "flatpak")
	assert.Contains(t, output, "org.videolan.VLC")
	assert.Contains(t, output, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "link dotfiles")
	done()

	output := buf.String()
	assert.Contains(t, output, "Operation started")
	assert.Contains(t, output, "Operation completed")
	assert.Contains(t, output, "duration")
}
