package slicklog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty name", func(c *Config) { c.Name = " " }, "name cannot be empty"},
		{"dotted extension", func(c *Config) { c.Extension = ".log" }, "should not start with dot"},
		{"zero capacity", func(c *Config) { c.QueueCapacity = 0 }, "queue_capacity"},
		{"negative capacity", func(c *Config) { c.QueueCapacity = -1 }, "queue_capacity"},
		{"zero poll interval", func(c *Config) { c.PollIntervalMs = 0 }, "poll_interval_ms"},
		{"bad rotation", func(c *Config) { c.Rotation = "hourly" }, "invalid rotation"},
		{"negative size", func(c *Config) { c.MaxFileSizeKB = -1 }, "max_file_size_kb"},
		{"too few files", func(c *Config) { c.Rotation = RotationSize; c.MaxFiles = 1 }, "max_files"},
		{"bad hour", func(c *Config) { c.RotationHour = 24 }, "rotation_hour"},
		{"empty timestamp format", func(c *Config) { c.TimestampFormat = "" }, "timestamp_format"},
		{"bad console level", func(c *Config) { c.ConsoleLevel = "verbose" }, "invalid level string"},
		{"bad file level", func(c *Config) { c.FileLevel = "loud" }, "invalid level string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Name = "changed"
	assert.Equal(t, "app", cfg.Name)
}

func TestConfigFilePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = "/var/log/svc"
	cfg.Name = "svc"
	cfg.Extension = "log"
	assert.Equal(t, filepath.Join("/var/log/svc", "svc.log"), cfg.filePath())

	cfg.Extension = ""
	assert.Equal(t, filepath.Join("/var/log/svc", "svc"), cfg.filePath())
}

// TestNewConfigFromFile verifies TOML values override defaults
func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	content := `[log]
level = 8
queue_capacity = 1024
enable_console = true
console_colors = false
directory = "` + dir + `"
name = "svc"
rotation = "daily"
rotation_hour = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, LevelError, cfg.Level)
	assert.Equal(t, int64(1024), cfg.QueueCapacity)
	assert.True(t, cfg.EnableConsole)
	assert.False(t, cfg.ConsoleColors)
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, RotationDaily, cfg.Rotation)
	assert.Equal(t, int64(3), cfg.RotationHour)

	// Untouched keys keep their defaults
	assert.Equal(t, int64(1), cfg.PollIntervalMs)
	assert.Equal(t, "log", cfg.Extension)
}

// TestNewConfigFromFileMissing verifies an absent file yields the defaults
func TestNewConfigFromFileMissing(t *testing.T) {
	cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), *cfg)
}

// TestNewConfigFromFileInvalidValues verifies loaded values still go through
// validation
func TestNewConfigFromFileInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nrotation = \"weekly\"\n"), 0644))

	_, err := NewConfigFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rotation")
}

// TestBuildSinksConsoleOnly verifies sink materialization and naming
func TestBuildSinksConsoleOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableConsole = true
	cfg.EnableFile = false

	sinks, err := cfg.buildSinks()
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.Equal(t, "console", sinks[0].Name())
}

func TestBuildSinksFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()

	sinks, err := cfg.buildSinks()
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	assert.Equal(t, "file", sinks[0].Name())
	require.NoError(t, sinks[0].Close())

	_, statErr := os.Stat(filepath.Join(cfg.Directory, "app.log"))
	assert.NoError(t, statErr)
}

// TestBuildSinksBadDirectory verifies an unusable log directory fails sink
// construction up front
func TestBuildSinksBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	cfg := DefaultConfig()
	cfg.Directory = file // a regular file, MkdirAll must fail

	_, err := cfg.buildSinks()
	require.Error(t, err)
}

func TestBuildSinksRotationVariants(t *testing.T) {
	for _, rotation := range []string{RotationNone, RotationSize, RotationDaily} {
		t.Run(rotation, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Directory = t.TempDir()
			cfg.Rotation = rotation

			sinks, err := cfg.buildSinks()
			require.NoError(t, err)
			require.Len(t, sinks, 1)
			require.NoError(t, sinks[0].Close())
		})
	}
}
