package slicklog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/slicktech/slicklog/timestamp"
)

// Rotation modes for the configured file sink
const (
	RotationNone  = "none"
	RotationSize  = "size"
	RotationDaily = "daily"
)

// Config holds all logger configuration values
type Config struct {
	// Pipeline settings
	Level           int64  `toml:"level"`
	QueueCapacity   int64  `toml:"queue_capacity"`   // Ring buffer slots, rounded up to a power of two
	PollIntervalMs  int64  `toml:"poll_interval_ms"` // Writer idle sleep between empty polls
	TimestampFormat string `toml:"timestamp_format"` // Named format or custom %-pattern

	// Console sink
	EnableConsole      bool   `toml:"enable_console"`
	ConsoleColors      bool   `toml:"console_colors"`
	ConsoleErrToStderr bool   `toml:"console_err_to_stderr"` // Route warn and above to stderr
	ConsoleLevel       string `toml:"console_level"`

	// File sink
	EnableFile bool   `toml:"enable_file"`
	Directory  string `toml:"directory"`
	Name       string `toml:"name"` // Base name for log files
	Extension  string `toml:"extension"`
	FileLevel  string `toml:"file_level"`

	// Rotation
	Rotation      string `toml:"rotation"`         // "none", "size", or "daily"
	MaxFileSizeKB int64  `toml:"max_file_size_kb"` // 0 disables size rotation
	MaxFiles      int64  `toml:"max_files"`
	RotationHour  int64  `toml:"rotation_hour"` // Day boundary for daily rotation
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:           LevelInfo,
	QueueCapacity:   65536,
	PollIntervalMs:  1,
	TimestampFormat: "default",

	EnableConsole:      false,
	ConsoleColors:      true,
	ConsoleErrToStderr: true,
	ConsoleLevel:       "trace",

	EnableFile: true,
	Directory:  "./logs",
	Name:       "app",
	Extension:  "log",
	FileLevel:  "trace",

	Rotation:      RotationNone,
	MaxFileSizeKB: 10 * 1024,
	MaxFiles:      5,
	RotationHour:  0,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a
// validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if c.QueueCapacity <= 0 {
		return fmtErrorf("queue_capacity must be positive: %d", c.QueueCapacity)
	}

	if c.PollIntervalMs <= 0 {
		return fmtErrorf("poll_interval_ms must be positive: %d", c.PollIntervalMs)
	}

	if c.Rotation != RotationNone && c.Rotation != RotationSize && c.Rotation != RotationDaily {
		return fmtErrorf("invalid rotation: '%s' (use none, size, or daily)", c.Rotation)
	}

	if c.MaxFileSizeKB < 0 {
		return fmtErrorf("max_file_size_kb cannot be negative: %d", c.MaxFileSizeKB)
	}

	if c.Rotation == RotationSize && c.MaxFiles < 2 {
		return fmtErrorf("max_files must be at least 2 for size rotation: %d", c.MaxFiles)
	}

	if c.RotationHour < 0 || c.RotationHour > 23 {
		return fmtErrorf("rotation_hour must be between 0 and 23: %d", c.RotationHour)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	for _, lvl := range []string{c.ConsoleLevel, c.FileLevel} {
		if _, err := Level(lvl); err != nil {
			return err
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// timestampOption maps the configured timestamp format to a sink option.
// Strings containing '%' are treated as custom patterns.
func (c *Config) timestampOption() SinkOption {
	if strings.Contains(c.TimestampFormat, "%") {
		return WithTimestampPattern(c.TimestampFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.TimestampFormat)) {
	case "millis", "with_milliseconds":
		return WithTimestampFormat(timestamp.WithMilliseconds)
	case "micros", "with_microseconds":
		return WithTimestampFormat(timestamp.WithMicroseconds)
	case "iso8601":
		return WithTimestampFormat(timestamp.ISO8601)
	case "timeonly", "time_only":
		return WithTimestampFormat(timestamp.TimeOnly)
	default:
		return WithTimestampFormat(timestamp.Default)
	}
}

// filePath returns the full path to the configured base log file.
func (c *Config) filePath() string {
	filename := c.Name
	if c.Extension != "" {
		filename = c.Name + "." + c.Extension
	}
	return filepath.Join(c.Directory, filename)
}

// buildSinks materializes the sinks the configuration declares. A file sink
// whose path cannot be opened fails here, before any writer goroutine runs.
func (c *Config) buildSinks() ([]Sink, error) {
	var sinks []Sink

	if c.EnableConsole {
		level, err := Level(c.ConsoleLevel)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewConsoleSink(c.ConsoleColors, c.ConsoleErrToStderr,
			WithName("console"), WithMinLevel(level), c.timestampOption()))
	}

	if c.EnableFile {
		if err := os.MkdirAll(c.Directory, 0755); err != nil {
			return nil, fmtErrorf("failed to create log directory '%s': %w", c.Directory, err)
		}

		level, err := Level(c.FileLevel)
		if err != nil {
			return nil, err
		}
		opts := []SinkOption{WithName("file"), WithMinLevel(level), c.timestampOption()}
		rotCfg := RotationConfig{
			MaxFileSize:  uint64(c.MaxFileSizeKB) * 1024,
			MaxFiles:     int(c.MaxFiles),
			RotationHour: int(c.RotationHour),
		}

		var sink Sink
		switch c.Rotation {
		case RotationSize:
			sink, err = NewRotatingFileSink(c.filePath(), rotCfg, opts...)
		case RotationDaily:
			sink, err = NewDailyFileSink(c.filePath(), rotCfg, opts...)
		default:
			sink, err = NewFileSink(c.filePath(), opts...)
		}
		if err != nil {
			for _, s := range sinks {
				_ = s.Close()
			}
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	return sinks, nil
}
