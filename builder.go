package slicklog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg   *Config
	sinks []Sink
	err   error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	for _, s := range b.sinks {
		logger.AddSink(s)
	}

	return logger, nil
}

// BuildAndStart creates the logger and starts its writer goroutine.
func (b *Builder) BuildAndStart() (*Logger, error) {
	logger, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := logger.Start(); err != nil {
		return nil, err
	}
	return logger, nil
}

// Level sets the global minimum log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// QueueCapacity sets the ring buffer capacity.
func (b *Builder) QueueCapacity(capacity int64) *Builder {
	b.cfg.QueueCapacity = capacity
	return b
}

// PollInterval sets the writer's idle sleep in milliseconds.
func (b *Builder) PollInterval(ms int64) *Builder {
	b.cfg.PollIntervalMs = ms
	return b
}

// TimestampFormat sets the timestamp format name or custom pattern.
func (b *Builder) TimestampFormat(format string) *Builder {
	b.cfg.TimestampFormat = format
	return b
}

// Console enables the configured console sink.
func (b *Builder) Console(colors, errToStderr bool) *Builder {
	b.cfg.EnableConsole = true
	b.cfg.ConsoleColors = colors
	b.cfg.ConsoleErrToStderr = errToStderr
	return b
}

// NoFile disables the configured file sink.
func (b *Builder) NoFile() *Builder {
	b.cfg.EnableFile = false
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Name sets the base name for log files.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// RotateBySize enables size rotation for the configured file sink.
func (b *Builder) RotateBySize(maxSizeKB, maxFiles int64) *Builder {
	b.cfg.Rotation = RotationSize
	b.cfg.MaxFileSizeKB = maxSizeKB
	b.cfg.MaxFiles = maxFiles
	return b
}

// RotateDaily enables daily rotation for the configured file sink.
func (b *Builder) RotateDaily(rotationHour int64) *Builder {
	b.cfg.Rotation = RotationDaily
	b.cfg.RotationHour = rotationHour
	return b
}

// Sink registers an additional sink on the built logger.
func (b *Builder) Sink(s Sink) *Builder {
	if s != nil {
		b.sinks = append(b.sinks, s)
	}
	return b
}
