// Package logging provides categorized zap loggers for fsend.
// Logging is diagnostic only: everything meant for the user goes through
// the console package instead.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryPrompt   Category = "prompt"   // Interactive prompts
	CategoryAPI      Category = "api"      // Send server requests
	CategoryHistory  Category = "history"  // History database
	CategoryPlatform Category = "platform" // Browser, clipboard, disk space
)

// Config selects level, encoding and an optional file sink.
type Config struct {
	Level   string // debug, info, warn, error; empty means warn
	Format  string // console or json; empty means console
	File    string // written to in addition to stderr
	Verbose bool   // forces debug level
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the root logger. It may be called again to replace it;
// category loggers handed out before keep the old root.
func Initialize(cfg Config) error {
	logger, err := build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = logger
	loggers = make(map[Category]*zap.Logger)
	return nil
}

func build(cfg Config) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}

	switch cfg.Format {
	case "", "console":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		zc.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Get returns the logger for a category, named after it.
func Get(category Category) *zap.Logger {
	mu.RLock()
	logger, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if logger, ok := loggers[category]; ok {
		return logger
	}
	logger = root.Named(string(category))
	loggers[category] = logger
	return logger
}

// Root returns the uncategorized root logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

// reset restores the no-op logger.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	root = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
}
