package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(Nop())
}

// NewLogger creates a new Logger writing to stderr.
// Development loggers use the console encoder with coloured levels, production loggers emit JSON.
//
// Parameters:
//   - development: true for a human readable console logger
//   - debug: true to enable debug level output
//
// Returns:
//   - *Logger: the constructed logger
//   - error: an error if the zap configuration could not be built
func NewLogger(development, debug bool) (*Logger, error) {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{zapLogger.Sugar()}, nil
}

// Nop returns a Logger that discards everything.
//
// Returns:
//   - *Logger: a no-op logger
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// L returns the process default Logger. It is a no-op logger until SetDefault is called.
//
// Returns:
//   - *Logger: the default logger
func L() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process default Logger. A nil logger resets it to Nop.
//
// Parameters:
//   - l: the logger to install
func SetDefault(l *Logger) {
	if l == nil {
		l = Nop()
	}
	defaultLogger.Store(l)
}

// Named returns a child Logger with the given name segment appended.
//
// Parameters:
//   - name: the name of the subsystem
//
// Returns:
//   - *Logger: the named child logger
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}

// With returns a child Logger carrying the given key/value pairs on every entry.
//
// Parameters:
//   - args: alternating keys and values
//
// Returns:
//   - *Logger: the child logger
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.SugaredLogger.With(args...)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
