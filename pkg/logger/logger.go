package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// zapTraceLevel sits one step below zap's debug level.
const zapTraceLevel = zapcore.DebugLevel - 1

func (l Level) zap() zapcore.Level {
	switch l {
	case TraceLevel:
		return zapTraceLevel
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZap(l zapcore.Level) Level {
	switch {
	case l <= zapTraceLevel:
		return TraceLevel
	case l == zapcore.DebugLevel:
		return DebugLevel
	case l == zapcore.InfoLevel:
		return InfoLevel
	case l == zapcore.WarnLevel:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

// ParseLevel maps a flag value to a Level. Unknown names yield InfoLevel
// and false.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "trace":
		return TraceLevel, true
	case "debug":
		return DebugLevel, true
	case "info":
		return InfoLevel, true
	case "warn":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	}
	return InfoLevel, false
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	NoOp      bool
}

// Logger wraps a zap logger configured from Config.
type Logger struct {
	config Config
	zap    *zap.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
	output        io.Writer = os.Stderr
)

// Initialize sets up the default logger
func Initialize(config Config) error {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = build(config, output)
	return nil
}

func build(config Config, w io.Writer) *Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "message",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeLevel:    levelEncoder(config.UseColor && !config.JSON),
	}

	var enc zapcore.Encoder
	if config.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= config.Level.zap()
	}))
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.WithCaller(config.Level <= DebugLevel))
	if config.Component != "" {
		z = z.Named(config.Component)
	}
	if config.NoOp {
		z = z.With(zap.Bool("noop", true))
	}
	return &Logger{config: config, zap: z}
}

var levelColors = map[Level]string{
	TraceLevel: "\033[37m",
	DebugLevel: "\033[36m",
	InfoLevel:  "\033[32m",
	WarnLevel:  "\033[33m",
	ErrorLevel: "\033[31m",
}

func levelEncoder(color bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		level := fromZap(l)
		if color {
			enc.AppendString(levelColors[level] + level.String() + "\033[0m")
			return
		}
		enc.AppendString(level.String())
	}
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if ce := l.zap.Check(level.zap(), message); ce != nil {
		zf := make([]zap.Field, 0, len(fields))
		for _, f := range fields {
			zf = append(zf, zap.Any(f.Key, f.Value))
		}
		ce.Write(zf...)
	}
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger != nil {
		_ = defaultLogger.zap.Sync()
	}
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	return Field{Key: "error", Value: err.Error()}
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Convenience functions for default logger
func Trace(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(TraceLevel, message, fields...)
	}
}

func Debug(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(DebugLevel, message, fields...)
	}
}

func Info(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(InfoLevel, message, fields...)
	} else {
		// Fallback to stderr if logger not initialized
		fmt.Fprintf(os.Stderr, "[INFO] specex: %s\n", message)
	}
}

func Warn(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(WarnLevel, message, fields...)
	}
}

func Error(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(ErrorLevel, message, fields...)
	}
}

// SetOutput sets the output writer for the logger
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	if defaultLogger != nil {
		defaultLogger = build(defaultLogger.config, w)
	}
}
