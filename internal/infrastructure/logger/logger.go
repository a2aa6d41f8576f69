package logger

import (
	"os"
	"strings"

	"github.com/shop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config describes the process logger
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string

	// Service and Environment are stamped on every entry when set
	Service     string
	Environment string

	// Rotation applies when Output is a file path
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FromConfig builds the logger Config for the server. Production writes
// JSON unless a format is configured; development writes console lines.
func FromConfig(log config.LogConfig, app config.AppConfig) *Config {
	out := &Config{
		Level:       "info",
		Format:      "console",
		Output:      "stdout",
		TimeFormat:  defaultTimeFormat,
		Service:     app.Name,
		Environment: app.Env,
		MaxSizeMB:   log.MaxSizeMB,
		MaxBackups:  log.MaxBackups,
		MaxAgeDays:  log.MaxAgeDays,
		Compress:    log.Compress,
	}
	if app.Env == "production" {
		out.Format = "json"
	}
	if log.Level != "" {
		out.Level = log.Level
	}
	if log.Format != "" {
		out.Format = log.Format
	}
	if log.Output != "" {
		out.Output = log.Output
	}
	return out
}

// New builds a zap logger from cfg. Errors carry a stack trace.
func New(cfg *Config) (*zap.Logger, error) {
	core := zapcore.NewCore(encoder(cfg), writer(cfg), Level(cfg))
	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	var fields []zap.Field
	if cfg.Service != "" {
		fields = append(fields, zap.String("service", cfg.Service))
	}
	if cfg.Environment != "" {
		fields = append(fields, zap.String("env", cfg.Environment))
	}
	return l.With(fields...), nil
}

// Level is the minimum level of cfg; unknown names mean info
func Level(cfg *Config) zapcore.Level {
	switch strings.ToLower(cfg.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoder(cfg *Config) zapcore.Encoder {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.Format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// writer picks the standard streams or a size-rotated file
func writer(cfg *Config) zapcore.WriteSyncer {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	default:
		return zapcore.AddSync(rotatingFile(cfg))
	}
}

func rotatingFile(cfg *Config) *lumberjack.Logger {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

// Sync flushes buffered entries
func Sync(l *zap.Logger) error {
	return l.Sync()
}
