// Package logger provides the structured logging used throughout the core.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the logging contract every component depends on.
type Interface interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Fatal(msg string, fields ...any)
	With(fields ...any) Interface
	Sync() error
}

// Params configures a new logger.
type Params struct {
	Debug bool
	Level string
}

// ZapLogger implements Interface on top of zap.Logger.
type ZapLogger struct {
	z *zap.Logger
}

// New builds a ZapLogger from Params: development (console, colored) when
// Debug is set, production (JSON) otherwise.
func New(params Params) (*ZapLogger, error) {
	level, err := parseLevel(params.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if params.Debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &ZapLogger{z: z}, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return l, nil
}

func (l *ZapLogger) Debug(msg string, fields ...any) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *ZapLogger) Info(msg string, fields ...any)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *ZapLogger) Warn(msg string, fields ...any)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *ZapLogger) Error(msg string, fields ...any) { l.z.Error(msg, toZapFields(fields)...) }
func (l *ZapLogger) Fatal(msg string, fields ...any) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *ZapLogger) With(fields ...any) Interface {
	return &ZapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}

// Zap exposes the underlying *zap.Logger, e.g. for fx's event logger.
func (l *ZapLogger) Zap() *zap.Logger { return l.z }

// toZapFields converts variadic key/value pairs into zap.Field, masking
// anything that looks like a credential along the way.
func toZapFields(fields []any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, (len(fields)+1)/2)
	i := 0
	for ; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			out = append(out, zap.Any(fmt.Sprintf("field%d", i), mask("", fields[i])))
			continue
		}
		out = append(out, zap.Any(key, mask(key, fields[i+1])))
	}
	if i < len(fields) {
		out = append(out, zap.Any("context", fields[i]))
	}
	return out
}

func mask(key string, value any) any {
	if isSensitiveKey(key) {
		return "[REDACTED]"
	}
	return value
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range []string{"password", "credential", "apikey", "api_key", "secret", "token"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
