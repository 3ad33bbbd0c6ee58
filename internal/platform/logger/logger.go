package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
)

// Logger is a key/value logger over zap. Values pass through the redactor
// before they reach a sink.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for mode ("production", "test" or anything else for
// development). LOG_LEVEL overrides the mode's level.
func New(mode string) (*Logger, error) {
	cfg, lvl := configFor(mode)
	if raw := envutil.String("LOG_LEVEL", ""); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			lvl = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

func configFor(mode string) (zap.Config, zapcore.Level) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		return zap.NewProductionConfig(), zapcore.InfoLevel
	case "test":
		return zap.NewDevelopmentConfig(), zapcore.ErrorLevel
	default:
		return zap.NewDevelopmentConfig(), zapcore.DebugLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.SugaredLogger.Debugw(msg, defaultRedactor().kvs(kv)...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.SugaredLogger.Infow(msg, defaultRedactor().kvs(kv)...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.SugaredLogger.Warnw(msg, defaultRedactor().kvs(kv)...)
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	l.SugaredLogger.Errorw(msg, defaultRedactor().kvs(kv)...)
}

func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.SugaredLogger.Fatalw(msg, defaultRedactor().kvs(kv)...)
}

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(defaultRedactor().kvs(kv)...)}
}
