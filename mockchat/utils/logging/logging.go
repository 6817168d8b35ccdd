package logging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Loggers are no-ops until InitLogger runs, so packages can log from tests
// without any setup.
var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger   = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

type traceIDKey struct{}

// WithTraceID tags ctx so LogDuration can correlate timings with a request.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func ensureLogsDir(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

func rotated(dir, name string, maxSize, maxAge int) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename: filepath.Join(dir, name), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
	})
}

// InitLogger points the package loggers at rotated JSON files under dir.
// When console is set, app and error entries are also echoed to stderr.
func InitLogger(dir string, console bool) error {
	if err := ensureLogsDir(dir); err != nil {
		return err
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	appCore := zapcore.NewCore(encoder, rotated(dir, "app.log", 100, 28), zap.InfoLevel)
	errorCore := zapcore.NewCore(encoder, rotated(dir, "error.log", 100, 30), zap.ErrorLevel)
	if console {
		consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), zap.InfoLevel)
		appCore = zapcore.NewTee(appCore, consoleCore)
		errorCore = zapcore.NewTee(errorCore, consoleCore)
	}
	AppLogger = zap.New(appCore)
	ErrorLogger = zap.New(errorCore)

	RequestLogger = zap.New(zapcore.NewCore(encoder, rotated(dir, "request.log", 50, 7), zap.InfoLevel))
	TimerLogger = zap.New(zapcore.NewCore(encoder, rotated(dir, "timer.log", 50, 7), zap.InfoLevel))
	return nil
}

// Sync flushes every logger; call it on shutdown.
func Sync() {
	for _, l := range []*zap.Logger{AppLogger, RequestLogger, TimerLogger, ErrorLogger} {
		_ = l.Sync()
	}
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	traceID, _ := ctx.Value(traceIDKey{}).(string)

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		// timer.log only
		TimerLogger.Info("Function timed", fields...)
	}
}
