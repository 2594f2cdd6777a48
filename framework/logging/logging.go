// Package logging builds the framework's zap logger and adapts loggers to
// the container's diagnostics sink.
package logging

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-wiring/framework/config"
	"github.com/km-arc/go-wiring/framework/container"
)

// New creates a zap logger from cfg: a production JSON logger for format
// "json", a development console logger otherwise.
//
//	logger, err := logging.New(cfg.Log)
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return buildZapConfig(cfg).Build()
}

func buildZapConfig(cfg config.LogConfig) zap.Config {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig = zap.NewProductionEncoderConfig()
		zapConfig.EncoderConfig.TimeKey = "time"
		zapConfig.EncoderConfig.LevelKey = "level"
		zapConfig.EncoderConfig.MessageKey = "msg"
		zapConfig.EncoderConfig.CallerKey = "caller"
		zapConfig.EncoderConfig.StacktraceKey = "stacktrace"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	return zapConfig
}

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ── Sinks ────────────────────────────────────────────────────────────────────

// ZapSink reports container diagnostics to logger. Fatal diagnostics are
// logged at error level; the container never exits the process.
func ZapSink(logger *zap.Logger) container.Sink {
	l := logger.Named("container")
	return container.SinkFunc(func(level container.Level, msg string) {
		switch level {
		case container.LevelDebug:
			l.Debug(msg)
		case container.LevelInfo:
			l.Info(msg)
		case container.LevelWarn:
			l.Warn(msg)
		case container.LevelFatal:
			l.Error(msg, zap.Bool("fatal", true))
		default:
			l.Error(msg)
		}
	})
}

// SlogSink reports container diagnostics to a log/slog logger.
func SlogSink(logger *slog.Logger) container.Sink {
	return container.SinkFunc(func(level container.Level, msg string) {
		switch level {
		case container.LevelDebug:
			logger.Debug(msg, "component", "container")
		case container.LevelInfo:
			logger.Info(msg, "component", "container")
		case container.LevelWarn:
			logger.Warn(msg, "component", "container")
		case container.LevelFatal:
			logger.Log(context.Background(), slog.LevelError, msg, "component", "container", "fatal", true)
		default:
			logger.Error(msg, "component", "container")
		}
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware logs one line per HTTP request.
//
//	r.Middleware(logging.Middleware(logger))
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
