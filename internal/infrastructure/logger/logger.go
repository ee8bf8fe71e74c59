// Package logger builds the zap logger shared by the storefront and adds
// helpers for the events the shop records: served requests, dashboard
// actions and authentication failures.
package logger

import (
	"fmt"
	"sort"
	"time"

	"github.com/sibstore/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger with storefront event helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger from configuration. Format "json" selects the
// production encoder; anything else selects the console encoder.
func New(cfg config.LoggerConfig) (*Logger, error) {
	zapConfig, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	zapLogger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func buildConfig(cfg config.LoggerConfig) (zap.Config, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapConfig.EncoderConfig.TimeKey = "ts"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch {
	case cfg.Output == "file" && cfg.Filename != "":
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	case cfg.Output == "stderr":
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// WithRequestID tags entries with the echo request ID.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{SugaredLogger: l.With("request_id", requestID)}
}

// WithComponent tags entries with the emitting component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{SugaredLogger: l.With("component", component)}
}

// Request describes one served HTTP request.
type Request struct {
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	IP        string
	UserAgent string
	Err       error
}

// LogRequest logs a served request. Server errors log at error level,
// client errors at warn.
func (l *Logger) LogRequest(r Request) {
	fields := []interface{}{
		"method", r.Method,
		"path", r.Path,
		"status", r.Status,
		"latency_ms", float64(r.Latency.Microseconds()) / 1000,
		"ip", r.IP,
		"user_agent", r.UserAgent,
	}
	if r.Err != nil {
		fields = append(fields, "error", r.Err.Error())
	}

	switch {
	case r.Status >= 500:
		l.Errorw("HTTP request failed", fields...)
	case r.Status >= 400:
		l.Warnw("HTTP request rejected", fields...)
	default:
		l.Infow("HTTP request", fields...)
	}
}

// LogAdminAction records a dashboard operation
func (l *Logger) LogAdminAction(adminID, action string, details map[string]interface{}) {
	fields := appendDetails([]interface{}{
		"admin_id", adminID,
		"action", action,
	}, details)

	l.Infow("Admin action", fields...)
}

// LogSecurityEvent records failed logins, rejected tokens and similar.
// adminID is omitted when the caller could not be identified.
func (l *Logger) LogSecurityEvent(event, adminID, ip string, details map[string]interface{}) {
	fields := []interface{}{
		"security_event", event,
		"ip", ip,
	}
	if adminID != "" {
		fields = append(fields, "admin_id", adminID)
	}

	l.Warnw("Security event", appendDetails(fields, details)...)
}

// appendDetails adds details in key order so entries are stable.
func appendDetails(fields []interface{}, details map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fields = append(fields, k, details[k])
	}
	return fields
}
