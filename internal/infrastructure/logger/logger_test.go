package logger

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sibstore/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(config.LoggerConfig{Level: "info", Format: format, Output: "stdout"})
		if err != nil {
			t.Fatalf("New(%s) error: %v", format, err)
		}
		if l.SugaredLogger == nil {
			t.Fatalf("New(%s) returned nil logger", format)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(config.LoggerConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestBuildConfigOutputs(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggerConfig
		want string
	}{
		{"stdout", config.LoggerConfig{Level: "info", Output: "stdout"}, "stdout"},
		{"stderr", config.LoggerConfig{Level: "info", Output: "stderr"}, "stderr"},
		{"file", config.LoggerConfig{Level: "info", Output: "file", Filename: "shop.log"}, "shop.log"},
		{"file without name", config.LoggerConfig{Level: "info", Output: "file"}, "stdout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zc, err := buildConfig(tt.cfg)
			if err != nil {
				t.Fatalf("buildConfig() error: %v", err)
			}
			if len(zc.OutputPaths) != 1 || zc.OutputPaths[0] != tt.want {
				t.Errorf("OutputPaths = %v, want [%s]", zc.OutputPaths, tt.want)
			}
		})
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.log")
	l, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	l.Infow("order created", "order_id", "abc")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"order_id":"abc"`) || !strings.Contains(string(data), `"ts":`) {
		t.Errorf("log file = %s", data)
	}
}

func TestLogRequestLevels(t *testing.T) {
	tests := []struct {
		status int
		err    error
		level  zapcore.Level
	}{
		{http.StatusOK, nil, zapcore.InfoLevel},
		{http.StatusCreated, nil, zapcore.InfoLevel},
		{http.StatusNotFound, errors.New("not found"), zapcore.WarnLevel},
		{http.StatusUnprocessableEntity, nil, zapcore.WarnLevel},
		{http.StatusInternalServerError, errors.New("db down"), zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			l, logs := newObserved(zapcore.DebugLevel)
			l.LogRequest(Request{
				Method:  http.MethodGet,
				Path:    "/api/v1/products",
				Status:  tt.status,
				Latency: 1500 * time.Microsecond,
				IP:      "10.0.0.1",
				Err:     tt.err,
			})

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Level != tt.level {
				t.Errorf("level = %v, want %v", entries[0].Level, tt.level)
			}
			fields := entries[0].ContextMap()
			if fields["latency_ms"] != 1.5 || fields["path"] != "/api/v1/products" {
				t.Errorf("unexpected fields: %v", fields)
			}
			if _, ok := fields["error"]; ok != (tt.err != nil) {
				t.Errorf("error field present = %v, want %v", ok, tt.err != nil)
			}
		})
	}
}

func TestSecurityEvent(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)

	l.LogSecurityEvent("login_unknown_user", "", "10.0.0.1", map[string]interface{}{"username": "root"})
	l.LogSecurityEvent("login_bad_password", "42", "10.0.0.2", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Level != zapcore.WarnLevel {
			t.Errorf("level = %v, want warn", e.Level)
		}
	}

	first := entries[0].ContextMap()
	if first["security_event"] != "login_unknown_user" || first["ip"] != "10.0.0.1" || first["username"] != "root" {
		t.Errorf("unexpected fields: %v", first)
	}
	if _, ok := first["admin_id"]; ok {
		t.Error("admin_id logged for unidentified caller")
	}
	if second := entries[1].ContextMap(); second["admin_id"] != "42" {
		t.Errorf("admin_id = %v, want 42", second["admin_id"])
	}
}

func TestAdminActionDetailsOrdered(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)

	l.LogAdminAction("7", "update_price", map[string]interface{}{"price": 1, "product_id": "p", "ip": "x"})

	var keys []string
	for _, f := range logs.All()[0].Context {
		keys = append(keys, f.Key)
	}
	want := "admin_id,action,ip,price,product_id"
	if got := strings.Join(keys, ","); got != want {
		t.Errorf("field order = %s, want %s", got, want)
	}
}

func TestWithComponent(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)

	l.WithComponent("orders").WithRequestID("req-1").Infow("created", "order_id", "abc")

	fields := logs.All()[0].ContextMap()
	if fields["component"] != "orders" || fields["request_id"] != "req-1" || fields["order_id"] != "abc" {
		t.Errorf("unexpected fields: %v", fields)
	}
}
