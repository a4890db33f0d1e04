package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("SERVER_READ_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Port != defaultPort {
		t.Errorf("expected default port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected read timeout %s, got %s", defaultReadTimeout, cfg.HTTP.ReadTimeout)
	}
}

func TestLoad_PortPrecedence(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("SERVER_PORT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Port != 5000 {
		t.Errorf("expected PORT to be honoured, got %d", cfg.HTTP.Port)
	}

	t.Setenv("SERVER_PORT", "9090")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected SERVER_PORT to win, got %d", cfg.HTTP.Port)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Error("expected out of range port to fail")
	}

	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected invalid duration to fail")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("SERVER_METRICS_ENABLED", "true")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.WriteTimeout != 3*time.Second {
		t.Errorf("expected 3s write timeout, got %s", cfg.HTTP.WriteTimeout)
	}
	if !cfg.HTTP.Metrics.Enabled {
		t.Error("expected metrics to be enabled")
	}
	if cfg.Graph.MaxConnections != 25 {
		t.Errorf("expected 25 connections, got %d", cfg.Graph.MaxConnections)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_ReportsEveryInvalidVariable(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "fast")
	t.Setenv("SERVER_METRICS_ENABLED", "sometimes")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("expected Load to fail")
	}
	for _, key := range []string{"SERVER_READ_TIMEOUT", "SERVER_METRICS_ENABLED", "GRAPH_MAX_CONNECTIONS"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s in error, got %v", key, err)
		}
	}
}

func TestLoad_CORS(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", " http://maps.local, ,http://admin.local ")
	t.Setenv("SERVER_ALLOW_CREDENTIALS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := CORSConfig{
		AllowedOrigins:   []string{"http://maps.local", "http://admin.local"},
		AllowCredentials: true,
	}
	if diff := cmp.Diff(want, cfg.HTTP.CORS); diff != "" {
		t.Errorf("CORS mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTTP.CORS.AllowsAnyOrigin() {
		t.Error("explicit origins should not count as wildcard")
	}
}

func TestLoad_CORSWildcardWithCredentials(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "*")
	t.Setenv("SERVER_ALLOW_CREDENTIALS", "true")
	if _, err := Load(); err == nil {
		t.Fatal("expected wildcard origins with credentials to be rejected")
	}

	t.Setenv("SERVER_ALLOW_CREDENTIALS", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.HTTP.CORS.AllowsAnyOrigin() || cfg.HTTP.CORS.AllowCredentials {
		t.Errorf("expected wildcard without credentials, got %+v", cfg.HTTP.CORS)
	}
}

func TestSplitList(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		want []string
	}{
		{desc: "empty", in: "", want: nil},
		{desc: "single", in: "http://localhost:3000", want: []string{"http://localhost:3000"}},
		{desc: "trims and skips blanks", in: " http://a.test , ,http://b.test", want: []string{"http://a.test", "http://b.test"}},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, SplitList(tc.in)); diff != "" {
				t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}
