package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/vanshika/georoute/backend/internal/config"
	"github.com/vanshika/georoute/backend/internal/logging"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	logger := logging.Discard()
	srv := New(logger, config.HTTPConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, NewRouter(logger, RouterDependencies{}))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Serve returned %v after graceful shutdown", err)
	}
}
