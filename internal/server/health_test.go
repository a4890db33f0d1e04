package server

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/georoute/backend/internal/graph"
)

func TestGraphHealthService_Probe(t *testing.T) {
	if err := (GraphHealthService{}).Probe(context.Background()); err != nil {
		t.Fatalf("health check without client should pass, got %v", err)
	}

	healthy := GraphHealthService{Client: graph.NewMemoryClient()}
	if err := healthy.Probe(context.Background()); err != nil {
		t.Fatalf("expected healthy store, got %v", err)
	}

	down := errors.New("connection refused")
	unhealthy := GraphHealthService{Client: graph.NewMemoryClient().WithConnectivityError(down)}
	if err := unhealthy.Probe(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
}
