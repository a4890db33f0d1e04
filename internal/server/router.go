package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/vanshika/georoute/backend/internal/config"
)

// RequestObserver records served requests by route template.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health   HealthService
	API      *APIHandlers
	Requests RequestObserver
	Metrics  http.Handler
	CORS     config.CORSConfig
}

// NewRouter wires the HTTP routes exposed by the backend API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	}).Methods(http.MethodGet)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	if api := deps.API; api != nil {
		r.HandleFunc("/nodes", api.listNodes).Methods(http.MethodGet)
		r.HandleFunc("/nodes", api.createNode).Methods(http.MethodPost)
		r.HandleFunc("/nodes/{id}", api.updateNode).Methods(http.MethodPut)
		r.HandleFunc("/nodes/{id}", api.deleteNode).Methods(http.MethodDelete)
		r.HandleFunc("/connections", api.listConnections).Methods(http.MethodGet)
		r.HandleFunc("/connections", api.createConnection).Methods(http.MethodPost)
		r.HandleFunc("/shortest_path", api.shortestPath).Methods(http.MethodPost)
		r.HandleFunc("/shortest_path.geojson", api.shortestPathGeoJSON).Methods(http.MethodPost)
		r.HandleFunc("/export/nodos.csv", api.exportNodesCSV).Methods(http.MethodGet)
		r.HandleFunc("/export/conexiones.csv", api.exportConnectionsCSV).Methods(http.MethodGet)
		r.HandleFunc("/export/network.geojson", api.exportNetworkGeoJSON).Methods(http.MethodGet)
	}

	handler := http.Handler(r)
	if deps.Requests != nil {
		handler = requestMetricsMiddleware(r, deps.Requests, handler)
	}
	handler = loggingMiddleware(logger, handler)
	if len(deps.CORS.AllowedOrigins) > 0 {
		handler = corsMiddleware(deps.CORS)(handler)
	}
	return handler
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// unmatchedRoute labels requests that hit no route or the wrong method.
const unmatchedRoute = "unmatched"

// requestMetricsMiddleware wraps the whole router so 404 and 405 answers are
// recorded too. Routes are labelled by template, never by raw path.
func requestMetricsMiddleware(router *mux.Router, obs RequestObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		obs.ObserveRequest(r.Method, routeTemplate(router, r), rec.status, time.Since(start))
	})
}

func routeTemplate(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if !router.Match(r, &match) || match.MatchErr != nil || match.Route == nil {
		return unmatchedRoute
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// corsMiddleware only ever allows credentials for explicitly listed origins;
// an origin admitted through "*" gets a plain CORS answer.
func corsMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	normalized := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		normalized[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!containsOrigin(normalized, origin) && !containsOrigin(normalized, "*")) {
				if r.Method == http.MethodOptions {
					// Reject bare pre-flight if origin is not whitelisted.
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if cfg.AllowCredentials && origin != "*" && containsOrigin(normalized, origin) {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func containsOrigin(set map[string]struct{}, origin string) bool {
	_, ok := set[origin]
	return ok
}
