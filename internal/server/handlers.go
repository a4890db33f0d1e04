package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vanshika/georoute/backend/internal/domain"
	"github.com/vanshika/georoute/backend/internal/export"
	"github.com/vanshika/georoute/backend/internal/pathfinder"
	"github.com/vanshika/georoute/backend/internal/repository"
	"github.com/vanshika/georoute/backend/internal/service"
)

// NetworkService is the behaviour the HTTP layer needs from the service layer.
type NetworkService interface {
	ListNodes(ctx context.Context) ([]domain.Node, error)
	CreateNode(ctx context.Context, input service.NodeInput) (domain.Node, error)
	UpdateNode(ctx context.Context, id int64, input service.NodeInput) (domain.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	ListEdges(ctx context.Context) ([]domain.Edge, error)
	CreateEdge(ctx context.Context, input service.EdgeInput) (domain.Edge, error)
	Snapshot(ctx context.Context) (domain.NetworkSnapshot, error)
	ShortestPath(ctx context.Context, q service.RouteQuery) (domain.Route, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service NetworkService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc NetworkService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) listNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.service.ListNodes(r.Context())
	if err != nil {
		h.fail(w, err, "failed to list nodes")
		return
	}
	resp := make([]nodeResponse, 0, len(nodes))
	for _, n := range nodes {
		resp = append(resp, toNodeResponse(n))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) createNode(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeNodeRequest(w, r)
	if !ok {
		return
	}
	node, err := h.service.CreateNode(r.Context(), input)
	if err != nil {
		h.fail(w, err, "failed to create node")
		return
	}
	respondJSON(w, http.StatusCreated, toNodeResponse(node))
}

func (h *APIHandlers) updateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	input, ok := decodeNodeRequest(w, r)
	if !ok {
		return
	}
	node, err := h.service.UpdateNode(r.Context(), id, input)
	if err != nil {
		h.fail(w, err, "failed to update node", "nodeId", id)
		return
	}
	respondJSON(w, http.StatusOK, toNodeResponse(node))
}

func (h *APIHandlers) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteNode(r.Context(), id); err != nil {
		h.fail(w, err, "failed to delete node", "nodeId", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) listConnections(w http.ResponseWriter, r *http.Request) {
	edges, err := h.service.ListEdges(r.Context())
	if err != nil {
		h.fail(w, err, "failed to list connections")
		return
	}
	resp := make([]connectionResponse, 0, len(edges))
	for _, e := range edges {
		resp = append(resp, toConnectionResponse(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) createConnection(w http.ResponseWriter, r *http.Request) {
	var payload connectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.From == nil || payload.To == nil || payload.Weight == nil {
		writeError(w, http.StatusBadRequest, "from, to and weight are required")
		return
	}

	edge, err := h.service.CreateEdge(r.Context(), service.EdgeInput{
		From:   *payload.From,
		To:     *payload.To,
		Weight: *payload.Weight,
	})
	if err != nil {
		h.fail(w, err, "failed to create connection", "from", *payload.From, "to", *payload.To)
		return
	}
	respondJSON(w, http.StatusCreated, toConnectionResponse(edge))
}

func (h *APIHandlers) shortestPath(w http.ResponseWriter, r *http.Request) {
	route, ok := h.computeRoute(w, r)
	if !ok {
		return
	}
	resp := routeResponse{
		Path:     make([]nodeResponse, 0, len(route.Path)),
		Distance: route.Distance,
	}
	for _, n := range route.Path {
		resp.Path = append(resp.Path, toNodeResponse(n))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) shortestPathGeoJSON(w http.ResponseWriter, r *http.Request) {
	route, ok := h.computeRoute(w, r)
	if !ok {
		return
	}
	body, err := export.MarshalFeatureCollection(export.RouteFeatureCollection(route))
	if err != nil {
		h.fail(w, err, "failed to encode route")
		return
	}
	respondRaw(w, geoJSONContentType, body)
}

func (h *APIHandlers) computeRoute(w http.ResponseWriter, r *http.Request) (domain.Route, bool) {
	var payload routeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Route{}, false
	}
	if payload.Origin == nil || payload.Dest == nil {
		writeError(w, http.StatusBadRequest, "origin and dest are required")
		return domain.Route{}, false
	}

	route, err := h.service.ShortestPath(r.Context(), service.RouteQuery{
		Origin:    *payload.Origin,
		Dest:      *payload.Dest,
		Waypoints: payload.Waypoints,
	})
	if errors.Is(err, pathfinder.ErrNoRoute) {
		h.logger.Debug("no route", "origin", *payload.Origin, "dest", *payload.Dest, "error", err)
		writeError(w, http.StatusBadRequest, pathfinder.ErrNoRoute.Error())
		return domain.Route{}, false
	}
	if err != nil {
		h.fail(w, err, "failed to compute route", "origin", *payload.Origin, "dest", *payload.Dest)
		return domain.Route{}, false
	}
	return route, true
}

func (h *APIHandlers) exportNodesCSV(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.service.ListNodes(r.Context())
	if err != nil {
		h.fail(w, err, "failed to export nodes")
		return
	}
	var buf bytes.Buffer
	if err := export.WriteNodesCSV(&buf, nodes); err != nil {
		h.fail(w, err, "failed to export nodes")
		return
	}
	respondRaw(w, csvContentType, buf.Bytes())
}

func (h *APIHandlers) exportConnectionsCSV(w http.ResponseWriter, r *http.Request) {
	edges, err := h.service.ListEdges(r.Context())
	if err != nil {
		h.fail(w, err, "failed to export connections")
		return
	}
	var buf bytes.Buffer
	if err := export.WriteEdgesCSV(&buf, edges); err != nil {
		h.fail(w, err, "failed to export connections")
		return
	}
	respondRaw(w, csvContentType, buf.Bytes())
}

func (h *APIHandlers) exportNetworkGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, err, "failed to export network")
		return
	}
	body, err := export.MarshalFeatureCollection(export.NetworkFeatureCollection(snap))
	if err != nil {
		h.fail(w, err, "failed to export network")
		return
	}
	respondRaw(w, geoJSONContentType, body)
}

// fail maps service errors onto status codes. Only unexpected failures are
// logged; msg is what the client sees for those.
func (h *APIHandlers) fail(w http.ResponseWriter, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(msg, append([]any{"error", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// --- Request & Response DTOs ---

// nodeRequest accepts an id so clients can send back a node they listed; the
// store or the path decides the id, never the body.
type nodeRequest struct {
	ID   *int64   `json:"id,omitempty"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type connectionRequest struct {
	From   *int64   `json:"from"`
	To     *int64   `json:"to"`
	Weight *float64 `json:"weight"`
}

type routeRequest struct {
	Origin    *int64  `json:"origin"`
	Dest      *int64  `json:"dest"`
	Waypoints []int64 `json:"waypoints"`
}

type nodeResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type connectionResponse struct {
	ID     int64   `json:"id"`
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Weight float64 `json:"weight"`
}

type routeResponse struct {
	Path     []nodeResponse `json:"path"`
	Distance float64        `json:"distance"`
}

// --- Helpers ---

const (
	csvContentType     = "text/csv"
	geoJSONContentType = "application/geo+json"
)

func toNodeResponse(n domain.Node) nodeResponse {
	return nodeResponse{ID: n.ID, Name: n.Name, Lat: n.Lat, Lng: n.Lng}
}

func toConnectionResponse(e domain.Edge) connectionResponse {
	return connectionResponse{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight}
}

func decodeNodeRequest(w http.ResponseWriter, r *http.Request) (service.NodeInput, bool) {
	var payload nodeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.NodeInput{}, false
	}
	if payload.Lat == nil || payload.Lng == nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return service.NodeInput{}, false
	}
	return service.NodeInput{Name: payload.Name, Lat: *payload.Lat, Lng: *payload.Lng}, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func respondRaw(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
