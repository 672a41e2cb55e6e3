// Package handlers exposes the routing service over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"road_routing/internal/models"
	"road_routing/internal/repositories"
	"road_routing/internal/search"
	"road_routing/internal/services"
)

const defaultRouteLimit = 20

type Handler struct {
	Service *services.RoutingService
}

func NewHandler(service *services.RoutingService) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts every endpoint on router.
func (h *Handler) RegisterRoutes(router *http.ServeMux) {
	router.HandleFunc("/health", h.health)
	router.HandleFunc("/api/cities", h.cities)
	router.HandleFunc("/api/route", h.route)
	router.HandleFunc("/api/compare", h.compare)
	router.HandleFunc("/api/reachable", h.reachable)
	router.HandleFunc("/api/components", h.components)
	router.HandleFunc("/api/routes", h.savedRoutes)
	router.HandleFunc("/api/network/refresh", h.refresh)
	router.HandleFunc("/api/city", h.addCity)
	router.HandleFunc("/api/connection/close", h.closeConnection)
	router.HandleFunc("/api/connection/open", h.openConnection)
	router.HandleFunc("/api/connection/distance", h.updateDistance)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if n, err := h.Service.Network(); err != nil {
		status["status"] = "loading"
	} else {
		status["cities"] = n.Graph.Len()
		status["connections"] = n.Graph.EdgeCount()
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) cities(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	cities, err := h.Service.Cities()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

type routeResponse struct {
	*models.SearchResult
	SavedID string `json:"saved_id,omitempty"`
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	from, to, ok := endpoints(w, r)
	if !ok {
		return
	}

	alg := models.AStar
	if raw := q.Get("algorithm"); raw != "" {
		parsed, err := models.ParseAlgorithm(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		alg = parsed
	}

	result, err := h.Service.FindRoute(r.Context(), from, to, alg)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := routeResponse{SearchResult: result}
	if q.Get("save") == "true" {
		saved, err := h.Service.SaveRoute(r.Context(), result)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.SavedID = saved.ID
	}

	if q.Get("format") == "text" {
		writeText(w, search.Describe(result))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	from, to, ok := endpoints(w, r)
	if !ok {
		return
	}

	cmp, err := h.Service.Compare(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		writeText(w, search.DescribeComparison(cmp))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":  cmp,
		"diverges": cmp.Diverges(),
	})
}

func (h *Handler) reachable(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	from := q.Get("from")
	maxKm, err := strconv.ParseFloat(q.Get("max_km"), 64)
	if from == "" || err != nil || math.IsNaN(maxKm) {
		writeMessage(w, http.StatusBadRequest, "'from' and a numeric 'max_km' are required")
		return
	}

	reach, err := h.Service.Reachable(r.Context(), from, maxKm)
	if errors.Is(err, search.ErrNegativeRange) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if reach == nil {
		reach = []search.Reach{}
	}
	writeJSON(w, http.StatusOK, reach)
}

func (h *Handler) components(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	comps, err := h.Service.Components()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected":  len(comps) <= 1,
		"components": comps,
	})
}

func (h *Handler) savedRoutes(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	limit := defaultRouteLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeMessage(w, http.StatusBadRequest, "'limit' must be a positive integer")
			return
		}
		limit = n
	}

	routes, err := h.Service.ListRoutes(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if routes == nil {
		routes = []models.SavedRoute{}
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := h.Service.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	n, _ := h.Service.Network()
	writeJSON(w, http.StatusOK, map[string]any{
		"cities":      n.Graph.Len(),
		"connections": n.Graph.EdgeCount(),
	})
}

func (h *Handler) addCity(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req struct {
		City        models.City         `json:"city"`
		Connections []models.Connection `json:"connections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if req.City.Name == "" {
		writeMessage(w, http.StatusBadRequest, "'city.name' is required")
		return
	}
	for _, c := range req.Connections {
		if c.From == "" || c.To == "" || c.DistanceKm <= 0 {
			writeMessage(w, http.StatusBadRequest, "connections need 'from', 'to' and a positive 'distance_km'")
			return
		}
	}

	if err := h.Service.AddCity(r.Context(), req.City, req.Connections); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, fmt.Sprintf("city '%s' and its connections saved", req.City.Name))
}

type connectionRequest struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
}

func decodeConnection(w http.ResponseWriter, r *http.Request) (connectionRequest, bool) {
	var req connectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if req.From == "" || req.To == "" {
		writeMessage(w, http.StatusBadRequest, "'from' and 'to' are required")
		return req, false
	}
	return req, true
}

func (h *Handler) closeConnection(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	req, ok := decodeConnection(w, r)
	if !ok {
		return
	}
	if err := h.Service.CloseConnection(r.Context(), req.From, req.To); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("connection between %s and %s closed", req.From, req.To))
}

func (h *Handler) openConnection(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	req, ok := decodeConnection(w, r)
	if !ok {
		return
	}
	if err := h.Service.OpenConnection(r.Context(), req.From, req.To); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("connection between %s and %s opened", req.From, req.To))
}

func (h *Handler) updateDistance(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPut) {
		return
	}
	req, ok := decodeConnection(w, r)
	if !ok {
		return
	}
	if req.DistanceKm <= 0 || math.IsInf(req.DistanceKm, 0) {
		writeMessage(w, http.StatusBadRequest, "'distance_km' must be greater than 0")
		return
	}
	if err := h.Service.UpdateConnectionDistance(r.Context(), req.From, req.To, req.DistanceKm); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("distance between %s and %s set to %.1f km", req.From, req.To, req.DistanceKm))
}

func endpoints(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeMessage(w, http.StatusBadRequest, "'from' and 'to' are required")
		return "", "", false
	}
	return from, to, true
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, search.ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrNoPath),
		errors.Is(err, repositories.ErrConnectionNotFound),
		errors.Is(err, repositories.ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNetworkNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrNoRouteStore):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	key := "message"
	if status >= http.StatusBadRequest {
		key = "error"
	}
	writeJSON(w, status, map[string]string{key: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, body)
}
