package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jusunglee/nexttrain/internal/arrivals"
	"github.com/jusunglee/nexttrain/internal/lines"
	"github.com/jusunglee/nexttrain/internal/models"
	"github.com/jusunglee/nexttrain/pkg/mta"
	"github.com/rs/zerolog/log"
)

// Handler handles HTTP requests
type Handler struct {
	client       mta.Client
	defaultLimit int
}

// NewHandler creates a new HTTP handler
func NewHandler(client mta.Client, defaultLimit int) *Handler {
	return &Handler{client: client, defaultLimit: defaultLimit}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET", "OPTIONS")
	r.HandleFunc("/lines", h.handleLines).Methods("GET", "OPTIONS")
	r.HandleFunc("/lines/{line}/stations", h.handleStations).Methods("GET", "OPTIONS")
	r.HandleFunc("/lines/{line}/platforms", h.handlePlatforms).Methods("GET", "OPTIONS")
	r.HandleFunc("/arrivals/{line}/{station}/{direction}", h.handleArrivals).Methods("GET", "OPTIONS")
}

// ResponseMetadata is attached to every successful response
type ResponseMetadata struct {
	Updated string `json:"updated,omitempty"`
}

// LinesResponse lists the known lines
type LinesResponse struct {
	Data []string `json:"data"`
	ResponseMetadata
}

// Station is a station id with its display name
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// StationsResponse lists stations on a line
type StationsResponse struct {
	Line string    `json:"line"`
	Data []Station `json:"data"`
	ResponseMetadata
}

// PlatformsResponse lists a line's platforms by direction
type PlatformsResponse struct {
	Line  string    `json:"line"`
	North []Station `json:"N"`
	South []Station `json:"S"`
	ResponseMetadata
}

// ArrivalsResponse holds the next arrivals at one platform
type ArrivalsResponse struct {
	Line      string           `json:"line"`
	Station   Station          `json:"station"`
	Direction string           `json:"direction"`
	Data      []models.Arrival `json:"data"`
	ResponseMetadata
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title": "nexttrain",
		"usage": "GET /arrivals/{line}/{station}/{N|S}?limit=3",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, LinesResponse{
		Data:             h.client.Lines(),
		ResponseMetadata: h.getResponseMetadata(),
	})
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	line := mux.Vars(r)["line"]

	ids, err := h.client.StationsForLine(r.Context(), line)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	h.writeJSON(w, StationsResponse{
		Line:             line,
		Data:             h.named(ids),
		ResponseMetadata: h.getResponseMetadata(),
	})
}

func (h *Handler) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	line := mux.Vars(r)["line"]

	north, south, err := h.client.PlatformsForLine(r.Context(), line)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	h.writeJSON(w, PlatformsResponse{
		Line:             line,
		North:            h.named(north),
		South:            h.named(south),
		ResponseMetadata: h.getResponseMetadata(),
	})
}

func (h *Handler) handleArrivals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	dir, err := models.ParseDirection(vars["direction"])
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := h.defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil {
			h.writeError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	result, err := h.client.NextArrivals(r.Context(), vars["line"], vars["station"], dir, limit)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	h.writeJSON(w, ArrivalsResponse{
		Line:             vars["line"],
		Station:          h.station(vars["station"]),
		Direction:        string(dir),
		Data:             result,
		ResponseMetadata: h.getResponseMetadata(),
	})
}

func (h *Handler) getResponseMetadata() ResponseMetadata {
	var meta ResponseMetadata
	if updated := h.client.GetLastUpdate(); !updated.IsZero() {
		meta.Updated = updated.Format(time.RFC3339)
	}
	return meta
}

func (h *Handler) station(id string) Station {
	name, _ := h.client.StationName(id)
	return Station{ID: id, Name: name}
}

func (h *Handler) named(ids []string) []Station {
	out := make([]Station, len(ids))
	for i, id := range ids {
		out[i] = h.station(id)
	}
	return out
}

// writeClientError maps client errors onto HTTP statuses
func (h *Handler) writeClientError(w http.ResponseWriter, err error) {
	var unknown *lines.UnknownLineError
	switch {
	case errors.As(err, &unknown):
		h.writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, arrivals.ErrInvalidArgument):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Feed request failed")
		h.writeError(w, err.Error(), http.StatusBadGateway)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
