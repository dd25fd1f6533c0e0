package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jordandelaney/METAR-Vibe/internal/station"
	"github.com/jordandelaney/METAR-Vibe/internal/storage/sqlite"
	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// WeatherProvider serves decoded station weather
type WeatherProvider interface {
	Lookup(ctx context.Context, station string) (*weather.StationWeather, error)
}

// SearchLister serves the recent search history
type SearchLister interface {
	RecentSearches() ([]sqlite.RecentSearch, error)
}

// BriefingProvider generates plain-language pilot briefings
type BriefingProvider interface {
	Briefing(ctx context.Context, data *weather.StationWeather) (string, error)
}

// Handler contains the API handlers
type Handler struct {
	weatherService WeatherProvider
	searches       SearchLister
	briefing       BriefingProvider
	logger         *logger.Logger
	version        string
}

// NewHandler creates a new API handler. briefing may be nil when the
// feature is disabled.
func NewHandler(weatherService WeatherProvider, searches SearchLister, briefing BriefingProvider, version string, log *logger.Logger) *Handler {
	return &Handler{
		weatherService: weatherService,
		searches:       searches,
		briefing:       briefing,
		logger:         log.Named("api-handler"),
		version:        version,
	}
}

// GetWeather returns the decoded weather for one station
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	stationID, err := station.Normalize(chi.URLParam(r, "station"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.weatherService.Lookup(r.Context(), stationID)
	if err != nil {
		h.logger.Error("Weather lookup failed",
			logger.String("station", stationID),
			logger.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// GetRecentSearches returns the search history, newest first
func (h *Handler) GetRecentSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.searches.RecentSearches()
	if err != nil {
		h.logger.Error("Failed to load recent searches", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load recent searches")
		return
	}
	if searches == nil {
		searches = []sqlite.RecentSearch{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}

// briefingRequest is the POST /api/briefing body
type briefingRequest struct {
	Station string `json:"station"`
}

// GetBriefing generates an AI briefing for one station
func (h *Handler) GetBriefing(w http.ResponseWriter, r *http.Request) {
	if h.briefing == nil {
		writeError(w, http.StatusServiceUnavailable, "briefing is not enabled")
		return
	}

	var req briefingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stationID, err := station.Normalize(req.Station)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.weatherService.Lookup(r.Context(), stationID)
	if err != nil {
		h.logger.Error("Weather lookup failed",
			logger.String("station", stationID),
			logger.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	text, err := h.briefing.Briefing(r.Context(), data)
	if err != nil {
		h.logger.Error("Briefing generation failed",
			logger.String("station", stationID),
			logger.Error(err))
		writeError(w, http.StatusBadGateway, "failed to generate briefing")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"station":         data.Station,
		"flight_category": data.FlightCategory,
		"briefing":        text,
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError writes the JSON error envelope
func writeError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
