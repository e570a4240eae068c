package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/config"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/storage/sqlite"
	"github.com/yegors/preflight/internal/weather"
	"github.com/yegors/preflight/internal/websocket"
	"github.com/yegors/preflight/pkg/logger"
)

// maxBodyBytes bounds request bodies; a full aircraft model with both charts is a few KB
const maxBodyBytes = 1 << 20

// Handler contains the API handlers
type Handler struct {
	catalog        *aircraft.Catalog
	plannerService *planner.Service
	weatherService *weather.Service
	profiles       *sqlite.ProfileStorage
	config         *config.Config
	logger         *logger.Logger
	wsServer       *websocket.Server
	startedAt      time.Time
}

// NewHandler creates a new API handler. weatherService and profiles may be nil
// when those features are not available.
func NewHandler(catalog *aircraft.Catalog, plannerService *planner.Service, weatherService *weather.Service, profiles *sqlite.ProfileStorage, config *config.Config, logger *logger.Logger, wsServer *websocket.Server) *Handler {
	return &Handler{
		catalog:        catalog,
		plannerService: plannerService,
		weatherService: weatherService,
		profiles:       profiles,
		config:         config,
		logger:         logger.Named("api-handler"),
		wsServer:       wsServer,
		startedAt:      time.Now(),
	}
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"model_count":    h.catalog.Len(),
		"weather":        h.weatherService != nil,
		"profiles":       h.profiles != nil,
	}
	if h.wsServer != nil {
		response["websocket_clients"] = h.wsServer.ClientCount()
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetConfig returns the public configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	publicConfig := map[string]any{
		"planning": map[string]any{
			"day_start_hour":      h.config.Planning.DayStartHour,
			"night_start_hour":    h.config.Planning.NightStartHour,
			"day_reserve_hours":   planner.DayReserveHours,
			"night_reserve_hours": planner.NightReserveHours,
		},
		"wx": map[string]any{
			"cache_expiry_minutes": h.config.Weather.CacheExpiryMinutes,
			"watch_stations":       h.config.Weather.WatchStations,
		},
		"storage": map[string]any{
			"type": h.config.Storage.Type,
		},
	}

	WriteJSON(w, http.StatusOK, publicConfig)
}

// HandleWebSocket upgrades the request to a WebSocket connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsServer.HandleConnection(w, r)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError writes {"error": message} with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a size-limited JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
