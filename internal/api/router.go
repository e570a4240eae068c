package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/config"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/storage/sqlite"
	"github.com/yegors/preflight/internal/weather"
	"github.com/yegors/preflight/internal/websocket"
	"github.com/yegors/preflight/pkg/logger"
)

// requestTimeout bounds a single API request; weather fetches retry inside it
const requestTimeout = 30 * time.Second

// Router wires the API handlers to their routes
type Router struct {
	handler *Handler
	config  *config.Config
	logger  *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(catalog *aircraft.Catalog, plannerService *planner.Service, weatherService *weather.Service, profiles *sqlite.ProfileStorage, cfg *config.Config, log *logger.Logger, wsServer *websocket.Server) *Router {
	return &Router{
		handler: NewHandler(catalog, plannerService, weatherService, profiles, cfg, log, wsServer),
		config:  cfg,
		logger:  log.Named("api-router"),
	}
}

// Routes returns the HTTP handler for every route
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(rt.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(rt.cors)

	h := rt.handler

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/health", h.GetHealth)
		r.Get("/config", h.GetConfig)

		r.Route("/aircraft", func(r chi.Router) {
			r.Get("/", h.GetAllAircraft)
			r.Get("/{code}", h.GetAircraft)
			r.Put("/{code}", h.PutAircraft)
			r.Get("/{code}/performance", h.GetAircraftPerformance)
		})

		r.Post("/plan", h.PostPlan)
		r.Get("/weather/{station}", h.GetWeather)

		if h.profiles != nil {
			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", h.GetProfiles)
				r.Post("/", h.CreateProfile)
				r.Get("/{id}", h.GetProfile)
				r.Put("/{id}", h.UpdateProfile)
				r.Delete("/{id}", h.DeleteProfile)
				r.Post("/{id}/move", h.MoveProfile)
			})
		}
	})

	if h.wsServer != nil {
		r.Get("/ws", h.HandleWebSocket)
	}

	if rt.config.Server.StaticFilesDir != "" {
		r.Handle("/*", NewStaticFileHandler(rt.config.Server.StaticFilesDir, rt.logger))
	}

	return r
}

// requestLogger logs each request once it completes
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		rt.logger.Debug("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Int("bytes", ww.BytesWritten()),
			logger.Duration("duration", time.Since(start)),
			logger.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// cors applies the configured allowed origins
func (rt *Router) cors(next http.Handler) http.Handler {
	allowed := rt.config.Server.CORSAllowedOrigins
	allowAll := false
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				for _, o := range allowed {
					if strings.EqualFold(o, origin) {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
						break
					}
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
