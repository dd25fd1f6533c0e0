package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jordandelaney/METAR-Vibe/internal/config"
	"github.com/jordandelaney/METAR-Vibe/internal/websocket"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// Router wires the API handlers, WebSocket hub, and static UI into one
// HTTP handler tree.
type Router struct {
	handler  *Handler
	wsServer *websocket.Server
	config   *config.Config
	logger   *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(weatherService WeatherProvider, searches SearchLister, briefing BriefingProvider, version string, cfg *config.Config, log *logger.Logger, wsServer *websocket.Server) *Router {
	return &Router{
		handler:  NewHandler(weatherService, searches, briefing, version, log),
		wsServer: wsServer,
		config:   cfg,
		logger:   log.Named("api-router"),
	}
}

// Routes builds the route tree
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(rt.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/weather/{station}", rt.handler.GetWeather)
		r.Get("/searches", rt.handler.GetRecentSearches)
		r.Get("/health", rt.handler.GetHealth)
		r.Post("/briefing", rt.handler.GetBriefing)
	})

	if rt.config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/ws", rt.wsServer.HandleConnection)

	// Everything else is the web UI
	staticHandler := NewStaticFileHandler(rt.config.Server.StaticFilesDir, rt.logger)
	r.Handle("/*", staticHandler)

	return r
}

// requestLogger logs each request at debug level with its status and timing
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rt.logger.Debug("Request handled",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Duration("duration", time.Since(start)))
	})
}
