// Package httpapi exposes map conversion, minimap rendering, AWBW lookups
// and per-user sessions over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/listener"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/monitoring"
)

// MaxBodySize caps uploaded map bytes.
const MaxBodySize = 4 << 20

// Options configures the router. Monitor and Listener may be nil.
type Options struct {
	Monitor        *monitoring.Monitor
	Listener       *listener.Listener
	RequestTimeout time.Duration
}

// NewRouter configures all routes and returns the handler
func NewRouter(svc *mapservice.Service, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	h := &handlers{svc: svc, monitor: opts.Monitor, listener: opts.Listener}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recovery)
	r.Use(chimw.Timeout(opts.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		if h.monitor != nil {
			r.Get("/runtime", h.runtime)
		}

		r.Route("/maps", func(r chi.Router) {
			r.Post("/convert", h.convert)
			r.Post("/minimap", h.minimap)
			r.Post("/summary", h.summary)
		})

		r.Route("/awbw/{id}", func(r chi.Router) {
			r.Get("/", h.awbwMap)
			r.Get("/minimap", h.awbwMinimap)
		})

		if h.listener != nil {
			r.Post("/chat/messages", h.chatMessage)
		}

		r.Route("/sessions/{user}", func(r chi.Router) {
			r.Put("/", h.loadSession)
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Get("/minimap", h.sessionMinimap)
		})
	})

	return gzhttp.GzipHandler(r)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondMapError maps an error kind to a status code.
func respondMapError(w http.ResponseWriter, err error) {
	respondError(w, StatusCode(err), err.Error())
}

// StatusCode returns the HTTP status for a map error.
func StatusCode(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, awmap.ErrMapNotFound):
		return http.StatusNotFound
	case errors.Is(err, awmap.ErrBadFormat),
		errors.Is(err, awmap.ErrDimensionMismatch),
		errors.Is(err, awmap.ErrInvalidTerrain),
		errors.Is(err, awmap.ErrInvalidUnit),
		errors.Is(err, mapservice.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
