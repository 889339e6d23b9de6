package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/core/services"
	"github.com/vibin/news-relay/internal/logger"
)

// Relay is the core behaviour the HTTP layer drives
type Relay interface {
	Handle(ctx context.Context, msg domain.IncomingMessage) error
	Preview(ctx context.Context, msg domain.IncomingMessage) (services.Route, domain.ResponseBatch, error)
	Triggers() []services.Trigger
}

// Handler is the HTTP handler for the relay
type Handler struct {
	service       Relay
	channelSecret string
	logger        logger.Logger
	router        *chi.Mux
}

// NewHandler creates a new HTTP handler. channelSecret verifies webhook signatures.
func NewHandler(service Relay, channelSecret string, log logger.Logger) *Handler {
	h := &Handler{
		service:       service,
		channelSecret: channelSecret,
		logger:        log,
	}

	h.setupRouter()
	return h
}

// setupRouter sets up the Chi router with middleware and routes
func (h *Handler) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/callback", h.Callback)
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/triggers", h.ListTriggers)
		r.Post("/preview", h.Preview)
	})

	h.router = r
}

// ServeHTTP implements the http.Handler interface
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTriggers returns the routing table in priority order
func (h *Handler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.service.Triggers())
}

type previewRequest struct {
	Text string                  `json:"text"`
	Kind domain.ConversationKind `json:"kind"`
}

type previewResponse struct {
	Routed bool                 `json:"routed"`
	Source string               `json:"source,omitempty"`
	Query  string               `json:"query,omitempty"`
	Batch  domain.ResponseBatch `json:"batch,omitempty"`
}

// Preview runs a message through routing and retrieval without replying to anyone
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !req.Kind.Valid() {
		h.respondWithError(w, http.StatusBadRequest, "kind must be \"individual\" or \"group\"")
		return
	}

	route, batch, err := h.service.Preview(r.Context(), domain.IncomingMessage{Text: req.Text, Kind: req.Kind})
	if err != nil {
		h.logger.Error("Preview failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Failed to run preview")
		return
	}

	resp := previewResponse{Routed: batch != nil}
	if resp.Routed {
		resp.Source = route.Source
		resp.Query = route.Query
		resp.Batch = batch
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

// respondWithError sends an error response
func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// LoggerMiddleware is a middleware that logs HTTP requests
func LoggerMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
