package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	u "github.com/riteshkumar/payments-engine/internal/utils"
)

// AdminHandler exposes a read-only HTTP surface over the shared engine:
// a health check and the current account snapshot. It performs no
// mutations; all writes go through the transaction listener.
type AdminHandler struct {
	server *Server
	logger *slog.Logger
}

func NewAdminHandler(server *Server, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		server: server,
		logger: logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, h.server.Snapshot())
}

// LoggingMiddleware logs incoming HTTP requests with a correlation id
func LoggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("incoming request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
