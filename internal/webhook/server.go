package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mattjoyce/prmon/internal/links"
)

// Config holds the immutable per-session state the server filters against.
type Config struct {
	// TargetPR is the pull request being monitored.
	TargetPR int

	// LinkedIssues are the issue numbers discovered from the PR body.
	// Read-only once the server is constructed.
	LinkedIssues links.Set

	// Secret is the shared HMAC secret. Empty disables signature
	// verification, which is an explicit opt-out and reduces security.
	Secret string

	// Host is the bind address (default: loopback only).
	Host string
}

// Server receives webhook deliveries for a single monitored PR.
type Server struct {
	config  Config
	onEvent EventSink
	onError func(error)
	logger  *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New creates a webhook server. onEvent receives every normalized event;
// onError receives internal errors recovered at the request boundary.
// Either callback may be nil.
func New(config Config, onEvent EventSink, onError func(error), logger *slog.Logger) *Server {
	if config.Host == "" {
		config.Host = "127.0.0.1"
	}
	if config.LinkedIssues == nil {
		config.LinkedIssues = make(links.Set)
	}
	return &Server{
		config:  config,
		onEvent: onEvent,
		onError: onError,
		logger:  logger,
	}
}

// Listen binds an ephemeral port on the configured host. The assigned port
// is available from Port once Listen returns.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.config.Host, "0"))
	if err != nil {
		return fmt.Errorf("webhook server bind failed: %w", err)
	}
	s.listener = ln
	return nil
}

// Port returns the port assigned at Listen time.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve runs the server on the bound listener until ctx is cancelled
// (blocking). Shutdown stops accepting new connections and waits for
// in-flight requests before returning.
func (s *Server) Serve(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server listening",
		"addr", s.listener.Addr().String(),
		"target_pr", s.config.TargetPR,
		"linked_issues", s.config.LinkedIssues.Len(),
		"signature_check", s.config.Secret != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router. Only POST / exists; everything
// else is answered 404 so probes learn nothing about the endpoint.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverer)

	r.Post("/", s.handleDelivery)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.respondError(w, http.StatusNotFound, "Not found")
	})

	return r
}

// loggingMiddleware logs HTTP requests (excludes payload content).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverer catches panics at the request boundary. The process keeps
// serving subsequent deliveries.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic during delivery handling: %v", rec)
				s.logger.Error("webhook handler panic",
					"error", err,
					"request_id", middleware.GetReqID(r.Context()),
				)
				if s.onError != nil {
					s.onError(err)
				}
				s.respondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleDelivery validates and dispatches one webhook delivery. Deliveries
// that pass validation are always acknowledged 200, whether or not they
// produce an event.
func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if s.config.Secret != "" {
		if !VerifySignature(body, r.Header.Get(HeaderSignature), s.config.Secret) {
			s.logger.Warn("webhook signature verification failed",
				"request_id", middleware.GetReqID(r.Context()),
			)
			s.respondError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
	}

	eventType := r.Header.Get(HeaderEvent)
	if eventType == "" {
		s.respondError(w, http.StatusBadRequest, "Missing X-GitHub-Event header")
		return
	}

	if !json.Valid(body) {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	deliveryID := r.Header.Get(HeaderDelivery)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	ev, err := Dispatch(eventType, body, s.config.TargetPR, s.config.LinkedIssues)
	if err != nil {
		// Valid JSON that doesn't match its declared shape. Acknowledge
		// anyway so the delivery isn't retried forever.
		s.logger.Warn("webhook payload did not match event schema",
			"event_type", eventType,
			"delivery_id", deliveryID,
			"error", err,
		)
		s.respondJSON(w, http.StatusOK, okResponse{OK: true})
		return
	}

	if ev != nil {
		s.logger.Debug("webhook event normalized",
			"event_type", eventType,
			"delivery_id", deliveryID,
			"kind", ev.Kind(),
		)
		if s.onEvent != nil {
			s.onEvent(ev)
		}
	}

	s.respondJSON(w, http.StatusOK, okResponse{OK: true})
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
