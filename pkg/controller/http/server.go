package http

import (
	"context"
	"net/http"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

// ReloadFunc replaces the ticket snapshot from the configured source
type ReloadFunc func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server exposing the board API
func NewServer(ctx context.Context, addr string, board *usecase.Board, reload ReloadFunc) (*Server, error) {
	if board == nil {
		return nil, goerr.New("board use case is required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	handler := newBoardHandler(board, reload)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/tickets", handler.handleTickets)
		r.Get("/metrics", handler.handleMetrics)
		r.Get("/groups/{key}", handler.handleGroups)
		r.Get("/top-issues", handler.handleTopIssues)
		r.Get("/export.csv", handler.handleExport)
		r.Post("/reload", handler.handleReload)
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		Server: httpServer,
		router: router,
	}, nil
}

// Router returns the chi router, mainly for tests
func (s *Server) Router() chi.Router {
	return s.router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
