// Package server hosts the taskboard HTTP surface and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/taskboard/internal/platform/timeouts"
	"github.com/louisbranch/taskboard/internal/server/httpx"
	"github.com/louisbranch/taskboard/internal/server/observability"
	"github.com/louisbranch/taskboard/internal/storage"
)

// Config defines startup inputs for the HTTP server.
type Config struct {
	HTTPAddr string
	Tasks    storage.TaskStore
	Items    storage.ItemStore
	Users    storage.UserStore
	Logger   *log.Logger
}

// Server hosts the HTTP surface and its shutdown lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler with all routes and middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Tasks == nil {
		return nil, errors.New("task store is required")
	}
	if cfg.Items == nil {
		return nil, errors.New("item store is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("user store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := handlers{tasks: cfg.Tasks, items: cfg.Items, users: cfg.Users}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("GET /tasks", h.handleListTasks)
	mux.HandleFunc("POST /tasks", h.handleCreateTask)
	mux.HandleFunc("GET /tasks/users/all", h.handleListUsers)
	mux.HandleFunc("GET /tasks/{taskID}", h.handleGetTask)
	mux.HandleFunc("PUT /tasks/{taskID}", h.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{taskID}", h.handleDeleteTask)

	mux.HandleFunc("GET /items", h.handleListItems)
	mux.HandleFunc("POST /items", h.handleCreateItem)
	mux.HandleFunc("GET /items/{itemID}", h.handleGetItem)
	mux.HandleFunc("PUT /items/{itemID}", h.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{itemID}", h.handleDeleteItem)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}

type handlers struct {
	tasks storage.TaskStore
	items storage.ItemStore
	users storage.UserStore
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
