package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"restaurant-pos/internal/admin/api/http/handle"
	"restaurant-pos/internal/admin/app/core"
	"restaurant-pos/internal/admin/app/services"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/storage"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	mux         *http.ServeMux
	cfg         *config.Config
	srv         *http.Server
	adminParams *core.AdminParams
	mylog       logger.Logger
	store       storage.Store
	ctx         context.Context
	appCtx      context.Context
	mu          sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, adminParams *core.AdminParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:         ctx,
		appCtx:      appCtx,
		cfg:         cfg,
		adminParams: adminParams,
		mylog:       mylog,
		mux:         http.NewServeMux(),
	}
}

// Run opens storage, registers routes and listens. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	store, err := storage.Open(s.appCtx, s.cfg, s.mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to open storage", err, "driver", s.cfg.Storage.Driver)
		return err
	}
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	mylog.Action("db_connected").Info("Storage opened", "driver", s.cfg.Storage.Driver)

	s.Configure(store)

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.adminParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.adminParams.Port).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close storage", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Storage closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and routes onto the mux.
func (s *Server) Configure(store storage.Store) {
	catalogRepo := storage.NewCatalogRepo(store, s.mylog)
	menuClient := menuapi.New(s.cfg.MenuAPI, s.mylog)

	productService := services.NewProductService(catalogRepo, s.mylog)
	categoryService := services.NewCategoryService(menuClient, s.mylog)

	productHandler := handle.NewProductHandler(productService, categoryService, s.mylog)

	s.mux.Handle("GET /products", productHandler.List())
	s.mux.Handle("POST /products", productHandler.Create())
	s.mux.Handle("PUT /products/{id}", productHandler.Update())
	s.mux.Handle("DELETE /products/{id}", productHandler.Delete())
	s.mux.Handle("GET /categories", productHandler.Categories())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}
