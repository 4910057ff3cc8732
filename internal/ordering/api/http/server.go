package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"restaurant-pos/internal/ordering/api/http/handle"
	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/ordering/app/services"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/storage"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	mux            *http.ServeMux
	cfg            *config.Config
	srv            *http.Server
	orderingParams *core.OrderingParams
	mylog          logger.Logger
	store          storage.Store
	mb             broker.Publisher
	menuService    *services.MenuService
	ctx            context.Context
	appCtx         context.Context
	mu             sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, orderingParams *core.OrderingParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:            ctx,
		appCtx:         appCtx,
		cfg:            cfg,
		orderingParams: orderingParams,
		mylog:          mylog,
		mux:            http.NewServeMux(),
	}
}

// Run opens storage and the broker, seeds the catalog and listens. It
// returns when the server stops.
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

	mb, err := broker.Open(s.appCtx, s.cfg.RMQ, s.mylog)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	s.mu.Lock()
	s.mb = mb
	s.mu.Unlock()
	mylog.Action("mb_connected").Info("Message broker ready", "enabled", s.cfg.RMQ.Enabled())

	s.Configure(store, mb)

	if err := s.menuService.Seed(s.appCtx); err != nil {
		mylog.Action("catalog_seed_failed").Error("Failed to seed catalog", err)
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.orderingParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With(
		"port", s.orderingParams.Port,
		"default_table", s.orderingParams.DefaultTable,
		"default_guests", s.orderingParams.DefaultGuests,
	).Info("server is running")
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

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
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
func (s *Server) Configure(store storage.Store, mb broker.Publisher) {
	catalogRepo := storage.NewCatalogRepo(store, s.mylog)
	orderRepo := storage.NewOrderRepo(store, s.mylog)
	menuClient := menuapi.New(s.cfg.MenuAPI, s.mylog)

	s.menuService = services.NewMenuService(catalogRepo, menuClient, s.mylog)
	cartService := services.NewCartService(catalogRepo, orderRepo, mb, s.mylog)

	menuHandler := handle.NewMenuHandler(s.menuService, s.mylog)
	cartHandler := handle.NewCartHandler(cartService, s.orderingParams, s.mylog)

	s.mux.Handle("GET /menu", menuHandler.Menu())
	s.mux.Handle("GET /categories", menuHandler.Categories())

	s.mux.Handle("POST /carts", cartHandler.Create())
	s.mux.Handle("GET /carts/{id}", cartHandler.Get())
	s.mux.Handle("DELETE /carts/{id}", cartHandler.Drop())
	s.mux.Handle("POST /carts/{id}/items", cartHandler.AddItem())
	s.mux.Handle("PATCH /carts/{id}/items/{productId}", cartHandler.ChangeQuantity())
	s.mux.Handle("DELETE /carts/{id}/items", cartHandler.Clear())
	s.mux.Handle("POST /carts/{id}/place", cartHandler.Place())
	s.mux.Handle("POST /carts/{id}/new", cartHandler.NewOrder())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) MenuService() *services.MenuService {
	return s.menuService
}
