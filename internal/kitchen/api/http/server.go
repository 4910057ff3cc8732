package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"restaurant-pos/internal/kitchen/adapter/worker"
	"restaurant-pos/internal/kitchen/api/http/handle"
	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/kitchen/app/services"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/storage"
)

var ErrServerClosed = errors.New("Server closed")

const consumerName = "kitchen-service"

type Server struct {
	mux           *http.ServeMux
	cfg           *config.Config
	srv           *http.Server
	kitchenParams *core.KitchenParams
	mylog         logger.Logger
	store         storage.Store
	mb            broker.Publisher
	board         *services.BoardService
	worker        *worker.Worker
	ctx           context.Context
	appCtx        context.Context
	mu            sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, kitchenParams *core.KitchenParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:           ctx,
		appCtx:        appCtx,
		cfg:           cfg,
		kitchenParams: kitchenParams,
		mylog:         mylog,
		mux:           http.NewServeMux(),
	}
}

// Run opens storage and the broker, starts the board refresh and listens.
// It returns when the server stops.
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

	w := worker.NewWorker(s.board, s.kitchenParams.PollInterval, s.mylog)
	s.mu.Lock()
	s.worker = w
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.kitchenParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	w.Start(s.ctx)
	if feed, ok := mb.(core.IOrderFeed); ok {
		s.listenOrders(feed, w)
	}

	mylog.WithGroup("details").With(
		"port", s.kitchenParams.Port,
		"poll_interval", s.kitchenParams.PollInterval.String(),
	).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.worker != nil {
		if err := s.worker.Stop(); err != nil && !errors.Is(err, core.ErrWorkerStopped) {
			return err
		}
	}

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

// listenOrders refreshes the board on every placed order. Without the feed
// the poll loop alone keeps the board current.
func (s *Server) listenOrders(feed core.IOrderFeed, w *worker.Worker) {
	log := s.mylog.Action("order_feed")
	deliveries, err := feed.ConsumeKitchenOrders(s.ctx, consumerName)
	if err != nil {
		log.Error("Failed to consume placed orders, relying on polling", err)
		return
	}
	if err := w.Listen(deliveries); err != nil {
		log.Error("Failed to listen for placed orders", err)
	}
}

// Configure wires repositories, services and routes onto the mux.
func (s *Server) Configure(store storage.Store, mb broker.Publisher) {
	orderRepo := storage.NewOrderRepo(store, s.mylog)
	s.board = services.NewBoardService(orderRepo, mb, s.mylog)

	orderHandler := handle.NewOrderHandler(s.board, s.mylog)

	s.mux.Handle("GET /orders", orderHandler.List())
	s.mux.Handle("POST /orders/{id}/prepare", orderHandler.StartPreparing())
	s.mux.Handle("POST /orders/{id}/ready", orderHandler.MarkReady())
	s.mux.Handle("POST /orders/{id}/complete", orderHandler.Complete())
	s.mux.Handle("PUT /orders/{id}/status", orderHandler.SetStatus())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Board() *services.BoardService {
	return s.board
}
