package worker

import (
	"context"
	"sync"
	"time"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/logger"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// Worker re-reads the Order Store on a fixed interval so that orders
// placed by other processes reach the kitchen board.
type Worker struct {
	board    Refresher
	interval time.Duration
	mylog    logger.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

func NewWorker(board Refresher, interval time.Duration, mylog logger.Logger) *Worker {
	return &Worker{
		board:    board,
		interval: interval,
		mylog:    mylog.Action("board_refresh"),
	}
}

// Start refreshes once and then on every tick until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.ctx = ctx
	w.running = true

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.mylog.Debug("board refresh stopped")
				return
			case <-ticker.C:
				w.refresh(ctx)
			}
		}
	}()
	w.mylog.Info("board refresh started", "interval", w.interval.String())
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return core.ErrWorkerStopped
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *Worker) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
	defer cancel()

	if err := w.board.Refresh(ctx); err != nil {
		w.mylog.Error("Failed to refresh kitchen board", err)
		return
	}
	w.mylog.Debug("kitchen board refreshed")
}
