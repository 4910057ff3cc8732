package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

// BoardService serves the kitchen display from a snapshot of the Order
// Store. The snapshot is refreshed by the worker and after every write made
// through this service.
type BoardService struct {
	orders    core.IOrderRepo
	publisher core.IPublisher
	mylog     logger.Logger
	now       func() time.Time

	// syncMu orders store reads and writes with the snapshot updates they
	// produce, so an older read never replaces a newer snapshot.
	syncMu sync.Mutex

	mu          sync.RWMutex
	snapshot    []models.Order
	refreshedAt time.Time
}

func NewBoardService(orders core.IOrderRepo, publisher core.IPublisher, mylog logger.Logger) *BoardService {
	return &BoardService{
		orders:    orders,
		publisher: publisher,
		mylog:     mylog,
		now:       time.Now,
	}
}

func (s *BoardService) Refresh(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	orders, err := s.orders.List(ctx)
	if err != nil {
		return err
	}
	s.setSnapshot(orders)
	return nil
}

func (s *BoardService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// ListByStatus returns the snapshot's orders in status, newest first.
func (s *BoardService) ListByStatus(status models.Status) []models.Order {
	s.mu.RLock()
	filtered := []models.Order{}
	for _, o := range s.snapshot {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})
	return filtered
}

func (s *BoardService) StartPreparing(ctx context.Context, id string) (models.Order, error) {
	return s.advance(ctx, id, models.StatusPreparing)
}

func (s *BoardService) MarkReady(ctx context.Context, id string) (models.Order, error) {
	return s.advance(ctx, id, models.StatusReady)
}

func (s *BoardService) Complete(ctx context.Context, id string) (models.Order, error) {
	return s.advance(ctx, id, models.StatusCompleted)
}

// SetStatus overwrites the status without checking the workflow order.
func (s *BoardService) SetStatus(ctx context.Context, id, status string) (models.Order, error) {
	to, ok := models.ParseStatus(status)
	if !ok {
		return models.Order{}, fmt.Errorf("%w: %q", core.ErrUnknownStatus, status)
	}
	return s.transition(ctx, id, to, false)
}

func (s *BoardService) advance(ctx context.Context, id string, to models.Status) (models.Order, error) {
	return s.transition(ctx, id, to, true)
}

func (s *BoardService) transition(ctx context.Context, id string, to models.Status, strict bool) (models.Order, error) {
	var (
		from    models.Status
		updated models.Order
	)
	s.syncMu.Lock()
	orders, err := s.orders.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			from = orders[i].Status
			if strict && !from.CanTransition(to) {
				return nil, fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, from, to)
			}
			orders[i].Status = to
			updated = orders[i]
			return orders, nil
		}
		return nil, fmt.Errorf("%w: %s", core.ErrOrderNotFound, id)
	})
	if err == nil {
		s.setSnapshot(orders)
	}
	s.syncMu.Unlock()
	if err != nil {
		return models.Order{}, err
	}

	s.mylog.Action("status_changed").Info("Order status changed", "order_id", id, "old_status", from, "new_status", to)

	if from != to {
		event := broker.NewStatusChanged(id, from, to, s.now())
		if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
			s.mylog.Action("status_publish_failed").Error("Failed to publish status change", err, "order_id", id)
		}
	}
	return updated, nil
}

func (s *BoardService) setSnapshot(orders []models.Order) {
	s.mu.Lock()
	s.snapshot = orders
	s.refreshedAt = s.now()
	s.mu.Unlock()
}
