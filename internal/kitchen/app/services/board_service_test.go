package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
	"restaurant-pos/internal/xpkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.StatusChanged
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, e broker.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seedOrders(t *testing.T, repo *storage.Collection[models.Order], orders ...models.Order) {
	t.Helper()
	_, err := repo.Mutate(context.Background(), func([]models.Order) ([]models.Order, error) {
		return orders, nil
	})
	require.NoError(t, err)
}

func newBoard(t *testing.T, orders ...models.Order) (*BoardService, *storage.Collection[models.Order], *recordingPublisher) {
	t.Helper()
	repo := storage.NewOrderRepo(storage.NewMemory(), logger.Nop())
	seedOrders(t, repo, orders...)

	pub := &recordingPublisher{}
	s := NewBoardService(repo, pub, logger.Nop())
	s.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, s.Refresh(context.Background()))
	return s, repo, pub
}

func order(id string, status models.Status, offset time.Duration) models.Order {
	return models.Order{
		ID:        id,
		Status:    status,
		Timestamp: base.Add(offset),
		Items:     []models.OrderLine{{ProductID: "1", Name: "Adobo", Price: 100, Quantity: 1}},
	}
}

func TestBoardService_ListByStatus(t *testing.T) {
	s, _, _ := newBoard(t,
		order("ORD10001", models.StatusPending, 0),
		order("ORD10002", models.StatusPreparing, time.Minute),
		order("ORD10003", models.StatusPending, 2*time.Minute),
		order("ORD10004", models.StatusPending, time.Minute),
	)

	var ids []string
	for _, o := range s.ListByStatus(models.StatusPending) {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"ORD10003", "ORD10004", "ORD10001"}, ids)

	assert.Len(t, s.ListByStatus(models.StatusPreparing), 1)
	assert.Empty(t, s.ListByStatus(models.StatusCompleted))
}

func TestBoardService_Workflow(t *testing.T) {
	ctx := context.Background()
	s, repo, pub := newBoard(t, order("ORD20000", models.StatusPending, 0))

	_, err := s.MarkReady(ctx, "ORD20000")
	require.ErrorIs(t, err, core.ErrInvalidTransition)

	o, err := s.StartPreparing(ctx, "ORD20000")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, o.Status)
	assert.Len(t, s.ListByStatus(models.StatusPreparing), 1, "writes refresh the snapshot")

	_, err = s.MarkReady(ctx, "ORD20000")
	require.NoError(t, err)
	_, err = s.Complete(ctx, "ORD20000")
	require.NoError(t, err)

	_, err = s.Complete(ctx, "ORD20000")
	require.ErrorIs(t, err, core.ErrInvalidTransition)
	_, err = s.StartPreparing(ctx, "ORD20000")
	require.ErrorIs(t, err, core.ErrInvalidTransition)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored[0].Status)

	require.Len(t, pub.events, 3)
	assert.Equal(t, "Order ORD20000 is now being prepared", pub.events[0].Text())
	assert.Equal(t, "Order ORD20000 is now ready for pickup", pub.events[1].Text())
	assert.Equal(t, "Order ORD20000 has been completed", pub.events[2].Text())
}

func TestBoardService_SetStatus(t *testing.T) {
	ctx := context.Background()
	s, repo, pub := newBoard(t,
		order("ORD30000", models.StatusCompleted, 0),
		order("ORD30001", models.StatusPending, 0),
	)

	o, err := s.SetStatus(ctx, "ORD30000", "pending")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)

	_, err = s.SetStatus(ctx, "ORD30001", "pending")
	require.NoError(t, err)
	assert.Len(t, pub.events, 1, "no event when the status does not change")

	_, err = s.SetStatus(ctx, "ORD30000", "cooking")
	require.ErrorIs(t, err, core.ErrUnknownStatus)

	before, err := repo.List(ctx)
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, "ORD99999", "ready")
	require.ErrorIs(t, err, core.ErrOrderNotFound)
	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBoardService_SnapshotIsStaleUntilRefresh(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newBoard(t)

	seedOrders(t, repo, order("ORD40000", models.StatusPending, 0))
	assert.Empty(t, s.ListByStatus(models.StatusPending))

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.ListByStatus(models.StatusPending), 1)
	assert.Equal(t, base.Add(time.Hour), s.RefreshedAt())
}

// gatedRepo lets a List read its data and then wait before returning.
type gatedRepo struct {
	*storage.Collection[models.Order]
	read    chan struct{}
	release chan struct{}
}

func (r *gatedRepo) List(ctx context.Context) ([]models.Order, error) {
	orders, err := r.Collection.List(ctx)
	if r.read != nil {
		close(r.read)
		<-r.release
	}
	return orders, err
}

func TestBoardService_RefreshDoesNotOverwriteNewerWrite(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewOrderRepo(storage.NewMemory(), logger.Nop())
	seedOrders(t, inner, order("ORD10001", models.StatusPending, 0))

	repo := &gatedRepo{Collection: inner}
	s := NewBoardService(repo, &recordingPublisher{}, logger.Nop())
	require.NoError(t, s.Refresh(ctx))

	repo.read = make(chan struct{})
	repo.release = make(chan struct{})

	refreshed := make(chan error, 1)
	go func() { refreshed <- s.Refresh(ctx) }()
	<-repo.read

	written := make(chan error, 1)
	go func() {
		_, err := s.StartPreparing(ctx, "ORD10001")
		written <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(repo.release)

	require.NoError(t, <-refreshed)
	require.NoError(t, <-written)

	assert.Empty(t, s.ListByStatus(models.StatusPending))
	require.Len(t, s.ListByStatus(models.StatusPreparing), 1)
}
