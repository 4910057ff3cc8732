package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBoard struct {
	calls atomic.Int32
	err   error
}

func (b *countingBoard) Refresh(context.Context) error {
	b.calls.Add(1)
	return b.err
}

func TestWorker_RefreshesOnInterval(t *testing.T) {
	board := &countingBoard{}
	w := NewWorker(board, 10*time.Millisecond, logger.Nop())

	w.Start(context.Background())
	assert.GreaterOrEqual(t, board.calls.Load(), int32(1), "refreshes immediately")

	require.Eventually(t, func() bool {
		return board.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	stopped := board.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, board.calls.Load())

	assert.ErrorIs(t, w.Stop(), core.ErrWorkerStopped)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	board := &countingBoard{err: errors.New("store down")}
	w := NewWorker(board, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	require.Eventually(t, func() bool {
		return board.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, w.Stop())
}

type ackRecorder struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *ackRecorder) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.acked), len(a.nacked)
}

func TestWorker_ListenRefreshesOnPlacedOrder(t *testing.T) {
	board := &countingBoard{}
	w := NewWorker(board, time.Hour, logger.Nop())

	deliveries := make(chan amqp.Delivery, 2)
	require.ErrorIs(t, w.Listen(deliveries), core.ErrWorkerStopped)

	w.Start(context.Background())
	require.Equal(t, int32(1), board.calls.Load())
	require.NoError(t, w.Listen(deliveries))

	acks := &ackRecorder{}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: []byte(`{"order_id":"ORD12345","table_number":3}`)}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte(`not json`)}

	require.Eventually(t, func() bool {
		acked, nacked := acks.counts()
		return acked == 1 && nacked == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(2), board.calls.Load())
	assert.Equal(t, []uint64{1}, acks.acked)
	assert.Equal(t, []uint64{2}, acks.nacked)
	assert.Equal(t, []bool{false}, acks.requeue)

	require.NoError(t, w.Stop())
}
