package consumer

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"restaurant-pos/internal/notsub/app/services"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type fakeBroker struct {
	deliveries chan amqp.Delivery
	closed     bool
}

func (f *fakeBroker) ConsumeNotifications(context.Context, string) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeBroker) Close() error {
	f.closed = true
	return nil
}

func TestNotification_Run(t *testing.T) {
	acks := &ackRecorder{}
	mb := &fakeBroker{deliveries: make(chan amqp.Delivery, 3)}

	mb.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1,
		Body: []byte(`{"order_id":"ORD10000","old_status":"pending","new_status":"preparing"}`)}
	mb.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte(`{{`)}
	mb.deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 3,
		Body: []byte(`{"order_id":"ORD10000","old_status":"ready","new_status":"completed"}`)}
	close(mb.deliveries)

	var out bytes.Buffer
	n := NewNotification(context.Background(), context.Background(), config.Default(),
		services.NewNotificationService(&out, logger.Nop()), logger.Nop())
	n.mb = mb

	require.NoError(t, n.Run())
	require.NoError(t, n.Stop(context.Background()))

	assert.Equal(t, "Order ORD10000 is now being prepared\nOrder ORD10000 has been completed\n", out.String())
	assert.Equal(t, []uint64{1, 3}, acks.acked)
	assert.Equal(t, []uint64{2}, acks.nacked)
	assert.Equal(t, []bool{false}, acks.requeue)
	assert.True(t, mb.closed)
}

func TestNotification_RequiresBroker(t *testing.T) {
	n := NewNotification(context.Background(), context.Background(), config.Default(),
		services.NewNotificationService(&bytes.Buffer{}, logger.Nop()), logger.Nop())
	assert.Error(t, n.Run())
}
