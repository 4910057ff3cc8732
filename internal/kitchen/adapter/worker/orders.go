package worker

import (
	"context"
	"encoding/json"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/broker"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Listen refreshes the board whenever an order_placed event arrives, ahead
// of the next tick. It stops together with the poll loop.
func (w *Worker) Listen(deliveries <-chan amqp.Delivery) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return core.ErrWorkerStopped
	}
	ctx := w.ctx

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					w.mylog.Debug("order feed closed")
					return
				}
				w.processOrder(ctx, msg)
			}
		}
	}()
	w.mylog.Info("listening for placed orders")
	return nil
}

// processOrder acks after a refresh attempt. A failed refresh is left to the
// poll loop; a malformed event is dropped.
func (w *Worker) processOrder(ctx context.Context, msg amqp.Delivery) {
	var e broker.OrderPlaced
	if err := json.Unmarshal(msg.Body, &e); err != nil || e.OrderID == "" {
		w.mylog.Warn("dropping malformed order event", "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			w.mylog.Error("Failed to nack", err)
		}
		return
	}

	w.mylog.Debug("order placed", "order_id", e.OrderID)
	w.refresh(ctx)

	if err := msg.Ack(false); err != nil {
		w.mylog.Error("Failed to ack order event", err)
	}
}
