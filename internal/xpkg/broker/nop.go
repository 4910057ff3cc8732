package broker

import (
	"context"

	"restaurant-pos/internal/xpkg/logger"
)

// Nop drops every event. Used when no RabbitMQ host is configured.
type Nop struct {
	mylog logger.Logger
}

func NewNop(mylog logger.Logger) *Nop {
	return &Nop{mylog: mylog}
}

func (n *Nop) PublishOrderPlaced(_ context.Context, e OrderPlaced) error {
	n.mylog.Action("event_dropped").Debug("No broker configured", "event", "order_placed", "order_id", e.OrderID)
	return nil
}

func (n *Nop) PublishStatusChanged(_ context.Context, e StatusChanged) error {
	n.mylog.Action("event_dropped").Debug("No broker configured", "event", "status_changed", "order_id", e.OrderID)
	return nil
}

func (n *Nop) Close() error { return nil }
