package broker

import (
	"context"
	"fmt"
	"time"

	"restaurant-pos/internal/xpkg/models"
)

const (
	OrdersExchange        = "pos_orders"
	NotificationsExchange = "pos_notifications"

	RoutingKitchenPending = "kitchen.pending"
)

type OrderPlaced struct {
	OrderID     string             `json:"order_id"`
	TableNumber int                `json:"table_number"`
	GuestCount  int                `json:"guest_count"`
	Items       []models.OrderLine `json:"items"`
	Total       float64            `json:"total"`
	Timestamp   string             `json:"timestamp"`
}

type StatusChanged struct {
	OrderID   string        `json:"order_id"`
	OldStatus models.Status `json:"old_status"`
	NewStatus models.Status `json:"new_status"`
	Timestamp string        `json:"timestamp"`
}

func NewOrderPlaced(o models.Order) OrderPlaced {
	return OrderPlaced{
		OrderID:     o.ID,
		TableNumber: o.TableNumber,
		GuestCount:  int(o.GuestCount),
		Items:       o.Items,
		Total:       models.ComputeTotals(o.Items).Total,
		Timestamp:   o.Timestamp.UTC().Format(time.RFC3339),
	}
}

func NewStatusChanged(orderID string, from, to models.Status, at time.Time) StatusChanged {
	return StatusChanged{
		OrderID:   orderID,
		OldStatus: from,
		NewStatus: to,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// Text is the line shown to staff, e.g. "Order ORD12345 is now ready for pickup".
func (e StatusChanged) Text() string {
	return fmt.Sprintf("Order %s %s", e.OrderID, e.NewStatus.Verb())
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
	PublishStatusChanged(ctx context.Context, e StatusChanged) error
	Close() error
}
