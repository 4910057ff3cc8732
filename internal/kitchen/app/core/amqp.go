package core

import (
	"context"

	"restaurant-pos/internal/xpkg/broker"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IPublisher interface {
	PublishStatusChanged(ctx context.Context, e broker.StatusChanged) error
	Close() error
}

// IOrderFeed delivers order_placed events to the kitchen.
type IOrderFeed interface {
	ConsumeKitchenOrders(ctx context.Context, consumer string) (<-chan amqp.Delivery, error)
}
