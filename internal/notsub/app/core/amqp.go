package core

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IRabbitMQ interface {
	Close() error
	ConsumeNotifications(ctx context.Context, consumer string) (<-chan amqp.Delivery, error)
}
