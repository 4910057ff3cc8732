package core

import (
	"context"

	"restaurant-pos/internal/xpkg/broker"
)

type IPublisher interface {
	PublishOrderPlaced(ctx context.Context, e broker.OrderPlaced) error
	Close() error
}
