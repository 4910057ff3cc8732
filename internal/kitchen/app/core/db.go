package core

import (
	"context"

	"restaurant-pos/internal/xpkg/models"
)

type IOrderRepo interface {
	List(ctx context.Context) ([]models.Order, error)
	Mutate(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) ([]models.Order, error)
}
