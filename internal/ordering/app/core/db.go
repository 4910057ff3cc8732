package core

import (
	"context"

	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/models"
)

type ICatalogRepo interface {
	List(ctx context.Context) ([]models.Product, error)
	Exists(ctx context.Context) (bool, error)
	Init(ctx context.Context, products []models.Product) (bool, error)
	Mutate(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) ([]models.Product, error)
}

type IOrderRepo interface {
	Mutate(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) ([]models.Order, error)
}

type IMenuAPI interface {
	Categories(ctx context.Context) ([]menuapi.Category, error)
	SeedCatalog(ctx context.Context) ([]models.Product, error)
}
