package core

import (
	"context"

	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/models"
)

type ICatalogRepo interface {
	List(ctx context.Context) ([]models.Product, error)
	Mutate(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) ([]models.Product, error)
}

type IMenuAPI interface {
	Categories(ctx context.Context) ([]menuapi.Category, error)
}
