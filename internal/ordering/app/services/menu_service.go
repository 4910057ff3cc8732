package services

import (
	"context"

	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/ordering/domain/cart"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/menuapi"
	"restaurant-pos/internal/xpkg/models"
)

type MenuService struct {
	catalog core.ICatalogRepo
	api     core.IMenuAPI
	mylog   logger.Logger
}

func NewMenuService(catalog core.ICatalogRepo, api core.IMenuAPI, mylog logger.Logger) *MenuService {
	return &MenuService{
		catalog: catalog,
		api:     api,
		mylog:   mylog,
	}
}

// Seed fills the catalog from the menu API on first run, when the store
// holds no catalog value at all. A stored empty or malformed catalog is left
// alone. A fetch failure is logged and leaves the catalog empty.
func (s *MenuService) Seed(ctx context.Context) error {
	log := s.mylog.Action("catalog_seed")

	exists, err := s.catalog.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("Catalog already present, skipping seed")
		return nil
	}

	products, err := s.api.SeedCatalog(ctx)
	if err != nil {
		log.Error("Failed to fetch seed catalog", err)
		return nil
	}

	seeded, err := s.catalog.Init(ctx, products)
	if err != nil {
		return err
	}
	if !seeded {
		log.Debug("Catalog written by another process, skipping seed")
		return nil
	}
	log.Info("Catalog seeded", "products", len(products))
	return nil
}

func (s *MenuService) Menu(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return cart.FilterByCategory(products, category), nil
}

func (s *MenuService) Categories(ctx context.Context) []menuapi.Category {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		s.mylog.Action("categories_fetch_failed").Error("Failed to fetch categories", err)
		return []menuapi.Category{}
	}
	return categories
}
