package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"restaurant-pos/internal/admin/app/core"
	"restaurant-pos/internal/admin/domain/dto"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

type ProductService struct {
	repo  core.ICatalogRepo
	mylog logger.Logger
	now   func() time.Time
}

func NewProductService(repo core.ICatalogRepo, mylog logger.Logger) *ProductService {
	return &ProductService{
		repo:  repo,
		mylog: mylog,
		now:   time.Now,
	}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// Validate applies the admin form rules: a non-blank name and a non-negative price.
func (s *ProductService) Validate(req dto.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: %w", core.ErrInvalidProduct, core.ErrEmptyName)
	}
	if req.Price == nil || *req.Price < 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
		return fmt.Errorf("%w: %w", core.ErrInvalidProduct, core.ErrNegativePrice)
	}
	return nil
}

func (s *ProductService) Add(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	if err := s.Validate(req); err != nil {
		return models.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	product := models.Product{
		Name:     name,
		Price:    *req.Price,
		Category: strings.TrimSpace(req.Category),
		Image:    models.PlaceholderImage(name),
	}

	_, err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		product.ID = s.uniqueID(products)
		return append(products, product), nil
	})
	if err != nil {
		return models.Product{}, err
	}

	s.mylog.Action("product_added").Info("Product added", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update replaces every field but the id. An empty image is regenerated
// from the new name.
func (s *ProductService) Update(ctx context.Context, id string, req dto.ProductRequest) (models.Product, error) {
	if err := s.Validate(req); err != nil {
		return models.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	updated := models.Product{
		ID:       id,
		Name:     name,
		Price:    *req.Price,
		Category: strings.TrimSpace(req.Category),
		Image:    strings.TrimSpace(req.Image),
	}
	if updated.Image == "" {
		updated.Image = models.PlaceholderImage(name)
	}

	_, err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				products[i] = updated
				return products, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", core.ErrProductNotFound, id)
	})
	if err != nil {
		return models.Product{}, err
	}

	s.mylog.Action("product_updated").Info("Product updated", "product_id", id)
	return updated, nil
}

// Delete removes the product. Deleting an unknown id is not an error.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	var removed bool
	_, err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		kept := products[:0]
		for _, p := range products {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	s.mylog.Action("product_deleted").Info("Product deleted", "product_id", id, "existed", removed)
	return nil
}

func (s *ProductService) uniqueID(products []models.Product) string {
	taken := make(map[string]bool, len(products))
	for _, p := range products {
		taken[p.ID] = true
	}
	now := s.now()
	id := models.NewProductID(now)
	for taken[id] {
		now = now.Add(time.Millisecond)
		id = models.NewProductID(now)
	}
	return id
}
