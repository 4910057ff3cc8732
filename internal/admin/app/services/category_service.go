package services

import (
	"context"

	"restaurant-pos/internal/admin/app/core"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/menuapi"
)

type CategoryService struct {
	api   core.IMenuAPI
	mylog logger.Logger
}

func NewCategoryService(api core.IMenuAPI, mylog logger.Logger) *CategoryService {
	return &CategoryService{api: api, mylog: mylog}
}

// List returns the category directory, or an empty one if the menu API is unreachable.
func (s *CategoryService) List(ctx context.Context) []menuapi.Category {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		s.mylog.Action("categories_fetch_failed").Error("Failed to fetch categories", err)
		return []menuapi.Category{}
	}
	return categories
}
