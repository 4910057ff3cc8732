package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-pos/internal/admin/app/core"
	"restaurant-pos/internal/admin/app/services"
	"restaurant-pos/internal/admin/domain/dto"
	"restaurant-pos/internal/xpkg/logger"
)

type ProductHandler struct {
	productService  *services.ProductService
	categoryService *services.CategoryService
	mylog           logger.Logger
}

func NewProductHandler(productService *services.ProductService, categoryService *services.CategoryService, mylog logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService:  productService,
		categoryService: categoryService,
		mylog:           mylog,
	}
}

func (ph *ProductHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		products, err := ph.productService.List(ctx)
		if err != nil {
			ph.mylog.Action("list_products_failed").Error("Failed to list products", err)
			jsonError(w, statusCode(err), errors.New("failed to list products"))
			return
		}
		jsonResponse(w, http.StatusOK, products)
	}
}

func (ph *ProductHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ph.mylog.Action("parse_failed").Error("Failed to parse product", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		product, err := ph.productService.Add(ctx, req)
		if err != nil {
			ph.mylog.Action("add_product_failed").Error("Failed to add product", err)
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, product)
	}
}

func (ph *ProductHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req dto.ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ph.mylog.Action("parse_failed").Error("Failed to parse product", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		product, err := ph.productService.Update(ctx, id, req)
		if err != nil {
			ph.mylog.Action("update_product_failed").Error("Failed to update product", err, "product_id", id)
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, product)
	}
}

func (ph *ProductHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ph.productService.Delete(ctx, id); err != nil {
			ph.mylog.Action("delete_product_failed").Error("Failed to delete product", err, "product_id", id)
			jsonError(w, statusCode(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ph *ProductHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		jsonResponse(w, http.StatusOK, ph.categoryService.List(ctx))
	}
}
