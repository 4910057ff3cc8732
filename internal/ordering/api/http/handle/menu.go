package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/ordering/app/services"
	"restaurant-pos/internal/xpkg/logger"
)

type MenuHandler struct {
	menuService *services.MenuService
	mylog       logger.Logger
}

func NewMenuHandler(menuService *services.MenuService, mylog logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		mylog:       mylog,
	}
}

func (mh *MenuHandler) Menu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		products, err := mh.menuService.Menu(ctx, r.URL.Query().Get("category"))
		if err != nil {
			mh.mylog.Action("menu_failed").Error("Failed to load menu", err)
			jsonError(w, statusCode(err), errors.New("failed to load menu"))
			return
		}
		jsonResponse(w, http.StatusOK, products)
	}
}

func (mh *MenuHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		jsonResponse(w, http.StatusOK, mh.menuService.Categories(ctx))
	}
}
