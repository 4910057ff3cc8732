package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/kitchen/app/services"
	"restaurant-pos/internal/kitchen/domain/dto"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

type OrderHandler struct {
	boardService *services.BoardService
	mylog        logger.Logger
}

func NewOrderHandler(boardService *services.BoardService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		boardService: boardService,
		mylog:        mylog,
	}
}

// List serves GET /orders?status=, pending by default.
func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.StatusPending
		if raw := r.URL.Query().Get("status"); raw != "" {
			st, ok := models.ParseStatus(raw)
			if !ok {
				jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", core.ErrUnknownStatus, raw))
				return
			}
			status = st
		}

		w.Header().Set("X-Board-Refreshed-At", oh.boardService.RefreshedAt().UTC().Format(time.RFC3339))
		jsonResponse(w, http.StatusOK, dto.NewOrderViews(oh.boardService.ListByStatus(status)))
	}
}

func (oh *OrderHandler) StartPreparing() http.HandlerFunc {
	return oh.action("prepare", oh.boardService.StartPreparing)
}

func (oh *OrderHandler) MarkReady() http.HandlerFunc {
	return oh.action("ready", oh.boardService.MarkReady)
}

func (oh *OrderHandler) Complete() http.HandlerFunc {
	return oh.action("complete", oh.boardService.Complete)
}

func (oh *OrderHandler) SetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req dto.StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			oh.mylog.Action("parse_failed").Error("Failed to parse status", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := oh.boardService.SetStatus(ctx, id, req.Status)
		if err != nil {
			oh.mylog.Action("set_status_failed").Error("Failed to set order status", err, "order_id", id)
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderView(order))
	}
}

func (oh *OrderHandler) action(name string, fn func(context.Context, string) (models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := fn(ctx, id)
		if err != nil {
			oh.mylog.Action(name+"_failed").Error("Failed to update order", err, "order_id", id)
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderView(order))
	}
}
