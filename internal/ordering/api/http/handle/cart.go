package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/ordering/app/services"
	"restaurant-pos/internal/ordering/domain/cart"
	"restaurant-pos/internal/ordering/domain/dto"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

type CartHandler struct {
	cartService  *services.CartService
	cartDefaults *core.OrderingParams
	mylog        logger.Logger
}

func NewCartHandler(cartService *services.CartService, params *core.OrderingParams, mylog logger.Logger) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		cartDefaults: params,
		mylog:        mylog,
	}
}

// Create starts a table session. Missing fields fall back to the
// --table and --guests defaults.
func (ch *CartHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			ch.mylog.Action("parse_failed").Error("Failed to parse cart", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		table, guests := ch.cartDefaults.DefaultTable, ch.cartDefaults.DefaultGuests
		if req.TableNumber != nil {
			table = *req.TableNumber
		}
		if req.GuestCount != nil {
			guests = *req.GuestCount
		}

		c, err := ch.cartService.Create(table, guests)
		if err != nil {
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.NewCartResponse(c))
	}
}

func (ch *CartHandler) Get() http.HandlerFunc {
	return ch.respond(func(r *http.Request, id string) (*cart.Cart, error) {
		return ch.cartService.Get(id)
	})
}

func (ch *CartHandler) AddItem() http.HandlerFunc {
	return ch.respond(func(r *http.Request, id string) (*cart.Cart, error) {
		var req dto.AddItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errParse
		}
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		return ch.cartService.AddItem(ctx, id, req.ProductID)
	})
}

func (ch *CartHandler) ChangeQuantity() http.HandlerFunc {
	return ch.respond(func(r *http.Request, id string) (*cart.Cart, error) {
		var req dto.ChangeQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errParse
		}
		return ch.cartService.ChangeQuantity(id, r.PathValue("productId"), req.Delta)
	})
}

func (ch *CartHandler) Clear() http.HandlerFunc {
	return ch.respond(func(r *http.Request, id string) (*cart.Cart, error) {
		return ch.cartService.Clear(id)
	})
}

func (ch *CartHandler) NewOrder() http.HandlerFunc {
	return ch.respond(func(r *http.Request, id string) (*cart.Cart, error) {
		return ch.cartService.NewOrder(id)
	})
}

func (ch *CartHandler) Place() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		order, err := ch.cartService.Place(ctx, id)
		if err != nil {
			ch.mylog.Action("place_order_failed").Error("Failed to place order", err, "cart_id", id)
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, dto.PlaceOrderResponse{
			OrderID: order.ID,
			Status:  order.Status,
			Total:   models.ComputeTotals(order.Items).Total,
		})
	}
}

func (ch *CartHandler) Drop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch.cartService.Drop(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

var errParse = errors.New("failed to parse JSON")

func (ch *CartHandler) respond(fn func(r *http.Request, id string) (*cart.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		c, err := fn(r, id)
		if err != nil {
			if errors.Is(err, errParse) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			ch.mylog.Action("cart_request_failed").Debug("Cart request rejected", "cart_id", id, "error", err.Error())
			jsonError(w, statusCode(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewCartResponse(c))
	}
}
