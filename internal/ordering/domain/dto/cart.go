package dto

import (
	"restaurant-pos/internal/ordering/domain/cart"
	"restaurant-pos/internal/xpkg/models"
)

type CreateCartRequest struct {
	TableNumber *int `json:"tableNumber"`
	GuestCount  *int `json:"guestCount"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type CartResponse struct {
	*cart.Cart
	Totals models.Totals `json:"totals"`
}

type PlaceOrderResponse struct {
	OrderID string        `json:"orderId"`
	Status  models.Status `json:"status"`
	Total   float64       `json:"total"`
}

func NewCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{Cart: c, Totals: c.Totals()}
}
