package dto

import "restaurant-pos/internal/xpkg/models"

type StatusRequest struct {
	Status string `json:"status"`
}

type OrderView struct {
	models.Order
	Totals models.Totals `json:"totals"`
}

func NewOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views
}

func NewOrderView(o models.Order) OrderView {
	return OrderView{Order: o, Totals: models.ComputeTotals(o.Items)}
}
