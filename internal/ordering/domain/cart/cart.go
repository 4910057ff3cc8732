// Package cart holds the order being assembled at a table before it is
// sent to the kitchen.
package cart

import (
	"fmt"
	"strings"

	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/xpkg/models"
)

type Cart struct {
	ID          string             `json:"id"`
	OrderID     string             `json:"orderId"`
	TableNumber int                `json:"tableNumber"`
	GuestCount  int                `json:"guestCount"`
	Items       []models.OrderLine `json:"items"`
}

func New(id string, tableNumber, guestCount int) *Cart {
	return &Cart{
		ID:          id,
		OrderID:     models.NewOrderID(),
		TableNumber: tableNumber,
		GuestCount:  guestCount,
		Items:       []models.OrderLine{},
	}
}

// AddLine adds one unit of productID. The name and price are copied from the
// catalog at this moment and never refreshed.
func (c *Cart) AddLine(catalog []models.Product, productID string) error {
	var product *models.Product
	for i := range catalog {
		if catalog[i].ID == productID {
			product = &catalog[i]
			break
		}
	}
	if product == nil {
		return fmt.Errorf("%w: %s", core.ErrProductNotFound, productID)
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity++
			return nil
		}
	}
	c.Items = append(c.Items, models.OrderLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
	return nil
}

// ChangeQuantity adds delta to the line. A line that drops to zero or below is removed.
func (c *Cart) ChangeQuantity(productID string, delta int) error {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].Quantity += delta
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", core.ErrLineNotFound, productID)
}

func (c *Cart) Clear() {
	c.Items = []models.OrderLine{}
}

// NewOrder empties the cart and assigns a fresh order id.
func (c *Cart) NewOrder() {
	c.Clear()
	c.OrderID = models.NewOrderID()
}

func (c *Cart) Totals() models.Totals {
	return models.ComputeTotals(c.Items)
}

func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = append([]models.OrderLine{}, c.Items...)
	return &cp
}

// FilterByCategory keeps products whose category equals category ignoring
// case. An empty category or "all" returns every product.
func FilterByCategory(products []models.Product, category string) []models.Product {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return products
	}
	filtered := []models.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
