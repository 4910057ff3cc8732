package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restaurant-pos/internal/ordering/app/core"
	"restaurant-pos/internal/ordering/domain/cart"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"

	"github.com/google/uuid"
)

// CartService keeps one cart per table session in process memory.
type CartService struct {
	catalog   core.ICatalogRepo
	orders    core.IOrderRepo
	publisher core.IPublisher
	mylog     logger.Logger
	now       func() time.Time

	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func NewCartService(
	catalog core.ICatalogRepo,
	orders core.IOrderRepo,
	publisher core.IPublisher,
	mylog logger.Logger,
) *CartService {
	return &CartService{
		catalog:   catalog,
		orders:    orders,
		publisher: publisher,
		mylog:     mylog,
		now:       time.Now,
		carts:     make(map[string]*cart.Cart),
	}
}

func (s *CartService) Create(tableNumber, guestCount int) (*cart.Cart, error) {
	if tableNumber <= 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidTable, tableNumber)
	}
	if guestCount < 0 {
		guestCount = 0
	}

	c := cart.New(uuid.NewString(), tableNumber, guestCount)

	s.mu.Lock()
	s.carts[c.ID] = c
	s.mu.Unlock()

	s.mylog.Action("cart_created").Info("Cart created", "cart_id", c.ID, "order_id", c.OrderID, "table", tableNumber, "guests", guestCount)
	return c.Clone(), nil
}

func (s *CartService) Get(id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCartNotFound, id)
	}
	return c.Clone(), nil
}

func (s *CartService) AddItem(ctx context.Context, id, productID string) (*cart.Cart, error) {
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.update(id, func(c *cart.Cart) error {
		return c.AddLine(catalog, productID)
	})
}

func (s *CartService) ChangeQuantity(id, productID string, delta int) (*cart.Cart, error) {
	return s.update(id, func(c *cart.Cart) error {
		return c.ChangeQuantity(productID, delta)
	})
}

func (s *CartService) Clear(id string) (*cart.Cart, error) {
	return s.update(id, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *CartService) NewOrder(id string) (*cart.Cart, error) {
	c, err := s.update(id, func(c *cart.Cart) error {
		c.NewOrder()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mylog.Action("new_order_started").Info("New order started", "cart_id", id, "order_id", c.OrderID)
	return c, nil
}

func (s *CartService) Drop(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

// Place appends the cart's order to the Order Store as pending. The cart
// keeps its items and order id.
func (s *CartService) Place(ctx context.Context, id string) (models.Order, error) {
	c, err := s.Get(id)
	if err != nil {
		return models.Order{}, err
	}
	if len(c.Items) == 0 {
		return models.Order{}, core.ErrEmptyCart
	}

	order := models.Order{
		ID:          c.OrderID,
		Items:       c.Items,
		Status:      models.StatusPending,
		Timestamp:   s.now().UTC(),
		TableNumber: c.TableNumber,
		GuestCount:  models.GuestCount(c.GuestCount),
	}

	if _, err := s.orders.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order), nil
	}); err != nil {
		return models.Order{}, err
	}

	s.mylog.Action("order_placed").Info("Order placed",
		"order_id", order.ID,
		"table", order.TableNumber,
		"items", len(order.Items),
		"total", models.ComputeTotals(order.Items).Total,
	)

	if err := s.publisher.PublishOrderPlaced(ctx, broker.NewOrderPlaced(order)); err != nil {
		s.mylog.Action("order_publish_failed").Error("Failed to publish placed order", err, "order_id", order.ID)
	}
	return order, nil
}

func (s *CartService) update(id string, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCartNotFound, id)
	}
	next := c.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.carts[id] = next
	return next.Clone(), nil
}
