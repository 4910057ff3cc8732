package models

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// TaxRate applied to the subtotal of every order.
const TaxRate = 0.12

const placeholderURL = "https://placehold.co/300x200?text="

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	Items       []OrderLine `json:"items"`
	Status      Status      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	TableNumber int         `json:"tableNumber"`
	GuestCount  GuestCount  `json:"guestCount"`
}

// GuestCount decodes from either a JSON number or a numeric string.
type GuestCount int

func (g *GuestCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*g = GuestCount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("guest count: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*g = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("guest count %q: %w", s, err)
	}
	*g = GuestCount(n)
	return nil
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted:
		return st, true
	}
	return "", false
}

// Next returns the successor of s in the kitchen workflow. Completed has none.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusCompleted, true
	}
	return "", false
}

func (s Status) CanTransition(to Status) bool {
	next, ok := s.Next()
	return ok && next == to
}

// Verb is the phrase used when announcing that an order entered s.
func (s Status) Verb() string {
	switch s {
	case StatusPreparing:
		return "is now being prepared"
	case StatusReady:
		return "is now ready for pickup"
	case StatusCompleted:
		return "has been completed"
	}
	return "is now " + string(s)
}

func ComputeTotals(items []OrderLine) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// NewOrderID returns "ORD" followed by five random digits. Collisions are not checked.
func NewOrderID() string {
	return fmt.Sprintf("ORD%d", 10000+rand.IntN(90000))
}

func NewProductID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

func PlaceholderImage(name string) string {
	return placeholderURL + url.QueryEscape(name)
}
