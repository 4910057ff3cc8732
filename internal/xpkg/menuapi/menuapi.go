// Package menuapi reads the public free-food-menus API used to seed the
// catalog and to list categories.
package menuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

const paginationKey = "pagination"

var excluded = map[string]bool{
	paginationKey: true,
	"our-foods":   true,
	"best-foods":  true,
}

type Category struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type item struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Price float64         `json:"price"`
	Img   string          `json:"img"`
}

type Client struct {
	baseURL   string
	seedLimit int
	http      *http.Client
	mylog     logger.Logger
}

func New(cfg *config.MenuAPI, mylog logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		seedLimit: cfg.SeedLimit,
		http:      &http.Client{Timeout: cfg.Timeout},
		mylog:     mylog.With("component", "menu-api"),
	}
}

// Label turns a category key into its display name by replacing the first dash.
func Label(key string) string {
	return strings.Replace(key, "-", " ", 1)
}

// Categories returns the category directory in the order the API lists it.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Pagination json.RawMessage `json:"pagination"`
	}
	if err := c.get(ctx, "/pagination", &resp); err != nil {
		return nil, err
	}

	keys, values, err := orderedObject(resp.Pagination)
	if err != nil {
		return nil, fmt.Errorf("decode pagination: %w", err)
	}

	categories := make([]Category, 0, len(keys))
	for i, key := range keys {
		if excluded[key] {
			continue
		}
		categories = append(categories, Category{
			Key:   key,
			Name:  Label(key),
			Count: count(values[i]),
		})
	}
	c.mylog.Action("categories_fetched").Debug("Fetched categories", "count", len(categories))
	return categories, nil
}

// SeedCatalog returns at most seedLimit products per category taken from /all.
func (c *Client) SeedCatalog(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/all", &raw); err != nil {
		return nil, err
	}

	keys, values, err := orderedObject(raw)
	if err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	products := []models.Product{}
	for i, key := range keys {
		if excluded[key] {
			continue
		}
		var items []item
		if err := json.Unmarshal(values[i], &items); err != nil {
			c.mylog.Action("seed_category_skipped").Warn("Category is not a product list", "category", key)
			continue
		}
		if len(items) > c.seedLimit {
			items = items[:c.seedLimit]
		}
		for _, it := range items {
			products = append(products, models.Product{
				ID:       rawID(it.ID),
				Name:     it.Name,
				Price:    it.Price,
				Category: Label(key),
				Image:    it.Img,
			})
		}
	}
	c.mylog.Action("catalog_fetched").Info("Fetched seed catalog", "products", len(products))
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// orderedObject splits a JSON object into its keys and raw values, keeping
// document order.
func orderedObject(data json.RawMessage) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object")
	}

	var (
		keys   []string
		values []json.RawMessage
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	return keys, values, nil
}

// count accepts either a bare number or an object carrying a total.
func count(v json.RawMessage) int {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n
	}
	var obj struct {
		Total int `json:"total"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(v, &obj); err == nil {
		if obj.Total != 0 {
			return obj.Total
		}
		return obj.Count
	}
	return 0
}

func rawID(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return strconv.Quote(string(v))
}
