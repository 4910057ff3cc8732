package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"
)

// Collection is a JSON array persisted under a single key. Every mutation
// rewrites the whole array.
type Collection[T any] struct {
	key   string
	store Store
	mylog logger.Logger

	mu sync.Mutex
}

func NewCollection[T any](store Store, key string, mylog logger.Logger) *Collection[T] {
	return &Collection[T]{
		key:   key,
		store: store,
		mylog: mylog.With("key", key),
	}
}

func NewCatalogRepo(store Store, mylog logger.Logger) *Collection[models.Product] {
	return NewCollection[models.Product](store, KeyProducts, mylog)
}

func NewOrderRepo(store Store, mylog logger.Logger) *Collection[models.Order] {
	return NewCollection[models.Order](store, KeyOrders, mylog)
}

// List returns the stored items in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	items, _, _, err := c.load(ctx)
	return items, err
}

// Exists reports whether the key holds any value. An empty array or a
// malformed value still counts as present.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	data, _, err := c.store.Load(ctx, c.key)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Init stores items only if the key holds no value yet. It reports whether
// the write happened; losing the race to another writer is not an error.
func (c *Collection[T]) Init(ctx context.Context, items []T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _, err := c.store.Load(ctx, c.key)
	if err != nil {
		return false, err
	}
	if data != nil {
		return false, nil
	}

	if items == nil {
		items = []T{}
	}
	data, err = json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", c.key, err)
	}
	if _, err := c.store.Save(ctx, c.key, data, 0); err != nil {
		if errors.Is(err, ErrRevisionConflict) {
			return false, nil
		}
		return false, err
	}
	c.mylog.Action("collection_initialized").Debug("Collection initialized", "items", len(items))
	return true, nil
}

// Mutate loads the collection, applies fn and stores the result. If fn
// fails nothing is written. A concurrent writer in another process makes
// the save fail with ErrRevisionConflict.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, rev, _, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	items, err = fn(items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.key, err)
	}
	if _, err := c.store.Save(ctx, c.key, data, rev); err != nil {
		return nil, err
	}
	c.mylog.Action("collection_saved").Debug("Collection saved", "items", len(items))
	return items, nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, int64, bool, error) {
	data, rev, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, 0, false, err
	}
	if data == nil {
		return []T{}, rev, false, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.mylog.Action("collection_malformed").Warn("Stored value is malformed, treating as empty", "error", err.Error())
		return []T{}, rev, true, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, rev, true, nil
}
