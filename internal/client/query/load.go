package query

import (
	"context"
	"fmt"
)

// Load - типизированная обертка над Cache.Fetch.
// При ошибке возвращает предыдущие данные записи, если они были.
func Load[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, Entry, error) {
	entry, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})

	var zero T
	if entry.Data == nil {
		return zero, entry, err
	}
	data, ok := entry.Data.(T)
	if !ok {
		return zero, entry, fmt.Errorf("query %s: cached %T, want %T", key, entry.Data, zero)
	}
	return data, entry, err
}
