package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc загружает данные для ключа
type FetchFunc func(ctx context.Context) (any, error)

type record struct {
	entry Entry
	// gen растет при каждой инвалидации; результат запроса,
	// начатого до инвалидации, не снимает флаг Stale
	gen uint64
}

// Cache - общий для процесса кэш запросов.
// Не более одного запроса на ключ одновременно, остальные ждут его результата.
type Cache struct {
	ctx       context.Context
	records   map[string]*record
	observers map[string]map[*Observer]struct{}
	logger    *slog.Logger
	now       func() time.Time
	retry     RetryPolicy
	cancel    context.CancelFunc
	group     singleflight.Group
	staleTime time.Duration
	mu        sync.Mutex
}

// Option настраивает Cache
type Option func(*Cache)

// WithStaleTime задает окно свежести. 0 - запись свежая до инвалидации.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) {
		c.staleTime = d
	}
}

// WithRetry включает повторы для запросов чтения
func WithRetry(p RetryPolicy) Option {
	return func(c *Cache) {
		c.retry = p
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New создает пустой кэш
func New(opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		ctx:       ctx,
		cancel:    cancel,
		records:   make(map[string]*record),
		observers: make(map[string]map[*Observer]struct{}),
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close останавливает фоновые перезапросы наблюдателей
func (c *Cache) Close() {
	c.cancel()
}

type result struct {
	entry Entry
	err   error
}

// Fetch возвращает свежую запись или загружает ее через fn.
// Одновременные вызовы с равными ключами выполняют один запрос.
// Отмена ctx прекращает ожидание, но не сам запрос: остальные
// ожидающие все равно получат результат.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) (Entry, error) {
	id := key.String()
	if entry, ok := c.freshEntry(id); ok {
		return entry, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		return c.loadIfStale(context.WithoutCancel(ctx), key, fn), nil
	})

	select {
	case res := <-ch:
		r := res.Val.(result)
		return r.entry, r.err
	case <-ctx.Done():
		entry, _ := c.Peek(key)
		return entry, ctx.Err()
	}
}

func (c *Cache) freshEntry(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok || !c.fresh(rec.entry) {
		return Entry{}, false
	}
	return rec.entry, true
}

// loadIfStale повторяет проверку свежести уже внутри singleflight:
// предыдущий запрос мог завершиться между проверкой в Fetch и DoChan
func (c *Cache) loadIfStale(ctx context.Context, key Key, fn FetchFunc) result {
	if entry, ok := c.freshEntry(key.String()); ok {
		return result{entry: entry}
	}
	return c.load(ctx, key, fn)
}

// load выполняется внутри singleflight: ровно один на ключ
func (c *Cache) load(ctx context.Context, key Key, fn FetchFunc) result {
	id := key.String()

	c.mu.Lock()
	rec, ok := c.records[id]
	if !ok {
		rec = &record{entry: Entry{Key: NewKey(key...), Status: StatusPending}}
		c.records[id] = rec
	}
	rec.entry.Fetching = true
	gen := rec.gen
	c.notifyLocked(id)
	c.mu.Unlock()

	for {
		start := c.now()
		data, err := c.retry.do(ctx, fn)

		c.mu.Lock()
		// запись могли удалить во время запроса (выход из аккаунта)
		rec, ok = c.records[id]
		if !ok {
			c.mu.Unlock()
			if err != nil {
				return result{entry: Entry{Key: key, Status: StatusError, Err: err}, err: err}
			}
			return result{entry: Entry{Key: key, Status: StatusSuccess, Data: data, FetchedAt: start}}
		}

		if err != nil {
			rec.entry.Fetching = false
			rec.entry.Status = StatusError
			rec.entry.Err = err
			entry := rec.entry
			c.notifyLocked(id)
			c.mu.Unlock()
			c.logger.Debug("Query failed", "key", id, "error", err)
			return result{entry: entry, err: err}
		}

		rec.entry.Status = StatusSuccess
		rec.entry.Data = data
		rec.entry.Err = nil
		rec.entry.FetchedAt = c.now()
		c.logger.Debug("Query fetched", "key", id, "duration_ms", c.now().Sub(start).Milliseconds())

		// инвалидировали во время запроса: активные наблюдатели должны увидеть новые данные
		if rec.gen != gen && len(c.observers[id]) > 0 {
			gen = rec.gen
			c.notifyLocked(id)
			c.mu.Unlock()
			continue
		}

		rec.entry.Fetching = false
		rec.entry.Stale = rec.gen != gen
		entry := rec.entry
		c.notifyLocked(id)
		c.mu.Unlock()
		return result{entry: entry}
	}
}

func (c *Cache) fresh(e Entry) bool {
	if e.Status != StatusSuccess || e.Stale {
		return false
	}
	if c.staleTime == 0 {
		return true
	}
	return c.now().Sub(e.FetchedAt) < c.staleTime
}

// Peek возвращает запись без запроса
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[key.String()]
	if !ok {
		return Entry{}, false
	}
	return rec.entry, true
}

// Invalidate помечает устаревшими все записи с ключом, начинающимся с prefix.
// Ключи с активными наблюдателями перезапрашиваются сразу.
// Возвращает число помеченных записей.
func (c *Cache) Invalidate(prefix Key) int {
	type refetch struct {
		fn  FetchFunc
		key Key
	}

	c.mu.Lock()
	var (
		n       int
		pending []refetch
	)
	for id, rec := range c.records {
		if !rec.entry.Key.HasPrefix(prefix) {
			continue
		}
		rec.entry.Stale = true
		rec.gen++
		n++
		for o := range c.observers[id] {
			pending = append(pending, refetch{key: rec.entry.Key, fn: o.fn})
			break
		}
		c.notifyLocked(id)
	}
	c.mu.Unlock()

	c.logger.Debug("Queries invalidated", "prefix", prefix.String(), "count", n)

	for _, r := range pending {
		go func() {
			_, _ = c.Fetch(c.ctx, r.key, r.fn)
		}()
	}
	return n
}

// Remove удаляет записи с ключом, начинающимся с prefix (вместе с данными)
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, rec := range c.records {
		if rec.entry.Key.HasPrefix(prefix) {
			delete(c.records, id)
			n++
		}
	}
	return n
}

// Clear удаляет все записи
func (c *Cache) Clear() {
	c.Remove(Key{})
}

// Len возвращает число записей
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
