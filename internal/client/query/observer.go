package query

import "context"

// Observer - активный подписчик на ключ (аналог смонтированного экрана).
// Получает каждое изменение записи; при инвалидации ключ перезапрашивается сразу.
type Observer struct {
	cache   *Cache
	fn      FetchFunc
	updates chan Entry
	id      string
	key     Key
}

// Observe подписывается на ключ и запускает загрузку, если записи нет или она устарела
func (c *Cache) Observe(key Key, fn FetchFunc) *Observer {
	o := &Observer{
		cache:   c,
		fn:      fn,
		key:     NewKey(key...),
		id:      key.String(),
		updates: make(chan Entry, 1),
	}

	c.mu.Lock()
	set, ok := c.observers[o.id]
	if !ok {
		set = make(map[*Observer]struct{})
		c.observers[o.id] = set
	}
	set[o] = struct{}{}
	rec, ok := c.records[o.id]
	if ok {
		o.push(rec.entry)
	}
	stale := !ok || !c.fresh(rec.entry)
	c.mu.Unlock()

	if stale {
		go func() {
			_, _ = c.Fetch(c.ctx, o.key, fn)
		}()
	}
	return o
}

// Updates возвращает канал снимков записи. Хранится только последний снимок.
func (o *Observer) Updates() <-chan Entry {
	return o.updates
}

// Wait ждет снимок, удовлетворяющий cond
func (o *Observer) Wait(ctx context.Context, cond func(Entry) bool) (Entry, error) {
	for {
		select {
		case e := <-o.updates:
			if cond(e) {
				return e, nil
			}
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		}
	}
}

// Close отписывает наблюдателя
func (o *Observer) Close() {
	c := o.cache
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.observers[o.id]; ok {
		delete(set, o)
		if len(set) == 0 {
			delete(c.observers, o.id)
		}
	}
}

// push кладет снимок, вытесняя непрочитанный предыдущий. Вызывается под c.mu.
func (o *Observer) push(e Entry) {
	select {
	case <-o.updates:
	default:
	}
	o.updates <- e
}

func (c *Cache) notifyLocked(id string) {
	rec, ok := c.records[id]
	if !ok {
		return
	}
	for o := range c.observers[id] {
		o.push(rec.entry)
	}
}
