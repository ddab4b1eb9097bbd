package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type slot[V any] struct {
	key     string
	value   V
	expires time.Time
}

func (s *slot[V]) expired(now time.Time) bool {
	return !s.expires.IsZero() && now.After(s.expires)
}

// Memory is a process-local cache with per-entry expiration and optional
// LRU bounding.
type Memory[V any] struct {
	mu      sync.Mutex
	cfg     config
	index   map[string]*list.Element
	recency *list.List // front is most recently used
	stop    chan struct{}
	closed  bool
}

// NewMemory creates an in-memory cache. Call Close to stop the sweeper.
//
//	products := cache.NewMemory[[]apiclient.Product](
//	    cache.WithTTL(5*time.Minute),
//	    cache.WithLimit(256),
//	)
//	defer products.Close()
func NewMemory[V any](opts ...Option) *Memory[V] {
	m := &Memory[V]{
		cfg:     newConfig(opts),
		index:   make(map[string]*list.Element),
		recency: list.New(),
		stop:    make(chan struct{}),
	}
	if m.cfg.sweep > 0 {
		go m.sweeper(m.cfg.sweep)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.index[key]
	if !ok {
		return zero, ErrNotFound
	}
	s := el.Value.(*slot[V])
	if s.expired(time.Now()) {
		m.drop(el)
		return zero, ErrNotFound
	}
	m.recency.MoveToFront(el)
	return s.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.cfg.ttl
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		s := el.Value.(*slot[V])
		s.value, s.expires = value, expires
		m.recency.MoveToFront(el)
		return nil
	}

	if m.cfg.limit > 0 && len(m.index) >= m.cfg.limit {
		if oldest := m.recency.Back(); oldest != nil {
			m.drop(oldest)
		}
	}
	m.index[key] = m.recency.PushFront(&slot[V]{key: key, value: value, expires: expires})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.index[key]; ok {
		m.drop(el)
	}
	return nil
}

func (m *Memory[V]) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.index)
	m.recency.Init()
	return nil
}

// Len reports the number of stored entries, expired ones included until
// they are swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

func (m *Memory[V]) sweeper(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.sweep(now)
		}
	}
}

func (m *Memory[V]) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.recency.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*slot[V]).expired(now) {
			m.drop(el)
		}
		el = prev
	}
}

// drop must be called with mu held.
func (m *Memory[V]) drop(el *list.Element) {
	m.recency.Remove(el)
	delete(m.index, el.Value.(*slot[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
