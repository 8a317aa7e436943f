// Package cache implements the two-tier TTL cache in front of the commerce
// gateway. The hot tier is an in-process map; the persistent tier is a
// ports.KeyValueStore surviving restarts. Entries are keyed by GraphQL
// operation name plus canonicalized variables. The cache never raises errors:
// every internal failure degrades to a miss.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Cache hits by tier",
		},
		[]string{"tier"},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Cache misses including expired entries",
		},
	)

	cacheSweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_swept_entries_total",
			Help: "Expired entries removed by the background sweeper",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
	prometheus.MustRegister(cacheSweeps)
}

// Entry is one cached payload. It is valid at time t iff t - StoredAt < TTL.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl"`
}

func (e Entry) ValidAt(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}

// Manager is a constructible cache instance with an injected store and clock.
type Manager struct {
	mu  sync.RWMutex
	hot map[string]Entry

	store  ports.KeyValueStore
	prefix string
	clock  func() time.Time
	logger *logrus.Logger
}

type Option func(*Manager)

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

func NewManager(store ports.KeyValueStore, prefix string, logger *logrus.Logger, opts ...Option) *Manager {
	m := &Manager{
		hot:    make(map[string]Entry),
		store:  store,
		prefix: prefix,
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key builds the deterministic cache key for (operation, variables).
// encoding/json marshals map keys in sorted order, so two logically equal
// variable sets always produce the same key and two different sets never
// collide.
func (m *Manager) Key(operation string, variables map[string]any) string {
	vars := ""
	if len(variables) > 0 {
		if b, err := json.Marshal(variables); err == nil {
			vars = string(b)
		}
	}
	return m.prefix + ":" + operation + ":" + vars
}

func (m *Manager) Get(ctx context.Context, operation string, variables map[string]any) (json.RawMessage, bool) {
	key := m.Key(operation, variables)
	now := m.clock()

	m.mu.RLock()
	entry, ok := m.hot[key]
	m.mu.RUnlock()
	if ok {
		if entry.ValidAt(now) {
			cacheHits.WithLabelValues("hot").Inc()
			return entry.Data, true
		}
		m.mu.Lock()
		delete(m.hot, key)
		m.mu.Unlock()
	}

	if raw, ok := m.store.Get(ctx, key); ok {
		var stored Entry
		if err := json.Unmarshal([]byte(raw), &stored); err == nil {
			if stored.ValidAt(now) {
				// Promote for the next access.
				m.mu.Lock()
				m.hot[key] = stored
				m.mu.Unlock()
				cacheHits.WithLabelValues("persistent").Inc()
				return stored.Data, true
			}
			m.store.Remove(ctx, key)
		} else if m.logger != nil {
			m.logger.WithField("key", key).WithError(err).Debug("cache: dropping corrupt persisted entry")
			m.store.Remove(ctx, key)
		}
	}

	cacheMisses.Inc()
	return nil, false
}

func (m *Manager) Set(ctx context.Context, operation string, variables map[string]any, data json.RawMessage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	key := m.Key(operation, variables)
	entry := Entry{Data: data, StoredAt: m.clock(), TTL: ttl}

	m.mu.Lock()
	m.hot[key] = entry
	m.mu.Unlock()

	b, err := json.Marshal(entry)
	if err != nil {
		if m.logger != nil {
			m.logger.WithField("key", key).WithError(err).Debug("cache: persist skipped")
		}
		return
	}
	m.store.Set(ctx, key, string(b))
}

func (m *Manager) Invalidate(ctx context.Context, operation string, variables map[string]any) {
	key := m.Key(operation, variables)
	m.mu.Lock()
	delete(m.hot, key)
	m.mu.Unlock()
	m.store.Remove(ctx, key)
	if m.logger != nil {
		m.logger.WithField("operation", operation).Debug("cache: invalidated")
	}
}

// Subscribe forwards the persistent store's change events for keys under this
// manager's prefix. Changes made by another process sharing the store arrive
// here too, letting callers re-fetch reactively instead of locking.
func (m *Manager) Subscribe(fn func(key string)) func() {
	return m.store.Subscribe(func(key string) {
		if strings.HasPrefix(key, m.prefix+":") {
			fn(key)
		}
	})
}

// StartSweeper runs a background scan deleting expired persisted entries so
// the durable tier cannot grow without bound. The returned function stops it.
func (m *Manager) StartSweeper(interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep(ctx)
			}
		}
	}()
	return cancel
}

func (m *Manager) sweep(ctx context.Context) {
	now := m.clock()
	removed := 0

	for _, key := range m.store.Keys(ctx) {
		if !strings.HasPrefix(key, m.prefix+":") {
			continue
		}
		raw, ok := m.store.Get(ctx, key)
		if !ok {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || !entry.ValidAt(now) {
			m.store.Remove(ctx, key)
			removed++
		}
	}

	m.mu.Lock()
	for key, entry := range m.hot {
		if !entry.ValidAt(now) {
			delete(m.hot, key)
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		cacheSweeps.Add(float64(removed))
		if m.logger != nil {
			m.logger.WithField("removed", removed).Debug("cache: sweep removed expired entries")
		}
	}
}

var _ ports.CacheManager = (*Manager)(nil)
