package augment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
)

// Entry is one cached piece of external data. Data stays encoded so the same
// envelope moves through both backends; StoredAt drives the fresh/stale split
// at read time.
type Entry struct {
	Data       json.RawMessage `json:"data"`
	StoredAt   time.Time       `json:"stored_at"`
	Confidence float64         `json:"confidence"`
}

// Age returns how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Store is the cache backend for external data. Entries are written with a
// retention window of twice their class TTL; the caller decides fresh versus
// stale from the entry's age. Implementations must be safe for concurrent
// use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, retention time.Duration) error
	Close() error
}

// Memory store bounds.
const (
	memoryMaxEntries = 100
	memoryEvictBatch = 20
)

// MemoryStore keeps entries in-process. It is bounded: at capacity, the
// oldest entries are evicted in a batch so steady-state writes do not evict
// one-by-one on every Set.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewMemoryStore returns an in-process store. Expired entries are swept in
// the background; the capacity bound applies on write.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Get returns the entry for key if its retention window has not passed.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	val, ok := s.cache.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	entry, ok := val.(Entry)
	if !ok {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Set stores the entry for its retention window, evicting the oldest batch
// first when the store is full.
func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.ItemCount() >= memoryMaxEntries {
		s.evictOldest(memoryEvictBatch)
	}
	s.cache.Set(key, entry, retention)
	return nil
}

// evictOldest drops the n entries with the earliest StoredAt. Caller holds
// s.mu.
func (s *MemoryStore) evictOldest(n int) {
	type aged struct {
		key      string
		storedAt time.Time
	}

	items := s.cache.Items()
	entries := make([]aged, 0, len(items))
	for key, item := range items {
		entry, ok := item.Object.(Entry)
		if !ok {
			s.cache.Delete(key)
			continue
		}
		entries = append(entries, aged{key: key, storedAt: entry.StoredAt})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].storedAt.Before(entries[j].storedAt)
	})

	if n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[:n] {
		s.cache.Delete(e.key)
	}
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

// Close is a no-op; the sweeper stops when the store is collected.
func (s *MemoryStore) Close() error { return nil }

// RedisConfig configures the shared cache backend.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	Namespace string        `yaml:"namespace"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RedisStore keeps entries in Redis so replicas share one cache. Retention
// is enforced by Redis key TTL; capacity is Redis's problem.
type RedisStore struct {
	client    goredis.UniversalClient
	namespace string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.Namespace), nil
}

// NewRedisStoreWithClient wraps an existing client, usually a test one.
func NewRedisStoreWithClient(client goredis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "sofia:augment"
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) prefixKey(key string) string {
	return s.namespace + ":" + key
}

// Get returns the entry for key if Redis still holds it.
func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	val, err := s.client.Get(ctx, s.prefixKey(key)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return entry, true, nil
}

// Set stores the entry with retention as the key TTL.
func (s *RedisStore) Set(ctx context.Context, key string, entry Entry, retention time.Duration) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.client.Set(ctx, s.prefixKey(key), val, retention).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
