package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/jonboulle/clockwork"

	"github.com/jmalden/weatherdesk/internal/models"
)

const stateKey = "weatherdesk:state"

// MemcachedStore implements Store on memcached under a single well-known
// key. The daemon's own expiry is advisory; Load still checks the write
// timestamp so the TTL holds even against a lenient backend.
type MemcachedStore struct {
	client *memcache.Client
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewMemcachedStore creates a MemcachedStore. addrs is a comma-separated
// list (e.g. "localhost:11211" or "host1:11211,host2:11211"). timeout and
// maxIdleConns configure the client; both use package defaults if zero.
func NewMemcachedStore(addrs string, ttl, timeout time.Duration, maxIdleConns int) (*MemcachedStore, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedStore{client: client, ttl: ttl, clock: clockwork.NewRealClock()}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Save implements Store.Save.
func (s *MemcachedStore) Save(rec models.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal record: %w", err)
	}
	expSec := int32(s.ttl.Seconds())
	const maxRelativeExp = 30 * 24 * 60 * 60 // 30 days
	if expSec <= 0 || expSec > maxRelativeExp {
		expSec = 3600
	}
	if err := s.client.Set(&memcache.Item{
		Key:        stateKey,
		Value:      raw,
		Expiration: expSec,
	}); err != nil {
		return fmt.Errorf("store: memcached set: %w", err)
	}
	return nil
}

// Load implements Store.Load. Corrupt and expired entries are deleted
// before reporting a miss.
func (s *MemcachedStore) Load() (*models.Record, error) {
	item, err := s.client.Get(stateKey)
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, nil
		}
		return nil, fmt.Errorf("store: memcached get: %w", err)
	}

	var rec models.Record
	if err := json.Unmarshal(item.Value, &rec); err != nil {
		_ = s.client.Delete(stateKey)
		return nil, nil
	}

	if rec.SavedAt.IsZero() || s.clock.Now().Sub(rec.SavedAt) > s.ttl {
		_ = s.client.Delete(stateKey)
		return nil, nil
	}

	return &rec, nil
}

// Ping checks if memcached is reachable. Used for health checks.
func (s *MemcachedStore) Ping() error {
	return s.client.Ping()
}

// Close closes the memcached client connections. Call during shutdown.
func (s *MemcachedStore) Close() error {
	return s.client.Close()
}
