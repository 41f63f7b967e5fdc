package cache

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ppiankov/kampsync/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "kampsync:v1:"

// CacheKey builds a namespaced key, e.g. CacheKey("result", "8123456")
func CacheKey(namespace, id string) string {
	return keyPrefix + namespace + ":" + id
}

// New builds the cache described by cfg. A disabled cache yields (nil, nil).
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "layered":
		return NewLayeredCache(NewMemoryCache(cfg.TTL, 10*time.Minute), NewDiskCache(cfg.Dir, cfg.TTL)), nil
	case "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "redis":
		rc, err := NewRedisCache(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, errors.Wrap(err, "connect redis cache")
		}
		return rc, nil
	default:
		return nil, errors.Newf("unknown cache backend %q", cfg.Backend)
	}
}
