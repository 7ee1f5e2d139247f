// Package gateway orchestrates providers behind the actions: cache
// lookups, unit conversion, fallback data, and write workflows.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/cache"
)

// cacheKey derives a stable key from a namespace and request parts.
func cacheKey(namespace string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	for _, p := range parts {
		h.Write([]byte{'|'})
		h.Write([]byte(p))
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// cached runs fetch through the cache: a fresh entry short-circuits the
// call, a miss stores the fetched value under ttl. Cache errors are
// logged and treated as misses.
func cached[T any](ctx context.Context, c cache.Cache, log zerolog.Logger, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if c != nil {
		if buf, ok, err := c.Get(ctx, key); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		} else if ok {
			var v T
			if err := json.Unmarshal(buf, &v); err == nil {
				return v, true, nil
			}
			log.Debug().Str("key", key).Msg("cache entry undecodable, refetching")
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, false, err
	}
	if c != nil {
		if buf, err := json.Marshal(v); err == nil {
			if err := c.Set(ctx, key, buf, ttl); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
	}
	return v, false, nil
}
