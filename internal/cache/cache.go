// Package cache is the read cache fronting catalog queries. Results are stored
// JSON-encoded per region, so callers always receive private copies.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
)

type Cache struct {
	store   Store
	logger  logger.ZapLogger
	metrics *metrics.Metrics
}

// New builds a cache over store. m may be nil.
func New(store Store, log logger.ZapLogger, m *metrics.Metrics) *Cache {
	return &Cache{
		store:   store,
		logger:  log,
		metrics: m,
	}
}

// Fetch serves key from region or runs load and stores its result. Errors from
// load are returned as is and never cached. Backend failures degrade to a
// plain load.
func Fetch[T any](ctx context.Context, c *Cache, region Region, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	raw, ok, err := c.store.Get(ctx, region, key)
	if err != nil {
		c.backendError(region, "get", err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.hit(region)
			return v, nil
		}
		c.logger.Warn("dropping undecodable cache entry", zap.String("region", string(region)), zap.String("key", key))
	}
	c.miss(region)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache value not encodable", zap.String("region", string(region)), zap.Error(err))
		return v, nil
	}
	if err := c.store.Set(ctx, region, key, data); err != nil {
		c.backendError(region, "set", err)
	}
	return v, nil
}

// Evict flushes every listed region. Call it only after the write it follows
// has been committed.
func (c *Cache) Evict(ctx context.Context, regions ...Region) {
	if c == nil {
		return
	}
	for _, r := range regions {
		if err := c.store.Flush(ctx, r); err != nil {
			c.backendError(r, "flush", err)
			continue
		}
		if c.metrics != nil {
			c.metrics.CacheEvictions.WithLabelValues(string(r)).Inc()
		}
		c.logger.Debug("cache region evicted", zap.String("region", string(r)))
	}
}

func (c *Cache) hit(region Region) {
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues(string(region)).Inc()
	}
}

func (c *Cache) miss(region Region) {
	if c.metrics != nil {
		c.metrics.CacheMisses.WithLabelValues(string(region)).Inc()
	}
}

func (c *Cache) backendError(region Region, op string, err error) {
	c.logger.Warn("cache backend failure",
		zap.String("region", string(region)),
		zap.String("op", op),
		zap.Error(err),
	)
	if c.metrics != nil {
		c.metrics.CacheErrors.WithLabelValues(string(region), op).Inc()
	}
}

// Key derives a deterministic cache key from an operation name and its
// parameters. Struct parameters are re-encoded with their fields ordered by
// name, so two criteria values with the same content always share a key.
func Key(op string, params ...any) string {
	if len(params) == 0 {
		return op
	}

	canon := make([]any, len(params))
	for i, p := range params {
		canon[i] = canonical(p)
	}
	data, err := json.Marshal(canon)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", params))
	}
	return fmt.Sprintf("%s:%016x", op, xxhash.Sum64(data))
}

func canonical(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return string(data)
	}
	return out
}
