package instrumented

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
)

type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingmap_cache_requests_total",
				Help: "Cache lookups by key family and result",
			},
			[]string{"family", "result"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingmap_cache_errors_total",
				Help: "Cache backend failures by operation",
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.errors)
	}
	return m
}

type cache struct {
	next    ports.Cache
	metrics *Metrics
}

// Wrap counts hits, misses and backend errors around another cache.
func Wrap(next ports.Cache, metrics *Metrics) ports.Cache {
	return &cache{next: next, metrics: metrics}
}

func family(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

func (c *cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.next.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.requests.WithLabelValues(family(key), "hit").Inc()
	case errors.Is(err, domain.ErrCacheMiss):
		c.metrics.requests.WithLabelValues(family(key), "miss").Inc()
	default:
		c.metrics.requests.WithLabelValues(family(key), "error").Inc()
		c.metrics.errors.WithLabelValues("get").Inc()
	}
	return value, err
}

func (c *cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	if err != nil {
		c.metrics.errors.WithLabelValues("set").Inc()
	}
	return err
}

func (c *cache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	n, err := c.next.DeletePrefix(ctx, prefix)
	if err != nil {
		c.metrics.errors.WithLabelValues("delete").Inc()
	}
	return n, err
}
