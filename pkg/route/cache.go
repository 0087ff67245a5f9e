package route

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vyrodovalexey/routekit/internal/observability"
)

// DefaultCacheSize is the matcher cache size used when none is given.
const DefaultCacheSize = 1000

// CachedCompiler memoizes compile results per template, failures included,
// in a bounded LRU. It is safe for concurrent use.
type CachedCompiler struct {
	source  MatcherSource
	cache   *lru.Cache[string, CompileResult]
	metrics *observability.Metrics
}

// NewCachedCompiler wraps source with an LRU of the given size.
func NewCachedCompiler(source MatcherSource, size int, metrics *observability.Metrics) (*CachedCompiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	c := &CachedCompiler{
		source:  source,
		metrics: metrics,
	}

	cache, err := lru.NewWithEvict(size, func(string, CompileResult) {
		c.metrics.RecordCacheEviction()
	})
	if err != nil {
		return nil, err
	}
	c.cache = cache

	return c, nil
}

// Compile returns the cached result for template, compiling on a miss.
func (c *CachedCompiler) Compile(template string) CompileResult {
	if result, ok := c.cache.Get(template); ok {
		c.metrics.RecordCacheHit()
		return result
	}

	c.metrics.RecordCacheMiss()
	result := c.source.Compile(template)
	c.cache.Add(template, result)
	c.metrics.SetCacheSize(c.cache.Len())

	return result
}

// Len returns the number of cached templates.
func (c *CachedCompiler) Len() int {
	return c.cache.Len()
}

// Purge drops every cached result.
func (c *CachedCompiler) Purge() {
	c.cache.Purge()
	c.metrics.SetCacheSize(0)
}
