package javasrc

import (
	"crypto/sha256"
	"fmt"

	"github.com/maypok86/otter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// parseCacheTotal counts parse cache lookups.
	// Labels: result (hit, miss)
	parseCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraglint",
		Subsystem: "javasrc",
		Name:      "parse_cache_total",
		Help:      "Parse cache lookups by result",
	}, []string{"result"})
)

// DefaultCacheSize is the number of parsed files kept by a ParseCache.
const DefaultCacheSize = 4096

// ParseCache keeps parsed files keyed by path. An entry is reused only
// while the file content hashes the same, so watch mode re-parses just
// the files that changed.
type ParseCache struct {
	parser *Parser
	cache  otter.Cache[string, *cachedFile]
}

type cachedFile struct {
	sum  [sha256.Size]byte
	file *File
}

// NewParseCache creates a cache holding up to capacity files.
func NewParseCache(parser *Parser, capacity int) (*ParseCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	cache, err := otter.MustBuilder[string, *cachedFile](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &ParseCache{parser: parser, cache: cache}, nil
}

// Parse returns the cached file for path when src is unchanged, otherwise
// parses src and caches the result.
func (c *ParseCache) Parse(path string, src []byte) (*File, error) {
	sum := sha256.Sum256(src)
	if hit, ok := c.cache.Get(path); ok && hit.sum == sum {
		parseCacheTotal.WithLabelValues("hit").Inc()
		return hit.file, nil
	}
	parseCacheTotal.WithLabelValues("miss").Inc()

	file, err := c.parser.Parse(path, src)
	if err != nil {
		return nil, err
	}
	c.cache.Set(path, &cachedFile{sum: sum, file: file})
	return file, nil
}

// Forget drops path, e.g. after the file was removed.
func (c *ParseCache) Forget(path string) {
	c.cache.Delete(path)
}

// Close releases the cache's background resources.
func (c *ParseCache) Close() {
	c.cache.Close()
}
