package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of vectors the cache retains.
const DefaultCacheSize = 10000

// CachedProvider wraps another Provider with a bounded, concurrency-safe LRU
// cache keyed by a content hash of the input text. Because providers are
// deterministic, a cached vector is always identical to a recomputed one.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, []float32]
}

// NewCachedProvider wraps inner with an LRU cache of the given size. A size
// of zero or less uses DefaultCacheSize.
func NewCachedProvider(inner Provider, size int) (*CachedProvider, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

// Name identifies the wrapped backend.
func (p *CachedProvider) Name() string { return p.inner.Name() }

// Embed returns the cached vector for text, computing and storing it on a
// miss. Errors are not cached; a failed embed is retried on the next call.
func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := p.key(text)
	if vec, ok := p.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := p.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, vec)
	return vec, nil
}

// Len returns the number of cached vectors.
func (p *CachedProvider) Len() int { return p.cache.Len() }

// key derives the cache key from the backend name and a content hash, so
// vectors from different backends never mix.
func (p *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return p.inner.Name() + ":" + hex.EncodeToString(sum[:])
}
