package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, float64(0), Similarity(nil, nil))
	assert.Equal(t, float64(0), Similarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, float64(0), Similarity([]float32{0, 0}, []float32{1, 1}))

	// Identical vectors are maximally similar.
	v := []float32{0.3, 0.7, 0.1}
	assert.InDelta(t, 1.0, Similarity(v, v), 1e-9)

	// Negative cosine is clamped to zero.
	assert.Equal(t, float64(0), Similarity([]float32{1, 0}, []float32{-1, 0}))
}

func TestLexicalProviderDeterministic(t *testing.T) {
	p := NewLexicalProvider()
	ctx := context.Background()

	a, err := p.Embed(ctx, "Built services using Python and Docker")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "Built services using Python and Docker")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLexicalProviderOverlapOrdering(t *testing.T) {
	p := NewLexicalProvider()
	ctx := context.Background()

	jd, _ := p.Embed(ctx, "Python engineer with AWS and Docker experience")
	near, _ := p.Embed(ctx, "Built services using Python and Docker on AWS")
	far, _ := p.Embed(ctx, "Managed retail inventory and seasonal staffing")

	assert.Greater(t, Similarity(jd, near), Similarity(jd, far))
}

// countingProvider wraps LexicalProvider and counts Embed calls.
type countingProvider struct {
	inner Provider
	calls atomic.Int64
	fail  bool
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, errors.New("backend down")
	}
	return c.inner.Embed(ctx, text)
}

func TestCachedProviderHitsAndMisses(t *testing.T) {
	counting := &countingProvider{inner: NewLexicalProvider()}
	cached, err := NewCachedProvider(counting, 10)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached.Embed(ctx, "some text")
	require.NoError(t, err)
	second, err := cached.Embed(ctx, "some text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), counting.calls.Load())
	assert.Equal(t, 1, cached.Len())
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	counting := &countingProvider{inner: NewLexicalProvider(), fail: true}
	cached, err := NewCachedProvider(counting, 10)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cached.Embed(ctx, "text")
	assert.Error(t, err)
	_, err = cached.Embed(ctx, "text")
	assert.Error(t, err)

	assert.Equal(t, int64(2), counting.calls.Load())
	assert.Equal(t, 0, cached.Len())
}

func TestCachedProviderBounded(t *testing.T) {
	cached, err := NewCachedProvider(NewLexicalProvider(), 2)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = cached.Embed(ctx, "one")
	_, _ = cached.Embed(ctx, "two")
	_, _ = cached.Embed(ctx, "three")

	assert.Equal(t, 2, cached.Len())
}

func TestCachedProviderConcurrentAccess(t *testing.T) {
	cached, err := NewCachedProvider(NewLexicalProvider(), 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	texts := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := cached.Embed(context.Background(), texts[i%len(texts)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(texts), cached.Len())
}
