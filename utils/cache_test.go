package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A cache without a Redis backend must miss on reads and ignore writes
// without failing the request.
func TestDisabledCacheIsSafe(t *testing.T) {
	c := &Cache{}
	ctx := context.Background()

	assert.False(t, c.Enabled())

	var out []string
	assert.False(t, c.Get(ctx, CacheKeyProducts, &out))

	c.Set(ctx, CacheKeyProducts, []string{"a"})
	assert.False(t, c.Get(ctx, CacheKeyProducts, &out))

	c.Invalidate(ctx, CacheKeyProducts, CacheKeyProduct)
}
