package directory

import (
	"context"

	"github.com/dalil-edge/dalil-edge/internal/cache"
)

// Lookup is the slug-existence probe the resolver consumes.
type Lookup interface {
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// CachedLookup memoizes clean verdicts from an inner lookup. Errors are
// never cached, so a flaky backend heals as soon as it answers again.
type CachedLookup struct {
	inner Lookup
	cache *cache.SlugCache
}

// NewCachedLookup wraps inner with the verdict cache.
func NewCachedLookup(inner Lookup, verdicts *cache.SlugCache) *CachedLookup {
	return &CachedLookup{inner: inner, cache: verdicts}
}

// ExistsBySlug serves from cache when fresh, otherwise consults the inner
// lookup and stores the verdict.
func (l *CachedLookup) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	if exists, ok := l.cache.Get(slug); ok {
		return exists, nil
	}

	exists, err := l.inner.ExistsBySlug(ctx, slug)
	if err != nil {
		return false, err
	}

	l.cache.Put(slug, exists)
	return exists, nil
}
