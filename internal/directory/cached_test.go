package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalil-edge/dalil-edge/internal/cache"
)

type scriptedLookup struct {
	calls  int
	exists bool
	err    error
}

func (l *scriptedLookup) ExistsBySlug(context.Context, string) (bool, error) {
	l.calls++
	return l.exists, l.err
}

func TestCachedLookupMemoizesVerdicts(t *testing.T) {
	inner := &scriptedLookup{exists: true}
	lookup := NewCachedLookup(inner, cache.NewSlugCache(time.Hour, 16))

	for i := 0; i < 3; i++ {
		exists, err := lookup.ExistsBySlug(context.Background(), "restaurants")
		if err != nil || !exists {
			t.Fatalf("call %d: expected cached positive, got exists=%v err=%v", i, exists, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single inner call, got %d", inner.calls)
	}
}

func TestCachedLookupDoesNotCacheErrors(t *testing.T) {
	inner := &scriptedLookup{err: errors.New("backend down")}
	lookup := NewCachedLookup(inner, cache.NewSlugCache(time.Hour, 16))

	for i := 0; i < 2; i++ {
		if _, err := lookup.ExistsBySlug(context.Background(), "restaurants"); err == nil {
			t.Fatalf("call %d: expected error to propagate", i)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("errors must not be cached, got %d inner calls", inner.calls)
	}

	// backend recovers: the next verdict is cached
	inner.err = nil
	inner.exists = true
	if _, err := lookup.ExistsBySlug(context.Background(), "restaurants"); err != nil {
		t.Fatalf("recovered lookup failed: %v", err)
	}
	if _, err := lookup.ExistsBySlug(context.Background(), "restaurants"); err != nil {
		t.Fatalf("cached lookup failed: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected recovery verdict to be cached, got %d inner calls", inner.calls)
	}
}

func TestCachedLookupDisabledCache(t *testing.T) {
	inner := &scriptedLookup{exists: false}
	lookup := NewCachedLookup(inner, cache.NewSlugCache(0, 16))

	for i := 0; i < 2; i++ {
		if _, err := lookup.ExistsBySlug(context.Background(), "restaurants"); err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("disabled cache should always consult inner, got %d calls", inner.calls)
	}
}
