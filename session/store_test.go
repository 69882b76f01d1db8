package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStoreTest(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "et", ttl)
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func testTokens() *Tokens {
	return &Tokens{
		Access:  "access-1",
		Refresh: "refresh-1",
		SavedAt: time.Now().Unix(),
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	store, _, done := newStoreTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, 42, testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Access != "access-1" || got.Refresh != "refresh-1" {
		t.Fatalf("unexpected pair: %+v", got)
	}
}

func TestGetAbsentReturnsNotFound(t *testing.T) {
	store, _, done := newStoreTest(t, time.Hour)
	defer done()

	if _, err := store.Get(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntryExpiresWithoutAccess(t *testing.T) {
	store, mr, done := newStoreTest(t, time.Second)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, 42, testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(1100 * time.Millisecond)

	if _, err := store.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after idle TTL, got %v", err)
	}
}

func TestGetExtendsSlidingTTL(t *testing.T) {
	store, mr, done := newStoreTest(t, time.Second)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, 42, testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Two reads spaced inside the window keep the entry alive past the
	// original expiry instant.
	mr.FastForward(700 * time.Millisecond)
	if _, err := store.Get(ctx, 42); err != nil {
		t.Fatalf("get after first wait: %v", err)
	}

	mr.FastForward(700 * time.Millisecond)
	if _, err := store.Get(ctx, 42); err != nil {
		t.Fatalf("get after second wait: %v", err)
	}

	mr.FastForward(1100 * time.Millisecond)
	if _, err := store.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after idle TTL, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _, done := newStoreTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	if err := store.Save(ctx, 42, testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, 42); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, 42); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetCorruptBlob(t *testing.T) {
	store, mr, done := newStoreTest(t, time.Hour)
	defer done()

	mr.Set(store.key(42), "bad")

	if _, err := store.Get(context.Background(), 42); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}
