package blobstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/blobstore"
)

func newTestStore(t *testing.T) blobstore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return blobstore.NewRedisStore(client)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Put(ctx, "q-1", "aGVsbG8="); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	data, err := store.Get(ctx, "q-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if data != "aGVsbG8=" {
		t.Fatalf("unexpected payload: %q", data)
	}

	if err := store.Delete(ctx, "q-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "q-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
