package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"server/internal/domain"
)

func TestFileStore_PutGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	payload := []byte("mp3-bytes")
	key, err := store.Put(ctx, "user-1/track_123.mp3", payload, "audio/mpeg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "user-1/track_123.mp3" {
		t.Fatalf("unexpected key: %q", key)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stored bytes differ: got %q", got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_PutNeverOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Put(ctx, "user-1/a.mp3", []byte("first"), "audio/mpeg"); err != nil {
		t.Fatalf("first put: %v", err)
	}
	_, err = store.Put(ctx, "user-1/a.mp3", []byte("second"), "audio/mpeg")
	if !errors.Is(err, domain.ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}

	got, err := store.Get(ctx, "user-1/a.mp3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("original object was clobbered: %q", got)
	}
}

func TestFileStore_RejectsTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Put(context.Background(), "../escape.mp3", []byte("x"), "audio/mpeg"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Put(context.Background(), "  ", []byte("x"), "audio/mpeg"); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
}

func TestFileStore_DeleteMissingKeyIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Delete(context.Background(), "user-1/missing.mp3"); err != nil {
		t.Fatalf("delete of missing key should succeed, got %v", err)
	}
}
