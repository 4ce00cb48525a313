package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := Session{UserID: "u1", Email: "u1@example.edu", UserType: "student"}
	if err := store.Create(ctx, "tok", sess, time.Minute); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if *got != sess {
		t.Fatalf("got %+v, want %+v", *got, sess)
	}

	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v after delete, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, "tok", Session{UserID: "u1"}, -time.Second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := store.Get(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v for expired token, want ErrNotFound", err)
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
