package service

import (
	"context"
	"testing"
	"time"

	"github.com/firstrankcoders/credential-service/internal/domain"
	repogomock "github.com/firstrankcoders/credential-service/internal/repository/gomock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

func TestInMemoryUserProfileCacheStore(t *testing.T) {
	store := NewInMemoryUserProfileCacheStore()
	ctx := context.Background()

	if err := store.Set(ctx, profileCacheNamespace, "p1", []byte(`{"id":"p1"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, profileCacheNamespace, "p1")
	if err != nil || !ok || string(got) != `{"id":"p1"}` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}

	if err := store.Delete(ctx, profileCacheNamespace, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, profileCacheNamespace, "p1"); ok {
		t.Fatal("expected miss after delete")
	}

	_ = store.Set(ctx, profileListCacheNamespace, "a", []byte("1"), time.Minute)
	_ = store.Set(ctx, profileListCacheNamespace, "b", []byte("2"), time.Minute)
	if err := store.InvalidateNamespace(ctx, profileListCacheNamespace); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	for _, key := range []string{"a", "b"} {
		if _, ok, _ := store.Get(ctx, profileListCacheNamespace, key); ok {
			t.Fatalf("expected %s to be invalidated", key)
		}
	}
}

func TestInMemoryUserProfileCacheStoreExpiry(t *testing.T) {
	store := NewInMemoryUserProfileCacheStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Set(ctx, profileCacheNamespace, "p1", []byte("x"), time.Second)
	store.now = func() time.Time { return now.Add(2 * time.Second) }
	if _, ok, _ := store.Get(ctx, profileCacheNamespace, "p1"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if err := store.Set(ctx, profileCacheNamespace, "p2", []byte("x"), 0); err != nil {
		t.Fatalf("zero ttl set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, profileCacheNamespace, "p2"); ok {
		t.Fatal("expected zero ttl to skip caching")
	}
}

func TestRedisUserProfileCacheStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	store := NewRedisUserProfileCacheStore(client, "test_profile_cache")
	ctx := context.Background()

	if err := store.Set(ctx, profileCacheNamespace, "p1", []byte(`{"id":"p1"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, profileCacheNamespace, "p1")
	if err != nil || !ok || string(got) != `{"id":"p1"}` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, profileCacheNamespace, "p1"); ok {
		t.Fatal("expected ttl expiry")
	}

	_ = store.Set(ctx, profileListCacheNamespace, "page=1", []byte("1"), time.Minute)
	_ = store.Set(ctx, profileListCacheNamespace, "page=2", []byte("2"), time.Minute)
	if err := store.InvalidateNamespace(ctx, profileListCacheNamespace); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := store.Get(ctx, profileListCacheNamespace, "page=1"); ok {
		t.Fatal("expected namespace invalidation")
	}
	if mr.Exists(store.namespaceIndexKey(profileListCacheNamespace)) {
		t.Fatal("expected namespace index to be removed")
	}

	_ = store.Set(ctx, profileCacheNamespace, "p2", []byte("x"), time.Minute)
	if err := store.Delete(ctx, profileCacheNamespace, "p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, profileCacheNamespace, "p2"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestUserServiceFallsBackWhenCacheIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	store := NewRedisUserProfileCacheStore(client, "")
	mr.Close()

	if _, _, err := store.Get(context.Background(), profileCacheNamespace, "p1"); err == nil {
		t.Fatal("expected error from closed redis")
	}

	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockUserProfileRepository(ctrl)
	repo.EXPECT().FindByID(gomock.Any(), "p1").Return(&domain.UserProfile{ID: "p1", Name: "Ada"}, nil)
	svc := NewUserService(repo, store, time.Minute, nil)

	profile, err := svc.Get(context.Background(), "p1")
	if err != nil || profile.Name != "Ada" {
		t.Fatalf("expected repository fallback, got %+v err=%v", profile, err)
	}
}
