package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client, "test:")
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok, err := cache.Get(ctx, "foo")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}

	if string(val) != "bar" {
		t.Fatalf("expected bar, got %s", val)
	}

	if !mr.Exists("test:foo") {
		t.Fatalf("expected prefixed key in redis")
	}

	if _, ok, err := cache.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheSetNX(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client, "test:")
	ctx := context.Background()

	set, err := cache.SetNX(ctx, "key", []byte("first"), time.Minute)
	if err != nil || !set {
		t.Fatalf("expected first SetNX to succeed, got set=%v err=%v", set, err)
	}

	set, err = cache.SetNX(ctx, "key", []byte("second"), time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if set {
		t.Fatalf("expected second SetNX to fail because key exists")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client, "test:")
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	if err := mr.Set("other:keep", "x"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists("test:a") {
		t.Fatalf("expected key to be deleted")
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if mr.Exists("test:b") || mr.Exists("test:c") {
		t.Fatalf("expected prefixed keys to be cleared")
	}
	if !mr.Exists("other:keep") {
		t.Fatalf("clear must not touch other prefixes")
	}
}
