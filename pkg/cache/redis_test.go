package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Fatal("NewRedisCache() on a closed port succeeded")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("DARKROOM_REDIS_ADDR")
	if addr == "" {
		t.Skip("DARKROOM_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(NewDefaultKeyer(), "test").CalculationKey(time.Now().UnixNano())
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get() before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("calc"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "calc" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get() after Delete hit")
	}
}
