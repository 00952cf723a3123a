package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*redisClient, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := NewRedis(Config{Addr: mr.Addr(), Prefix: "gate"})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if _, err := c.Get(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("gate:k") {
		t.Error("stored keys should carry the configured prefix")
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Errorf("Get = %q, want v", got)
	}

	ok, err := c.Exists(ctx, "k")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v, want true, nil", ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestRedis_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if err := c.Set(ctx, "short", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := c.Get(ctx, "short"); !IsNotFound(err) {
		t.Errorf("Get after expiry = %v, want ErrNotFound", err)
	}
}

func TestRedis_Stats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_ = c.Set(ctx, "a", "1", time.Minute)
	_ = c.Set(ctx, "b", "2", time.Minute)

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Driver != "redis" {
		t.Errorf("Driver = %q", st.Driver)
	}
	if st.Keys != 2 {
		t.Errorf("Keys = %d, want 2", st.Keys)
	}
}
