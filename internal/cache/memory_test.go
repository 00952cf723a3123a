package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("t", time.Minute)

	if _, err := c.Get(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
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

func TestMemory_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	if err := c.Set(ctx, "short", "v", 20*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !IsNotFound(err) {
		t.Errorf("Get after expiry = %v, want ErrNotFound", err)
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", 20*time.Millisecond)

	if err := c.Set(ctx, "pinned", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "pinned"); err != nil {
		t.Errorf("Get = %v, want value to survive", err)
	}
}

func TestMemory_Stats(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	_ = c.Set(ctx, "a", "1", time.Minute)
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "nope")

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Driver != "memory" {
		t.Errorf("Driver = %q", st.Driver)
	}
	if st.Keys != 1 {
		t.Errorf("Keys = %d, want 1", st.Keys)
	}
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", st.Hits, st.Misses)
	}
}

func TestNew_KindSelection(t *testing.T) {
	c, err := New(Config{Kind: "memory", Prefix: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, _ := c.Stats(context.Background())
	if st.Driver != "memory" {
		t.Errorf("Driver = %q, want memory", st.Driver)
	}
}
