package cache

import (
	"context"
	"testing"
	"time"
)

func TestKeyNormalization(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Headache Remedies  ", "headache remedies"},
		{"ALL CAPS", "all caps"},
		{"already lower", "already lower"},
		{"Mixed   Internal  Spacing", "mixed   internal  spacing"}, // no collapsing
	}
	for _, c := range cases {
		if got := Key(c.in); got != c.want {
			t.Errorf("Key(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(30*time.Minute, nil)
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Fatal("unexpected hit on empty store")
	}
	if err := m.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get = (%q, %v, %v), want (v, true, nil)", got, ok, err)
	}
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory(30*time.Minute, nil)
	ctx := context.Background()
	m.Put(ctx, "k", "first")
	m.Put(ctx, "k", "second")
	if got, _, _ := m.Get(ctx, "k"); got != "second" {
		t.Errorf("got %q, want second", got)
	}
	if m.Len() != 1 {
		t.Errorf("a key maps to at most one live entry, len = %d", m.Len())
	}
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Now()
	m := NewMemory(30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	m.Put(ctx, "k", "v")
	now = now.Add(29 * time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("entry expired too early")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("entry should be absent after TTL")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry should have been evicted on read")
	}
}
