package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newHistory(t *testing.T) (*HistoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewHistoryStore(rdb), mr
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()
	h, mr := newHistory(t)

	for _, vid := range []int64{1, 2, 3, 1} {
		if err := h.Record(ctx, 42, vid); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := h.Recent(ctx, 42, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 3, 2}
	if len(got) != len(want) {
		t.Fatalf("Recent = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Recent = %v, want %v", got, want)
		}
	}
	if ttl := mr.TTL(historyKey(42)); ttl <= 0 {
		t.Errorf("history key has no ttl")
	}

	if err := h.Forget(ctx, 42, 3); err != nil {
		t.Fatal(err)
	}
	got, _ = h.Recent(ctx, 42, 10)
	if len(got) != 2 {
		t.Fatalf("after Forget = %v", got)
	}

	empty, err := h.Recent(ctx, 7, 10)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty history = %v, %v", empty, err)
	}
}

func TestHistoryStoreTrims(t *testing.T) {
	ctx := context.Background()
	h, _ := newHistory(t)
	h.size = 3
	for vid := int64(1); vid <= 5; vid++ {
		if err := h.Record(ctx, 1, vid); err != nil {
			t.Fatal(err)
		}
	}
	got, err := h.Recent(ctx, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 5 || got[2] != 3 {
		t.Fatalf("Recent = %v", got)
	}
}
