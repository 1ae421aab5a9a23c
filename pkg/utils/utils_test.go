package utils

import (
	"sync"
	"testing"
)

func TestSnowflakeUnique(t *testing.T) {
	sf, err := NewSnowflake(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	seen := make(map[int64]struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				id := sf.GenerateID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 4000 {
		t.Errorf("got %d unique ids, want 4000", len(seen))
	}
	prev := sf.GenerateID()
	for i := 0; i < 100; i++ {
		id := sf.GenerateID()
		if id <= prev {
			t.Fatalf("id %d not after %d", id, prev)
		}
		prev = id
	}
	if _, err := NewSnowflake(64, 1); err == nil {
		t.Error("worker id out of range should fail")
	}
}

func TestCrypt(t *testing.T) {
	hashed, err := Crypt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if hashed == "p1" {
		t.Fatal("password stored in plaintext")
	}
	if _, ok := VerifyPassword("p1", hashed); !ok {
		t.Error("correct password rejected")
	}
	if _, ok := VerifyPassword("p2", hashed); ok {
		t.Error("wrong password accepted")
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
	}{
		{int64(7), 7},
		{float64(9), 9},
		{"1844674407370955", 1844674407370955},
		{"abc", -1},
		{nil, -1},
	}
	for _, tt := range tests {
		if got := Transfer(tt.in); got != tt.want {
			t.Errorf("Transfer(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"format":{"duration":"12.500000"}}`)
	if err != nil || d != 12.5 {
		t.Errorf("got %v, %v", d, err)
	}
	d, err = parseProbeDuration(`{"format":{}}`)
	if err != nil || d != 0 {
		t.Errorf("got %v, %v", d, err)
	}
	if _, err := parseProbeDuration("not json"); err == nil {
		t.Error("expected decode error")
	}
}

func TestEmail(t *testing.T) {
	if !IsValidEmail("alice@x.io") {
		t.Error("valid email rejected")
	}
	if IsValidEmail("alice") {
		t.Error("invalid email accepted")
	}
	if NormalizeName("  Alice ") != "alice" {
		t.Error("NormalizeName")
	}
}
