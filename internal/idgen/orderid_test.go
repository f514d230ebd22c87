package idgen

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewOrderID_UniqueUnderConcurrency(t *testing.T) {
	if err := InitNode("default", 1); err != nil {
		t.Fatalf("init node: %v", err)
	}

	const n = 1000
	now := time.Now()
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewOrderID(PrefixSubmission, now)
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate order id: %s", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != n {
		t.Errorf("expected %d ids, got %d", n, len(seen))
	}
}

func TestNewOrderID_Shape(t *testing.T) {
	if err := InitNode("default", 2); err != nil {
		t.Fatalf("init node: %v", err)
	}
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	id := NewOrderID(PrefixSubscription, ts)
	if !strings.HasPrefix(id, "SS260314150926") {
		t.Errorf("unexpected id shape: %s", id)
	}
	if DomainPrefix(id) != PrefixSubscription {
		t.Errorf("DomainPrefix(%s) = %q", id, DomainPrefix(id))
	}
}

func TestDomainPrefix_Unknown(t *testing.T) {
	if DomainPrefix("XX12345") != "" {
		t.Error("unknown prefix should map to empty")
	}
	if DomainPrefix("S") != "" {
		t.Error("short id should map to empty")
	}
}
