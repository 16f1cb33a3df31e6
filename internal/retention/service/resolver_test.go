package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dailysketch/internal/retention/service"
	pkgerrors "dailysketch/pkg/errors"
)

func TestResolverDeduplicatesWithinPage(t *testing.T) {
	checker := newFakeChecker(map[string]bool{"alice": true})
	resolver := service.NewEntitlementResolver(checker, 25)

	ids := []string{"alice", "bob", "alice", "bob", "alice"}
	if err := resolver.Resolve(context.Background(), ids); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if checker.calls["alice"] != 1 || checker.calls["bob"] != 1 {
		t.Errorf("lookups = alice:%d bob:%d, want 1 each", checker.calls["alice"], checker.calls["bob"])
	}

	exempt, err := resolver.IsExempt("alice")
	if err != nil {
		t.Fatalf("IsExempt() error = %v", err)
	}
	if !exempt {
		t.Error("alice should be exempt")
	}
	exempt, err = resolver.IsExempt("bob")
	if err != nil {
		t.Fatalf("IsExempt() error = %v", err)
	}
	if exempt {
		t.Error("bob should not be exempt")
	}
}

func TestResolverSkipsCachedOwners(t *testing.T) {
	checker := newFakeChecker(nil)
	resolver := service.NewEntitlementResolver(checker, 25)

	if err := resolver.Resolve(context.Background(), []string{"alice"}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := resolver.Resolve(context.Background(), []string{"alice", "bob"}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if checker.calls["alice"] != 1 {
		t.Errorf("alice looked up %d times across pages, want 1", checker.calls["alice"])
	}
	if checker.calls["bob"] != 1 {
		t.Errorf("bob looked up %d times, want 1", checker.calls["bob"])
	}
}

// countingChecker tracks the peak number of in-flight lookups.
type countingChecker struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (c *countingChecker) IsPremium(ctx context.Context, ownerID string) (bool, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()
	return false, nil
}

func TestResolverBoundsConcurrency(t *testing.T) {
	checker := &countingChecker{}
	resolver := service.NewEntitlementResolver(checker, 5)

	ids := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		ids = append(ids, "owner-"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	if err := resolver.Resolve(context.Background(), ids); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if checker.peak > 5 {
		t.Errorf("peak in-flight lookups = %d, want <= 5", checker.peak)
	}
}

func TestResolverLookupErrorIsFatal(t *testing.T) {
	checker := newFakeChecker(nil)
	checker.errFor["broken"] = errors.New("timeout")
	resolver := service.NewEntitlementResolver(checker, 25)

	err := resolver.Resolve(context.Background(), []string{"alice", "broken"})
	if err == nil {
		t.Fatal("Resolve() expected error, got nil")
	}
	if !pkgerrors.Is(err, pkgerrors.EntitlementError) {
		t.Errorf("error code = %v, want EntitlementError", pkgerrors.GetCode(err))
	}
}

func TestIsExemptRequiresResolution(t *testing.T) {
	resolver := service.NewEntitlementResolver(newFakeChecker(nil), 25)

	_, err := resolver.IsExempt("never-resolved")
	if err == nil {
		t.Fatal("IsExempt() expected error for unresolved owner, got nil")
	}
	if !pkgerrors.Is(err, pkgerrors.EntitlementNotCached) {
		t.Errorf("error code = %v, want EntitlementNotCached", pkgerrors.GetCode(err))
	}
}
