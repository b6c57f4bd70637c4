package contextrt

import (
	"sync"
	"testing"
)

func TestEnterExitNesting(t *testing.T) {
	c := NewContext()
	if err := c.Enter(); err != nil {
		t.Fatalf("Enter() = %v, want nil", err)
	}
	if err := c.Enter(); err != nil {
		t.Fatalf("re-entrant Enter() = %v, want nil", err)
	}
	if c.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", c.Depth())
	}
	c.Exit()
	if c.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", c.Depth())
	}
	c.Exit()
	if c.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", c.Depth())
	}
}

func TestEnterRejectsConflictingGoroutine(t *testing.T) {
	c := NewContext()
	if err := c.Enter(); err != nil {
		t.Fatalf("Enter() = %v, want nil", err)
	}
	defer c.Exit()

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- c.Enter()
	}()
	wg.Wait()

	if err := <-errCh; err == nil {
		t.Fatal("expected Enter from a second goroutine to fail while the Context is still owned by the first")
	}
	if c.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 (rejected Enter must not increment)", c.Depth())
	}
}

func TestEnterSucceedsAfterOwnerFullyExits(t *testing.T) {
	c := NewContext()
	if err := c.Enter(); err != nil {
		t.Fatalf("Enter() = %v, want nil", err)
	}
	c.Exit()

	done := make(chan error, 1)
	go func() { done <- c.Enter() }()
	if err := <-done; err != nil {
		t.Fatalf("Enter() from a new goroutine after full Exit = %v, want nil", err)
	}
}

func TestExitWithoutEnterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from unbalanced Exit")
		}
	}()
	NewContext().Exit()
}

func TestSealRejectsMismatchedUnsealKey(t *testing.T) {
	c := NewContext()
	c.Seal("secret")
	if !c.Sealed() {
		t.Fatal("expected Context to be sealed")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from mismatched unseal key")
		}
	}()
	c.Unseal("wrong")
}

func TestSealUnsealRoundTrip(t *testing.T) {
	c := NewContext()
	c.Seal("k")
	c.Unseal("k")
	if c.Sealed() {
		t.Fatal("expected Context to be unsealed")
	}
}

func TestThreadLocalPutGetRemove(t *testing.T) {
	c := NewContext()
	c.PutThreadLocal("k", 42)
	if v, ok := c.GetThreadLocal("k"); !ok || v != 42 {
		t.Fatalf("GetThreadLocal() = %v, %v; want 42, true", v, ok)
	}
	c.RemoveThreadLocal("k")
	if _, ok := c.GetThreadLocal("k"); ok {
		t.Fatal("expected thread-local to be removed")
	}
}

func TestMicrotaskOrderingFIFOAndSelfEnqueue(t *testing.T) {
	c := NewContext()
	var order []int
	c.EnqueueMicrotask(func() {
		order = append(order, 1)
		c.EnqueueMicrotask(func() { order = append(order, 3) })
	})
	c.EnqueueMicrotask(func() { order = append(order, 2) })
	c.ProcessMicrotasks()
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if c.PendingMicrotasks() != 0 {
		t.Fatalf("expected drained queue, got %d pending", c.PendingMicrotasks())
	}
}

func TestContinuationIsolationAcrossContexts(t *testing.T) {
	c1 := NewContext()
	c2 := NewContext()
	cont := c1.CaptureContinuation("frame-state")

	if _, err := c2.ResumeContinuation(cont); err == nil {
		t.Fatal("expected error resuming a continuation on a different Context")
	}

	state, err := c1.ResumeContinuation(cont)
	if err != nil {
		t.Fatalf("ResumeContinuation: %v", err)
	}
	if state != "frame-state" {
		t.Fatalf("state = %v, want %q", state, "frame-state")
	}

	if _, err := c1.ResumeContinuation(cont); err == nil {
		t.Fatal("expected error resuming an already-resumed continuation")
	}
}

func TestFeatureFlagsLockOnSeal(t *testing.T) {
	c := NewContext()
	c.SetFeature(FeatureStrictMode, true)
	if !c.HasFeature(FeatureStrictMode) {
		t.Fatal("expected FeatureStrictMode to be set")
	}
	c.Seal(nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic changing feature flags on a sealed Context")
		}
	}()
	c.SetFeature(FeatureStrictMode, false)
}
