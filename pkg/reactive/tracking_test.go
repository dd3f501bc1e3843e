package reactive

import (
	"sync"
	"testing"
)

func TestWithCtxBindsAndRestores(t *testing.T) {
	if CurrentCtx() != nil {
		t.Fatal("expected no bound context")
	}

	WithCtx("outer", func() {
		if CurrentCtx() != "outer" {
			t.Errorf("expected outer, got %v", CurrentCtx())
		}
		WithCtx("inner", func() {
			if CurrentCtx() != "inner" {
				t.Errorf("expected inner, got %v", CurrentCtx())
			}
		})
		if CurrentCtx() != "outer" {
			t.Errorf("inner binding leaked: %v", CurrentCtx())
		}
	})

	if CurrentCtx() != nil {
		t.Errorf("binding survived WithCtx: %v", CurrentCtx())
	}
}

func TestWithCtxRestoresOnPanic(t *testing.T) {
	func() {
		defer func() { _ = recover() }()
		WithCtx("x", func() { panic("boom") })
	}()
	if CurrentCtx() != nil {
		t.Errorf("binding survived panic: %v", CurrentCtx())
	}
}

func TestWithCtxIsGoroutineLocal(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 16)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			WithCtx(n, func() {
				for j := 0; j < 50; j++ {
					if CurrentCtx() != n {
						errs <- "context crossed goroutines"
						return
					}
				}
			})
		}(i)
	}

	WithCtx("main", func() {
		wg.Wait()
		if CurrentCtx() != "main" {
			errs <- "main binding lost"
		}
	})
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestSpawnedGoroutineHasNoBinding(t *testing.T) {
	WithCtx("parent", func() {
		done := make(chan any)
		go func() { done <- CurrentCtx() }()
		if got := <-done; got != nil {
			t.Errorf("goroutine inherited binding %v", got)
		}
	})
}

func TestTrackingContextReleased(t *testing.T) {
	s := NewSignal(1)
	NewComputed(func() int { return s.Get() }).Dispose()
	WithCtx("x", func() {})

	gid := getGoroutineID()
	if _, ok := trackingContexts.Load(gid); ok {
		t.Error("tracking context not released after work finished")
	}
}

func TestNestedReadersTrackInnermost(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(1)
	var inner *Computed[int]
	outer := NewComputed(func() int {
		inner = NewComputed(func() int { return b.Get() })
		return a.Get()
	})

	if outer.DependsOn(b) {
		t.Error("outer picked up inner's dependency")
	}
	if !inner.DependsOn(b) || inner.DependsOn(a) {
		t.Error("inner dependencies wrong")
	}
}

func TestGoroutineID(t *testing.T) {
	id := getGoroutineID()
	if id == 0 {
		t.Fatal("goroutine id should not be zero")
	}
	done := make(chan uint64)
	go func() { done <- getGoroutineID() }()
	if other := <-done; other == id {
		t.Error("distinct goroutines share an id")
	}
}
