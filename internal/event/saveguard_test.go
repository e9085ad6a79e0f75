package event

import (
	"sync"
	"testing"
)

func TestSaveGuard(t *testing.T) {
	g := NewSaveGuard()

	release, ok := g.TryAcquire("a")
	if !ok {
		t.Fatal("first acquire failed")
	}
	if _, ok := g.TryAcquire("a"); ok {
		t.Fatal("second acquire of a busy key succeeded")
	}
	if rb, ok := g.TryAcquire("b"); !ok {
		t.Fatal("independent key was blocked")
	} else {
		rb()
	}

	release()
	release() // double release is harmless

	if r, ok := g.TryAcquire("a"); !ok {
		t.Fatal("key not released")
	} else {
		r()
	}
}

func TestSaveGuardSingleWinner(t *testing.T) {
	g := NewSaveGuard()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := g.TryAcquire("same"); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()
	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}
}
