package core

import (
	"sync"
	"testing"
)

func TestSessionLocksSerializePerSession(t *testing.T) {
	locks := NewSessionLocks()

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock("s1")
			defer release()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected at most 1 concurrent cycle per session, saw %d", maxActive)
	}
}

func TestSessionLocksCleanUp(t *testing.T) {
	locks := NewSessionLocks()
	release := locks.Lock("s1")
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Fatalf("expected lock map to be empty, has %d entries", len(locks.locks))
	}
}

func TestSessionLocksIndependentSessions(t *testing.T) {
	locks := NewSessionLocks()
	releaseA := locks.Lock("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.Lock("b")
		release()
		close(done)
	}()
	<-done
}
