package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllWork(t *testing.T) {
	p := New(4)
	defer p.Close()

	var counter atomic.Int64
	const n = 1000
	for i := 0; i < n; i++ {
		p.Submit(func() { counter.Add(1) })
	}
	p.Wait()

	if got := counter.Load(); got != n {
		t.Fatalf("expected %d completed tasks, got %d", n, got)
	}
}

func TestPoolWaitIsReusable(t *testing.T) {
	p := New(4)
	defer p.Close()

	var counter atomic.Int64
	for round := 0; round < 3; round++ {
		for i := 0; i < 100; i++ {
			p.Submit(func() { counter.Add(1) })
		}
		p.Wait()
	}

	if got := counter.Load(); got != 300 {
		t.Fatalf("expected 300 completed tasks across rounds, got %d", got)
	}
}

func TestPoolBelowTwoWorkersRunsSynchronously(t *testing.T) {
	p := New(1)
	defer p.Close()

	ran := false
	p.Submit(func() { ran = true })
	if !ran {
		t.Fatalf("expected work submitted to a sub-2-worker pool to run synchronously")
	}
}
