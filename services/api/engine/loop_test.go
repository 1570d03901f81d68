package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTopicOrderAndUnsubscribe(t *testing.T) {
	topic := NewTopic[int]("numbers")
	var got []string

	topic.Subscribe(func(n int) { got = append(got, "a") })
	unsub := topic.Subscribe(func(n int) { got = append(got, "b") })
	topic.Subscribe(func(n int) { got = append(got, "c") })

	topic.Publish(1)
	unsub()
	topic.Publish(2)

	want := []string{"a", "b", "c", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d = %s, want %s", i, got[i], want[i])
		}
	}
	if topic.Len() != 2 || topic.Name() != "numbers" {
		t.Errorf("Len = %d Name = %s", topic.Len(), topic.Name())
	}
}

func TestLoopRunsWorkSerially(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(8)
	go loop.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Do(ctx, func() { counter++ }); err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	var final int
	if err := loop.Do(ctx, func() { final = counter }); err != nil {
		t.Fatal(err)
	}
	if final != 50 {
		t.Errorf("counter = %d, want 50", final)
	}
}

func TestLoopPostFromWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(4)
	go loop.Run(ctx)

	done := make(chan int, 1)
	loop.Go(func() {
		loop.Post(func() { done <- 42 })
	})

	select {
	case v := <-done:
		if v != 42 {
			t.Errorf("got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("posted work never ran")
	}
}

func TestLoopStopped(t *testing.T) {
	loop := NewLoop(1)
	loop.Stop()

	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}

	// must not block
	loop.Post(func() {})
	loop.Post(func() {})
}

func TestLoopDoHonoursContext(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// the loop is never started, so the queued work never completes
	if err := loop.Do(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestLoopDoAbandonedWorkNeverRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := NewLoop(4)
	go loop.Run(ctx)

	release := make(chan struct{})
	loop.Post(func() { <-release })

	var ran atomic.Bool
	short, stop := context.WithTimeout(ctx, 20*time.Millisecond)
	defer stop()
	if err := loop.Do(short, func() { ran.Store(true) }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(release)
	// drains the abandoned closure, which is queued ahead of this one
	if err := loop.Do(ctx, func() {}); err != nil {
		t.Fatal(err)
	}
	if ran.Load() {
		t.Error("work ran after Do gave up on it")
	}
}
