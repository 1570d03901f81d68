package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopStopped is returned when work is submitted to a loop that has exited.
var ErrLoopStopped = errors.New("session loop stopped")

// Executor schedules work for a session.
type Executor interface {
	// Post queues fn to run on the session loop.
	Post(fn func())
	// Go starts blocking external work off the loop. The task resumes
	// on the loop by calling Post.
	Go(task func())
	// Do runs fn on the loop and waits for it to finish.
	Do(ctx context.Context, fn func()) error
}

// Loop runs posted closures one at a time on a single goroutine, so every
// entry point and callback runs to completion without interleaving.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop with the given queue depth.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run processes queued work until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case fn := <-l.queue:
			select {
			case <-l.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop terminates the loop. Pending work is dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Post implements Executor. Work posted after Stop is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Go implements Executor.
func (l *Loop) Go(task func()) {
	go task()
}

// Do implements Executor. It must not be called from the loop goroutine.
// An error means fn did not run and never will; once fn has started, Do
// waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	// 0 queued, 1 started, 2 abandoned by the caller
	var state atomic.Int32
	finished := make(chan struct{})
	work := func() {
		if !state.CompareAndSwap(0, 1) {
			return
		}
		defer close(finished)
		fn()
	}

	select {
	case l.queue <- work:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	select {
	case <-finished:
		return nil
	case <-l.done:
		err = ErrLoopStopped
	case <-ctx.Done():
		err = ctx.Err()
	}
	if state.CompareAndSwap(0, 2) {
		return err
	}
	<-finished
	return nil
}
