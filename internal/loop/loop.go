// Package loop runs a map view's work on one goroutine. Commands, engine
// callbacks and timers all post onto the loop, so the view itself needs
// no locking.
package loop

import (
	"context"
	"errors"
	"sync"

	"github.com/mapbridge/mapbridge/internal/channel"
)

// ErrStopped is returned for work posted after the loop stopped.
var ErrStopped = errors.New("loop stopped")

const defaultQueueSize = 256

// Loop is a serial executor.
type Loop struct {
	tasks    channel.Channel[func()]
	stop     chan struct{}
	stopOnce sync.Once
	exited   chan struct{}
}

// New creates a loop holding up to size pending tasks.
func New(size int) *Loop {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Loop{
		tasks:  channel.New[func()](size),
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	if !l.tasks.Send(fn, l.stop) {
		return ErrStopped
	}
	return nil
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted tasks in order until ctx is done or Stop is called.
// Tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.exited)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stop:
			return nil
		case fn := <-l.tasks.Receive():
			fn()
		}
	}
}

// Stop ends Run and rejects further posts.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	return l.tasks.Len()
}
