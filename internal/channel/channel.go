// Package channel wraps the task channel a view loop reads from.
package channel

// Receiver is the loop's side of a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender is the side posting work.
type Sender[T any] interface {
	// Send delivers v unless done is closed first. It reports whether v
	// was delivered.
	Send(v T, done <-chan struct{}) bool
}

// Channel is never closed; senders stop through their done channel.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
}

// Pipe is a Channel over a Go channel of fixed capacity. A capacity of
// zero hands each value off directly.
type Pipe[T any] struct {
	ch chan T
}

// NewPipe creates a pipe holding up to capacity values.
func NewPipe[T any](capacity int) *Pipe[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pipe[T]{ch: make(chan T, capacity)}
}

func (p *Pipe[T]) Send(v T, done <-chan struct{}) bool {
	// a closed done wins over free capacity
	select {
	case <-done:
		return false
	default:
	}
	select {
	case p.ch <- v:
		return true
	case <-done:
		return false
	}
}

func (p *Pipe[T]) Receive() <-chan T { return p.ch }
func (p *Pipe[T]) Len() int          { return len(p.ch) }
func (p *Pipe[T]) Cap() int          { return cap(p.ch) }
