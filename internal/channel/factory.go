//go:build !debug

package channel

// New creates the task channel for a view loop. Senders block once size
// tasks are queued.
func New[T any](size int) Channel[T] {
	return NewPipe[T](size)
}
