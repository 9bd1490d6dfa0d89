package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipe_SendReceive(t *testing.T) {
	ch := NewPipe[string](2)
	done := make(chan struct{})

	assert.True(t, ch.Send("markers#update", done))
	assert.True(t, ch.Send("camera#move", done))
	assert.Equal(t, 2, ch.Len())

	assert.Equal(t, "markers#update", <-ch.Receive())
	assert.Equal(t, "camera#move", <-ch.Receive())
	assert.Equal(t, 0, ch.Len())
}

func TestPipe_SendAfterDone(t *testing.T) {
	ch := NewPipe[int](1)
	done := make(chan struct{})
	close(done)

	assert.False(t, ch.Send(1, done))
	assert.Equal(t, 0, ch.Len())
}

func TestPipe_FullBufferUnblocksOnDone(t *testing.T) {
	ch := NewPipe[int](1)
	done := make(chan struct{})
	assert.True(t, ch.Send(1, done))

	result := make(chan bool)
	go func() { result <- ch.Send(2, done) }()
	close(done)

	assert.False(t, <-result)
}

func TestPipe_ZeroCapacityHandsOff(t *testing.T) {
	ch := NewPipe[int](-3)
	assert.Equal(t, 0, ch.Cap())
	done := make(chan struct{})

	go func() { ch.Send(7, done) }()

	assert.Equal(t, 7, <-ch.Receive())
	assert.Equal(t, 0, ch.Len())
}

func TestNew_Capacity(t *testing.T) {
	ch := New[int](4)
	p, ok := ch.(*Pipe[int])
	if assert.True(t, ok) && p.Cap() != 0 {
		assert.Equal(t, 4, p.Cap())
	}
}
