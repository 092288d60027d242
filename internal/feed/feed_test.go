package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for value")
	}
	var zero T
	return zero
}

func TestFeedDeliversInOrder(t *testing.T) {
	f := New[int]()
	first := make(chan int)
	second := make(chan int)
	subFirst := f.Subscribe(first)
	subSecond := f.Subscribe(second)
	defer subFirst.Unsubscribe()
	defer subSecond.Unsubscribe()

	for i := 1; i <= 3; i++ {
		assert.Zero(t, f.Publish(i))
	}
	for i := 1; i <= 3; i++ {
		assert.Equal(t, i, receive(t, first))
		assert.Equal(t, i, receive(t, second))
	}
}

func TestFeedDropsForSlowSubscriber(t *testing.T) {
	f := New[int]()
	ch := make(chan int) // never read
	sub := f.Subscribe(ch)
	defer sub.Unsubscribe()

	dropped := 0
	for i := 0; i < BufferSize+2; i++ {
		dropped += f.Publish(i)
	}
	// the forwarding goroutine holds at most one value outside the buffer
	assert.GreaterOrEqual(t, dropped, 1)
	assert.LessOrEqual(t, dropped, 2)
}

func TestUnsubscribe(t *testing.T) {
	f := New[string]()
	sub := f.Subscribe(make(chan string))
	require.Equal(t, 1, f.Len())

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.True(t, sub.IsClosed())
	assert.Equal(t, 0, f.Len())
	assert.Zero(t, f.Publish("ignored"))
}

func TestClose(t *testing.T) {
	f := New[string]()
	subs := []*Subscription[string]{
		f.Subscribe(make(chan string)),
		f.Subscribe(make(chan string)),
	}
	f.Close()
	for _, sub := range subs {
		<-sub.Done()
	}
	assert.Equal(t, 0, f.Len())
}
