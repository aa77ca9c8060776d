package uistate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[string](4)
	q.Push("a")
	q.Push("b")

	v, ok := q.TryNext()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = q.TryNext()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = q.TryNext()
	assert.False(t, ok)
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue[int](3)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 2, q.Dropped())

	var got []int
	for {
		v, ok := q.TryNext()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 5}, got)
}

func TestQueue_DefaultSize(t *testing.T) {
	q := NewQueue[int](0)
	for i := 0; i < DefaultQueueSize+1; i++ {
		q.Push(i)
	}
	assert.Equal(t, DefaultQueueSize, q.Len())
}

func TestQueue_NextBlocksUntilPush(t *testing.T) {
	q := NewQueue[string](2)

	done := make(chan string, 1)
	go func() {
		v, err := q.Next(context.Background())
		if err == nil {
			done <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push("hello")

	select {
	case v := <-done:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("Next did not return")
	}
}

func TestQueue_NextHonoursContext(t *testing.T) {
	q := NewQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_ConsumedOnce(t *testing.T) {
	q := NewQueue[int](4)
	q.Push(7)

	results := make(chan int, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 2; i++ {
		go func() {
			v, err := q.Next(ctx)
			if err != nil {
				results <- -1
				return
			}
			results <- v
		}()
	}

	a, b := <-results, <-results
	assert.ElementsMatch(t, []int{7, -1}, []int{a, b})
}
