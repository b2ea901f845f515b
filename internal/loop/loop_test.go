package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUntilIdle_FIFO(t *testing.T) {
	l := New()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}

	n := l.RunUntilIdle()
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, l.Pending())
}

func TestRunUntilIdle_RunsNestedPosts(t *testing.T) {
	l := New()
	var got []string
	l.Post(func() {
		got = append(got, "outer")
		l.Post(func() { got = append(got, "inner") })
	})

	assert.Equal(t, 2, l.RunUntilIdle())
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestPost_NilIgnored(t *testing.T) {
	l := New()
	l.Post(nil)
	assert.Equal(t, 0, l.Pending())
}

func TestPost_AfterQuitDropped(t *testing.T) {
	l := New()
	l.Quit()
	l.Post(func() { t.Error("task should not run after Quit") })
	assert.Equal(t, 0, l.Pending())
	assert.Equal(t, 0, l.RunUntilIdle())
}

func TestRun_QuitFromTask(t *testing.T) {
	l := New()
	ran := false
	l.Post(func() {
		ran = true
		l.Quit()
	})
	l.Post(func() { t.Error("task after Quit should not run") })

	err := l.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRun_ContextCancelled(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_ProcessesTasksFromOtherGoroutines(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() {
				mu.Lock()
				count++
				done := count == workers
				mu.Unlock()
				if done {
					l.Quit()
				}
			})
		}()
	}

	err := l.Run(ctx)
	wg.Wait()
	require.NoError(t, err)
	assert.Equal(t, workers, count)
}

func TestRunTask_RecoversPanic(t *testing.T) {
	l := New()
	after := false
	l.Post(func() { panic("boom") })
	l.Post(func() { after = true })

	assert.NotPanics(t, func() { l.RunUntilIdle() })
	assert.True(t, after)
}

func TestQuit_Idempotent(t *testing.T) {
	l := New()
	assert.NotPanics(t, func() {
		l.Quit()
		l.Quit()
	})
}

func TestLoopImplementsDispatcher(t *testing.T) {
	var _ Dispatcher = (*Loop)(nil)
}
