package async_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-app/lumora/internal/async"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool, err := async.NewPool(4, time.Second)
	require.NoError(t, err)
	defer func() { _ = pool.Release() }()

	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			done.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(20), done.Load())
}

func TestPoolSurvivesTaskPanic(t *testing.T) {
	pool, err := async.NewPool(1, time.Second)
	require.NoError(t, err)
	defer func() { _ = pool.Release() }()

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(func() {
		defer wg.Done()
		panic("task blew up")
	}))
	wg.Wait()

	// the pool still accepts and runs work afterwards
	ran := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("pool did not run task after a panic")
	}
}

func TestSyncRunsInline(t *testing.T) {
	ran := false
	require.NoError(t, async.Sync{}.Submit(func() { ran = true }))
	assert.True(t, ran)
}

func TestSyncSwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = async.Sync{}.Submit(func() { panic("boom") })
	})
}
