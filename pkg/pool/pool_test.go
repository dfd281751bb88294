package pool

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkers(t *testing.T) {
	var nilPool *Pool
	assert.Equal(t, 1, nilPool.Workers())
	assert.Equal(t, 3, NewPool(3).Workers())
	assert.Equal(t, runtime.NumCPU(), NewPool(0).Workers())
}

func TestSearch(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(1), NewPool(4)} {
		var ctr int64
		v, err := Search(context.Background(), pl, 1000, func() (int64, bool) {
			n := atomic.AddInt64(&ctr, 1)
			return n, n%17 == 0
		})
		require.NoError(t, err)
		assert.Zero(t, v%17)
	}
}

func TestSearchExhausted(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(4)} {
		var ctr int64
		_, err := Search(context.Background(), pl, 100, func() (int, bool) {
			atomic.AddInt64(&ctr, 1)
			return 0, false
		})
		assert.True(t, errors.Is(err, ErrSearchExhausted))
		assert.LessOrEqual(t, atomic.LoadInt64(&ctr), int64(100))
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, NewPool(2), 100, func() (int, bool) { return 0, false })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallelize(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(3)} {
		out := Parallelize(pl, 20, func(i int) int { return i * i })
		for i, v := range out {
			assert.Equal(t, i*i, v)
		}
	}
}
