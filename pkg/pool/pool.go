package pool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrSearchExhausted is returned by Search when no candidate succeeded within the attempt limit.
var ErrSearchExhausted = errors.New("pool: search exhausted")

// errFound stops the remaining workers once a candidate succeeded.
var errFound = errors.New("found")

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	// This holds the number of workers we run per operation
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workerCount: count}
}

// Workers returns the number of goroutines used by each operation, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// searchAlone runs f until it succeeds, at most limit times.
func searchAlone[T any](ctx context.Context, limit int, f func() (T, bool)) (T, error) {
	var zero T
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if v, ok := f(); ok {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w after %d attempts", ErrSearchExhausted, limit)
}

// Search queries the function f until it reports a success, and returns that result.
//
// f is supposed to try a single candidate. The workers share a budget of limit
// attempts; the first success cancels the others.
func Search[T any](ctx context.Context, p *Pool, limit int, f func() (T, bool)) (T, error) {
	if p.Workers() == 1 {
		return searchAlone(ctx, limit, f)
	}

	var (
		zero     T
		result   T
		once     sync.Once
		attempts int64
	)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.Workers(); w++ {
		g.Go(func() error {
			for atomic.AddInt64(&attempts, 1) <= int64(limit) {
				if gctx.Err() != nil {
					return nil
				}
				if v, ok := f(); ok {
					once.Do(func() { result = v })
					return errFound
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, errFound) {
		return result, nil
	}
	if err = ctx.Err(); err != nil {
		return zero, err
	}
	return zero, fmt.Errorf("%w after %d attempts", ErrSearchExhausted, limit)
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	results := make([]T, count)
	if p.Workers() == 1 {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.Workers())
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			results[i] = f(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
