package workflow

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Option configures a workflow.
type Option func(*options)

type options struct {
	poolSize int
	logger   *slog.Logger
}

// WithPoolSize sets the worker pool size for concurrent generation and
// embedding. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *options) {
		if size < 1 {
			size = 1
		}
		o.poolSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

func applyOptions(opts []Option) *options {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	o := &options{
		poolSize: poolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// forEachConcurrent runs fn for every index in [0, count) on the pool and
// waits for all of them to finish. A submit failure runs the task inline
// so no index is skipped.
func forEachConcurrent(pool *ants.Pool, count int, fn func(i int)) {
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}
