package parallel

import (
	"fmt"
	"math"
	"sync"
)

// WorkerPool runs tasks on a fixed number of goroutines. The branch-and-bound
// solver uses it to solve the LP relaxations of sibling nodes side by side.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	onPanic   func(any)
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// ErrPoolClosed is returned by RunBatch after Close.
var ErrPoolClosed = fmt.Errorf("worker pool is closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PanicError carries a value recovered from a panicking batch task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithPanicHandler receives values recovered from tasks passed to Submit.
func WithPanicHandler(fn func(any)) Option {
	return func(wp *WorkerPool) {
		wp.onPanic = fn
	}
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// A non-positive count means one worker.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		onPanic:   func(any) {},
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.onPanic(r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// RunBatch runs every task and blocks until all of them returned. errs[i] is
// the error of tasks[i]; a panicking task yields a *PanicError.
func (wp *WorkerPool) RunBatch(tasks []func() error) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}

	var batch sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		batch.Add(1)
		submitted := wp.Submit(func() {
			defer batch.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = &PanicError{Value: r}
				}
			}()
			errs[i] = task()
		})
		if !submitted {
			batch.Done()
			errs[i] = ErrPoolClosed
		}
	}
	batch.Wait()
	return errs
}

// Close shuts down the worker pool and waits for queued tasks
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
