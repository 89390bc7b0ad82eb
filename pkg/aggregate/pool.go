package aggregate

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// WorkerPool runs a fixed number of concurrent tasks. cmd/bench runs its
// producer threads through Run; AggregateNode reads only Size(), to bound
// its finalize fan-out. A panicking task is recovered and reported as an
// error instead of crashing the process.
type WorkerPool struct {
	size int
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{size: size}
}

func (wp *WorkerPool) Size() int { return wp.size }

// Run executes tasks across wp.size goroutines and waits for all of them.
// It returns nil if every task succeeded, otherwise the tasks' errors as
// combined by conc's ErrorPool; a task that panics contributes an error
// carrying the panic value.
func (wp *WorkerPool) Run(tasks []func() error) error {
	p := pool.New().WithMaxGoroutines(wp.size).WithErrors()
	for _, task := range tasks {
		t := task
		p.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker task panicked: %v", r)
				}
			}()
			return t()
		})
	}
	return p.Wait()
}
