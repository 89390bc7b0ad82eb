package aggregate

import "go.uber.org/zap"

// DefaultOutputBatchSize is the row count the finalize phase slices its
// emitted chunks into.
const DefaultOutputBatchSize = 32 * 1024

// ExecContext bundles the resources an AggregateNode needs from its
// surrounding runtime: a thread pool sized to the configured parallelism,
// the output batch size finalize emits in, and a logger. One ExecContext
// is shared by every node in a query.
type ExecContext struct {
	Pool            *WorkerPool
	OutputBatchSize int
	Log             *zap.Logger
}

func NewExecContext(numThreads int, log *zap.Logger) *ExecContext {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecContext{
		Pool:            NewWorkerPool(numThreads),
		OutputBatchSize: DefaultOutputBatchSize,
		Log:             log,
	}
}
