package node

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// GraphBuilderOption is a functional option applied to a graph during construction via NewGraph.
type GraphBuilderOption func(*graphImpl)

// WithWorkers sets the maximum number of pool workers used by Snapshot on large graphs.
// Defaults to NumCPU-1 (minimum 1).
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - GraphBuilderOption: a function that applies the worker count
func WithWorkers(workers int) GraphBuilderOption {
	return func(g *graphImpl) {
		g.workers = max(workers, 1)
	}
}

// WithParallelThreshold sets how many root children a graph needs before Snapshot goes parallel.
//
// Parameters:
//   - threshold: the minimum root child count, values below 1 make every snapshot parallel
//
// Returns:
//   - GraphBuilderOption: a function that applies the threshold
func WithParallelThreshold(threshold int) GraphBuilderOption {
	return func(g *graphImpl) {
		g.parallelThreshold = threshold
	}
}

// WithWorkerPool shares an existing pool instead of creating one lazily.
// The graph stops the pool on Close.
//
// Parameters:
//   - pool: the worker pool
//
// Returns:
//   - GraphBuilderOption: a function that applies the pool
func WithWorkerPool(pool worker.DynamicWorkerPool) GraphBuilderOption {
	return func(g *graphImpl) {
		g.pool = pool
	}
}
