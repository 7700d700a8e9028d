package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/nemanja-m/gosum/pkg/core"
)

// sumFunc sums seq[start:end]; core.SequentialSum is the only production
// implementation.
type sumFunc func(seq core.Sequence, start, end int) int64

// Reduction describes one parallel summation run.
type Reduction struct {
	Workers    int
	Partitions []core.Partition
	Partials   []int64
	Sum        int64
	State      core.ReductionState
}

type taskResult struct {
	index int
	sum   int64
	err   error
}

func ParallelSum(seq core.Sequence, workers int) (int64, error) {
	return ParallelSumContext(context.Background(), seq, workers)
}

func ParallelSumContext(ctx context.Context, seq core.Sequence, workers int) (int64, error) {
	r, err := Reduce(ctx, seq, workers)
	if err != nil {
		return 0, err
	}
	return r.Sum, nil
}

// Reduce sums seq with one task per partition and workers goroutines.
//
// A task that has started always runs its partition to completion. Tasks
// that observe a cancelled ctx before starting fail, and any failed task
// fails the whole reduction with core.ErrTaskInterrupted. In that case the
// returned Reduction is FAILED and carries no partials or sum.
func Reduce(ctx context.Context, seq core.Sequence, workers int) (*Reduction, error) {
	return reduce(ctx, seq, workers, core.SequentialSum)
}

func reduce(ctx context.Context, seq core.Sequence, workers int, sum sumFunc) (*Reduction, error) {
	partitions, err := core.Partitions(len(seq), workers)
	if err != nil {
		return nil, err
	}

	r := &Reduction{Workers: workers, State: core.ReductionCreated}
	r.Partitions = partitions
	r.advance(core.ReductionPartitioned)

	// Buffered to len(partitions) so no task ever blocks on send. Every task
	// sends exactly once: its own result, or the panic report below.
	results := make(chan taskResult, len(partitions))

	pool := NewPool(workers).OnPanic(func(rec any) {
		results <- taskResult{index: -1, err: fmt.Errorf("task panicked: %v", rec)}
	})
	pool.Start()
	r.advance(core.ReductionTasksRunning)

	for i, p := range partitions {
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				results <- taskResult{index: i, err: err}
				return
			}
			results <- taskResult{index: i, sum: sum(seq, p.Start, p.End)}
		})
	}

	pool.Close()
	close(results)

	partials := make([]int64, len(partitions))
	var failures []error
	for res := range results {
		if res.err != nil {
			if res.index >= 0 {
				res.err = fmt.Errorf("partition %d: %w", res.index, res.err)
			}
			failures = append(failures, res.err)
			continue
		}
		partials[res.index] = res.sum
	}

	if len(failures) > 0 {
		r.advance(core.ReductionFailed)
		return r, fmt.Errorf("%w: %w", core.ErrTaskInterrupted, errors.Join(failures...))
	}
	r.advance(core.ReductionAllJoined)

	r.Partials = partials
	for _, partial := range partials {
		r.Sum += partial
	}
	r.advance(core.ReductionCombined)

	return r, nil
}

func (r *Reduction) advance(to core.ReductionState) {
	next, err := core.Transition(r.State, to)
	if err != nil {
		panic(err)
	}
	r.State = next
}
