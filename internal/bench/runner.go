package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/pkg/core"
	"github.com/nemanja-m/gosum/pkg/local"
)

type Runner struct {
	logger logging.Logger
	now    func() time.Time
}

func NewRunner(logger logging.Logger) *Runner {
	return &Runner{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Execute runs the multiple worker sweep and then the single worker baseline
// over seq, filling in report. Every multiple worker result is checked
// against the baseline sum.
//
// A failed parallel run is recorded on its result and the sweep continues,
// unless the failure was caused by ctx being cancelled, in which case the
// report is marked FAILED and the error is returned.
func (r *Runner) Execute(ctx context.Context, report *Report, seq core.Sequence) error {
	started := r.now()
	report.Status = ReportStatusRunning
	report.StartedAt = &started
	report.Length = len(seq)
	report.Results = make([]Result, 0, len(report.Sweep.WorkerCounts())+1)

	r.logger.Info("Starting benchmark",
		"report_id", report.ID.String(),
		"length", len(seq),
		"min_workers", report.Sweep.MinWorkers,
		"max_workers", report.Sweep.MaxWorkers,
	)

	for _, workers := range report.Sweep.WorkerCounts() {
		res, err := r.runParallel(ctx, seq, workers)
		if err != nil && ctx.Err() != nil {
			return r.fail(report, fmt.Errorf("benchmark interrupted at %d workers: %w", workers, err))
		}
		report.Results = append(report.Results, res)
	}

	baseline := r.runSequential(seq)
	report.Results = append(report.Results, baseline)
	report.Expected = baseline.Sum

	for i := range report.Results {
		res := &report.Results[i]
		res.Correct = res.Error == "" && res.Sum == report.Expected
		if !res.Correct {
			r.logger.Warn("Incorrect benchmark result",
				"report_id", report.ID.String(),
				"workers", res.Workers,
				"sum", res.Sum,
				"expected", report.Expected,
				"error", res.Error,
			)
		}
	}

	completed := r.now()
	report.CompletedAt = &completed
	report.Status = ReportStatusCompleted

	r.logger.Info("Benchmark completed",
		"report_id", report.ID.String(),
		"sum", report.Expected,
		"duration_ms", report.Duration().Milliseconds(),
	)
	return nil
}

func (r *Runner) runParallel(ctx context.Context, seq core.Sequence, workers int) (Result, error) {
	start := time.Now()
	sum, err := local.ParallelSumContext(ctx, seq, workers)
	elapsed := time.Since(start)

	res := Result{
		Mode:    ModeMultiple,
		Workers: workers,
		Sum:     sum,
		Elapsed: elapsed,
	}
	if err != nil {
		res.Error = err.Error()
		r.logger.Error("Parallel sum failed", "workers", workers, "error", err)
		return res, err
	}

	r.logger.Debug("Parallel sum finished", "workers", workers, "sum", sum, "elapsed_ns", elapsed.Nanoseconds())
	return res, nil
}

func (r *Runner) runSequential(seq core.Sequence) Result {
	start := time.Now()
	sum := core.SequentialSum(seq, 0, len(seq))
	elapsed := time.Since(start)

	r.logger.Debug("Sequential sum finished", "sum", sum, "elapsed_ns", elapsed.Nanoseconds())
	return Result{
		Mode:    ModeSingle,
		Workers: 1,
		Sum:     sum,
		Elapsed: elapsed,
	}
}

func (r *Runner) fail(report *Report, err error) error {
	completed := r.now()
	report.CompletedAt = &completed
	report.Status = ReportStatusFailed
	report.Error = err.Error()

	level := r.logger.Error
	if errors.Is(err, context.Canceled) {
		level = r.logger.Warn
	}
	level("Benchmark failed", "report_id", report.ID.String(), "error", err)
	return err
}
