package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/pkg/core"
	"github.com/nemanja-m/gosum/pkg/local"
)

type benchmarkService struct {
	store  bench.ReportStore
	runner *bench.Runner
	limits config.LimitsConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger logging.Logger
}

func NewBenchmarkService(
	store bench.ReportStore,
	limits config.LimitsConfig,
	logger logging.Logger,
) bench.BenchmarkService {
	ctx, cancel := context.WithCancel(context.Background())
	return &benchmarkService{
		store:  store,
		runner: bench.NewRunner(logger),
		limits: limits,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Submit validates req, stores a PENDING report and runs it in the
// background. The returned report is a snapshot taken before execution.
func (s *benchmarkService) Submit(req bench.BenchmarkRequest) (*bench.Report, error) {
	report, files, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveReport(report); err != nil {
		return nil, err
	}

	s.logger.Info("Benchmark submitted", "report_id", report.ID.String(), "name", report.Name)

	snapshot := report.Clone()
	s.wg.Go(func() {
		s.execute(s.ctx, report, req.Input, files)
	})
	return snapshot, nil
}

// Run executes req synchronously and returns the finished report. Failures
// during execution are recorded on the report as well as returned. The run is
// cancelled when either ctx is done or the service is closed.
func (s *benchmarkService) Run(ctx context.Context, req bench.BenchmarkRequest) (*bench.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.ctx.Err() != nil {
		cancel()
	}
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	report, files, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveReport(report); err != nil {
		return nil, err
	}

	err = s.execute(ctx, report, req.Input, files)
	return report, err
}

func (s *benchmarkService) Get(id uuid.UUID) (*bench.Report, error) {
	report, err := s.store.GetReportByID(id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", bench.ErrReportNotFound, id)
	}
	return report, nil
}

func (s *benchmarkService) List(filter bench.ReportFilter) ([]*bench.Report, int, error) {
	return s.store.GetReports(filter)
}

// Close cancels benchmarks that have not finished and waits for them.
func (s *benchmarkService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *benchmarkService) prepare(req bench.BenchmarkRequest) (*bench.Report, []string, error) {
	if err := s.validate(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
	}

	var files []string
	source := fmt.Sprintf("random(length=%d, range=[%d, %d], seed=%d)",
		req.Input.Length, req.Input.MinValue, req.Input.MaxValue, req.Input.Seed)

	if req.Input.Type == bench.InputTypeLocal {
		var err error
		files, err = local.FindFiles(req.Input.Paths...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
		}
		if len(files) == 0 {
			return nil, nil, fmt.Errorf("%w: no input files matched %v", core.ErrInvalidArgument, req.Input.Paths)
		}
		source = "local(" + strings.Join(req.Input.Paths, ", ") + ")"
	}

	report := &bench.Report{
		ID:          uuid.New(),
		Name:        req.Name,
		Status:      bench.ReportStatusPending,
		Input:       source,
		Sweep:       req.Sweep,
		SubmittedAt: time.Now().UTC(),
	}
	return report, files, nil
}

func (s *benchmarkService) validate(req bench.BenchmarkRequest) error {
	if req.Name == "" {
		return errors.New("benchmark name is required")
	}

	if req.Sweep.MinWorkers < 1 {
		return fmt.Errorf("minWorkers must be >= 1, got %d", req.Sweep.MinWorkers)
	}
	if req.Sweep.MaxWorkers < req.Sweep.MinWorkers {
		return fmt.Errorf("maxWorkers (%d) must be >= minWorkers (%d)", req.Sweep.MaxWorkers, req.Sweep.MinWorkers)
	}
	if s.limits.MaxWorkers > 0 && req.Sweep.MaxWorkers > s.limits.MaxWorkers {
		return fmt.Errorf("maxWorkers exceeds limit of %d", s.limits.MaxWorkers)
	}

	switch req.Input.Type {
	case bench.InputTypeRandom:
		if req.Input.Length < 0 {
			return fmt.Errorf("length must be >= 0, got %d", req.Input.Length)
		}
		if s.limits.MaxLength > 0 && req.Input.Length > s.limits.MaxLength {
			return fmt.Errorf("length exceeds limit of %d", s.limits.MaxLength)
		}
		if req.Input.MinValue > req.Input.MaxValue {
			return fmt.Errorf("minValue (%d) must be <= maxValue (%d)", req.Input.MinValue, req.Input.MaxValue)
		}
	case bench.InputTypeLocal:
		if len(req.Input.Paths) == 0 {
			return errors.New("at least one input path is required")
		}
	default:
		return fmt.Errorf("unsupported input type: %q", req.Input.Type)
	}

	return nil
}

func (s *benchmarkService) execute(ctx context.Context, report *bench.Report, input bench.InputSpec, files []string) error {
	seq, err := s.buildSequence(input, files)
	if err != nil {
		return s.fail(report, err)
	}
	if s.limits.MaxLength > 0 && len(seq) > s.limits.MaxLength {
		return s.fail(report, fmt.Errorf("%w: input has %d values, limit is %d",
			core.ErrInvalidArgument, len(seq), s.limits.MaxLength))
	}

	report.Status = bench.ReportStatusRunning
	if err := s.store.UpdateReport(report); err != nil {
		return err
	}

	runErr := s.runner.Execute(ctx, report, seq)
	if err := s.store.UpdateReport(report); err != nil {
		s.logger.Error("Failed to update report", "report_id", report.ID.String(), "error", err)
		return err
	}
	return runErr
}

func (s *benchmarkService) buildSequence(input bench.InputSpec, files []string) (core.Sequence, error) {
	if input.Type == bench.InputTypeLocal {
		return local.ReadSequence(files...)
	}
	return local.RandomSequence(input.Length, input.MinValue, input.MaxValue, input.Seed)
}

func (s *benchmarkService) fail(report *bench.Report, err error) error {
	now := time.Now().UTC()
	report.Status = bench.ReportStatusFailed
	report.Error = err.Error()
	report.CompletedAt = &now

	s.logger.Error("Benchmark failed", "report_id", report.ID.String(), "error", err)
	if updateErr := s.store.UpdateReport(report); updateErr != nil {
		s.logger.Error("Failed to update report", "report_id", report.ID.String(), "error", updateErr)
	}
	return err
}
