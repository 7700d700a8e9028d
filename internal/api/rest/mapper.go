package rest

import (
	"math/rand/v2"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/pkg/local"
)

const (
	DefaultMinValue   = 1
	DefaultMaxValue   = 10
	DefaultMinWorkers = 2
	DefaultMaxWorkers = 20
)

func (req *SubmitBenchmarkRequest) ToBenchmarkRequest() bench.BenchmarkRequest {
	inputType := bench.InputType(req.Input.Type)
	if inputType == "" {
		inputType = bench.InputTypeRandom
	}

	return bench.BenchmarkRequest{
		Name: req.Name,
		Input: bench.InputSpec{
			Type:     inputType,
			Length:   req.Input.Length,
			MinValue: valueOr(req.Input.MinValue, DefaultMinValue),
			MaxValue: valueOr(req.Input.MaxValue, DefaultMaxValue),
			Seed: func() uint64 {
				if req.Input.Seed != nil {
					return *req.Input.Seed
				}
				return rand.Uint64()
			}(),
			Paths: req.Input.Paths,
		},
		Sweep: bench.Sweep{
			MinWorkers: valueOr(req.Sweep.MinWorkers, DefaultMinWorkers),
			MaxWorkers: valueOr(req.Sweep.MaxWorkers, DefaultMaxWorkers),
		},
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}

func ToResultInfo(res bench.Result) ResultInfo {
	return ResultInfo{
		Mode:      string(res.Mode),
		Workers:   res.Workers,
		Sum:       res.Sum,
		ElapsedNs: res.Elapsed.Nanoseconds(),
		ElapsedMs: res.Elapsed.Milliseconds(),
		Correct:   res.Correct,
		Error:     res.Error,
	}
}

func ToGetBenchmarkResponse(report *bench.Report) GetBenchmarkResponse {
	results := make([]ResultInfo, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, ToResultInfo(res))
	}

	var fastest *ResultInfo
	if best, ok := report.Fastest(); ok {
		info := ToResultInfo(best)
		fastest = &info
	}

	return GetBenchmarkResponse{
		ReportID: report.ID.String(),
		Name:     report.Name,
		Status:   string(report.Status),
		Input:    report.Input,
		Length:   report.Length,
		Sweep: SweepInfo{
			MinWorkers: report.Sweep.MinWorkers,
			MaxWorkers: report.Sweep.MaxWorkers,
		},
		Expected: report.Expected,
		Results:  results,
		Fastest:  fastest,
		Timestamps: TimestampsInfo{
			Submitted: report.SubmittedAt,
			Started:   report.StartedAt,
			Completed: report.CompletedAt,
		},
		Error: report.Error,
	}
}

func ToBenchmarkSummary(report *bench.Report) BenchmarkSummary {
	return BenchmarkSummary{
		ReportID:    report.ID.String(),
		Name:        report.Name,
		Status:      string(report.Status),
		Length:      report.Length,
		SubmittedAt: report.SubmittedAt,
		CompletedAt: report.CompletedAt,
	}
}

func ToSumResponse(r *local.Reduction, sequential int64) SumResponse {
	partitions := make([]PartitionInfo, 0, len(r.Partitions))
	for i, p := range r.Partitions {
		partitions = append(partitions, PartitionInfo{
			Start: p.Start,
			End:   p.End,
			Sum:   r.Partials[i],
		})
	}
	return SumResponse{
		Sum:        r.Sum,
		Sequential: sequential,
		Partitions: partitions,
	}
}
