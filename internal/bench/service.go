package bench

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("report not found")

type InputType string

const (
	InputTypeRandom InputType = "random"
	InputTypeLocal  InputType = "local"
)

// InputSpec describes the sequence to sum: Length random values in
// [MinValue, MaxValue] drawn from Seed, or the integers stored in the local
// files matched by Paths.
type InputSpec struct {
	Type     InputType
	Length   int
	MinValue int32
	MaxValue int32
	Seed     uint64
	Paths    []string
}

type BenchmarkRequest struct {
	Name  string
	Input InputSpec
	Sweep Sweep
}

// BenchmarkService defines the interface for running and querying benchmarks
type BenchmarkService interface {
	Submit(req BenchmarkRequest) (*Report, error)
	Run(ctx context.Context, req BenchmarkRequest) (*Report, error)
	Get(id uuid.UUID) (*Report, error)
	List(filter ReportFilter) ([]*Report, int, error)
	Close()
}
