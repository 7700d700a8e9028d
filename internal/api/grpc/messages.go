package grpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/pkg/local"
)

// Messages travel as google.protobuf.Struct. Field names below are the
// JSON keys of those structs; numbers are carried as doubles.

type runBenchmarkRequest struct {
	Name  string `json:"name"`
	Input struct {
		Type     string   `json:"type"`
		Length   int      `json:"length"`
		MinValue *int32   `json:"min_value"`
		MaxValue *int32   `json:"max_value"`
		Seed     seed     `json:"seed"`
		Paths    []string `json:"paths"`
	} `json:"input"`
	Sweep struct {
		MinWorkers *int `json:"min_workers"`
		MaxWorkers *int `json:"max_workers"`
	} `json:"sweep"`
}

func (r *runBenchmarkRequest) toBenchmarkRequest() bench.BenchmarkRequest {
	inputType := bench.InputType(r.Input.Type)
	if inputType == "" {
		inputType = bench.InputTypeRandom
	}
	return bench.BenchmarkRequest{
		Name: r.Name,
		Input: bench.InputSpec{
			Type:     inputType,
			Length:   r.Input.Length,
			MinValue: deref(r.Input.MinValue, 1),
			MaxValue: deref(r.Input.MaxValue, 10),
			Seed:     uint64(r.Input.Seed),
			Paths:    r.Input.Paths,
		},
		Sweep: bench.Sweep{
			MinWorkers: deref(r.Sweep.MinWorkers, 2),
			MaxWorkers: deref(r.Sweep.MaxWorkers, 20),
		},
	}
}

type getReportRequest struct {
	ID string `json:"id"`
}

type parallelSumRequest struct {
	Values  []int32 `json:"values"`
	Workers int     `json:"workers"`
}

type resultMessage struct {
	Mode      string `json:"mode"`
	Workers   int    `json:"workers"`
	Sum       int64  `json:"sum"`
	ElapsedNs int64  `json:"elapsed_ns"`
	Correct   bool   `json:"correct"`
	Error     string `json:"error,omitempty"`
}

type reportMessage struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	Input       string          `json:"input"`
	Length      int             `json:"length"`
	Expected    int64           `json:"expected"`
	Results     []resultMessage `json:"results"`
	SubmittedAt time.Time       `json:"submitted_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func newReportMessage(report *bench.Report) reportMessage {
	results := make([]resultMessage, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, resultMessage{
			Mode:      string(res.Mode),
			Workers:   res.Workers,
			Sum:       res.Sum,
			ElapsedNs: res.Elapsed.Nanoseconds(),
			Correct:   res.Correct,
			Error:     res.Error,
		})
	}
	return reportMessage{
		ID:          report.ID.String(),
		Name:        report.Name,
		Status:      string(report.Status),
		Input:       report.Input,
		Length:      report.Length,
		Expected:    report.Expected,
		Results:     results,
		SubmittedAt: report.SubmittedAt,
		CompletedAt: report.CompletedAt,
		Error:       report.Error,
	}
}

type partitionMessage struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Sum   int64 `json:"sum"`
}

type parallelSumResponse struct {
	Sum        int64              `json:"sum"`
	State      string             `json:"state"`
	Partitions []partitionMessage `json:"partitions"`
}

func newParallelSumResponse(r *local.Reduction) parallelSumResponse {
	partitions := make([]partitionMessage, 0, len(r.Partitions))
	for i, p := range r.Partitions {
		partitions = append(partitions, partitionMessage{Start: p.Start, End: p.End, Sum: r.Partials[i]})
	}
	return parallelSumResponse{
		Sum:        r.Sum,
		State:      string(r.State),
		Partitions: partitions,
	}
}

// seed accepts a JSON number or a decimal string. Struct numbers are doubles,
// so seeds above 2^53 only survive the trip as strings.
type seed uint64

const maxExactSeed = 1 << 53

func (s *seed) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return fmt.Errorf("seed %q: %w", text, err)
		}
		*s = seed(v)
		return nil
	}

	var v uint64
	if err := json.Unmarshal(data, &v); err != nil || v > maxExactSeed {
		return fmt.Errorf("seed %s is not an exact integer, send seeds above 2^53 as decimal strings", data)
	}
	*s = seed(v)
	return nil
}

func fromStruct(in *structpb.Struct, out any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func toStruct(in any) (*structpb.Struct, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func deref[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}
