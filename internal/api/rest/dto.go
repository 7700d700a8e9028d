package rest

import (
	"time"
)

type SubmitBenchmarkRequest struct {
	Name  string      `json:"name"`
	Input InputConfig `json:"input"`
	Sweep SweepConfig `json:"sweep"`
}

type InputConfig struct {
	Type     string   `json:"type"` // "random" or "local"
	Length   int      `json:"length,omitempty"`
	MinValue *int32   `json:"minValue,omitempty"`
	MaxValue *int32   `json:"maxValue,omitempty"`
	Seed     *uint64  `json:"seed,omitempty"`
	Paths    []string `json:"paths,omitempty"` // Glob patterns, ** supported
}

type SweepConfig struct {
	MinWorkers *int `json:"minWorkers,omitempty"`
	MaxWorkers *int `json:"maxWorkers,omitempty"`
}

type SubmitBenchmarkResponse struct {
	ReportID    string    `json:"report_id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Links       Links     `json:"links"`
}

type Links struct {
	Self string `json:"self"`
}

type GetBenchmarkResponse struct {
	ReportID   string         `json:"report_id"`
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	Input      string         `json:"input"`
	Length     int            `json:"length"`
	Sweep      SweepInfo      `json:"sweep"`
	Expected   int64          `json:"expected"`
	Results    []ResultInfo   `json:"results"`
	Fastest    *ResultInfo    `json:"fastest,omitempty"`
	Timestamps TimestampsInfo `json:"timestamps"`
	Error      string         `json:"error,omitempty"`
}

type SweepInfo struct {
	MinWorkers int `json:"min_workers"`
	MaxWorkers int `json:"max_workers"`
}

type ResultInfo struct {
	Mode      string `json:"mode"` // "SINGLE" or "MULTIPLE"
	Workers   int    `json:"workers"`
	Sum       int64  `json:"sum"`
	ElapsedNs int64  `json:"elapsed_ns"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Correct   bool   `json:"correct"`
	Error     string `json:"error,omitempty"`
}

type TimestampsInfo struct {
	Submitted time.Time  `json:"submitted"`
	Started   *time.Time `json:"started"`
	Completed *time.Time `json:"completed"`
}

type ListBenchmarksResponse struct {
	Benchmarks []BenchmarkSummary `json:"benchmarks"`
	Total      int                `json:"total"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	NextOffset *int               `json:"next_offset,omitempty"`
}

type BenchmarkSummary struct {
	ReportID    string     `json:"report_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Length      int        `json:"length"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type SumRequest struct {
	Values  []int32 `json:"values"`
	Workers int     `json:"workers"`
}

type SumResponse struct {
	Sum        int64           `json:"sum"`
	Sequential int64           `json:"sequential"`
	Partitions []PartitionInfo `json:"partitions"`
}

type PartitionInfo struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Sum   int64 `json:"sum"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
