package bench

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "PENDING"
	ReportStatusRunning   ReportStatus = "RUNNING"
	ReportStatusCompleted ReportStatus = "COMPLETED"
	ReportStatusFailed    ReportStatus = "FAILED"
)

type Mode string

const (
	ModeSingle   Mode = "SINGLE"
	ModeMultiple Mode = "MULTIPLE"
)

// Sweep is the set of worker counts run against the single worker baseline.
type Sweep struct {
	MinWorkers int
	MaxWorkers int
}

func (s Sweep) WorkerCounts() []int {
	if s.MaxWorkers < s.MinWorkers {
		return nil
	}
	counts := make([]int, 0, s.MaxWorkers-s.MinWorkers+1)
	for n := s.MinWorkers; n <= s.MaxWorkers; n++ {
		counts = append(counts, n)
	}
	return counts
}

// Result is one timed summation.
type Result struct {
	Mode    Mode
	Workers int
	Sum     int64
	Elapsed time.Duration
	Correct bool
	Error   string
}

type Report struct {
	ID       uuid.UUID
	Name     string
	Status   ReportStatus
	Input    string
	Length   int
	Sweep    Sweep
	Expected int64
	Results  []Result

	SubmittedAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	Error string
}

func (r *Report) Duration() time.Duration {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(*r.StartedAt)
}

// Fastest returns the quickest correct multiple worker result, if any.
func (r *Report) Fastest() (Result, bool) {
	var best Result
	found := false
	for _, res := range r.Results {
		if res.Mode != ModeMultiple || !res.Correct {
			continue
		}
		if !found || res.Elapsed < best.Elapsed {
			best = res
			found = true
		}
	}
	return best, found
}

type ReportFilter struct {
	Status *ReportStatus
	Limit  int
	Offset int
}

type ReportStore interface {
	SaveReport(report *Report) error
	UpdateReport(report *Report) error
	GetReportByID(id uuid.UUID) (*Report, error)
	GetReports(filter ReportFilter) ([]*Report, int, error)
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	c := *r
	c.Results = append([]Result(nil), r.Results...)
	if r.StartedAt != nil {
		t := *r.StartedAt
		c.StartedAt = &t
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
