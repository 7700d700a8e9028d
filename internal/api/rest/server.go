package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/pkg/core"
	"github.com/nemanja-m/gosum/pkg/local"
)

const (
	maxSumValues  = 1_000_000
	maxSumWorkers = 1024

	// Room for maxSumValues int32 literals with separators plus the
	// surrounding object.
	maxSumBodyBytes = maxSumValues*12 + 1024
)

type API struct {
	service bench.BenchmarkService
	limits  config.LimitsConfig
	logger  logging.Logger
}

func NewAPI(service bench.BenchmarkService, limits config.LimitsConfig, logger logging.Logger) *API {
	return &API{
		service: service,
		limits:  limits,
		logger:  logger,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/benchmarks", a.submitBenchmark)
	mux.HandleFunc("GET /api/benchmarks", a.listBenchmarks)
	mux.HandleFunc("GET /api/benchmarks/{id}", a.getBenchmark)
	mux.HandleFunc("POST /api/sum", a.sum)
}

// submitBenchmark handles POST /api/benchmarks
func (a *API) submitBenchmark(w http.ResponseWriter, r *http.Request) {
	var req SubmitBenchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := a.service.Submit(req.ToBenchmarkRequest())
	if err != nil {
		if errors.Is(err, core.ErrInvalidArgument) {
			a.respondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		a.logger.Error("Failed to submit benchmark", "error", err)
		a.respondError(w, http.StatusInternalServerError, "failed to submit benchmark", "")
		return
	}

	resp := SubmitBenchmarkResponse{
		ReportID:    report.ID.String(),
		Status:      string(report.Status),
		SubmittedAt: report.SubmittedAt,
		Links: Links{
			Self: fmt.Sprintf("/api/benchmarks/%s", report.ID),
		},
	}
	a.respondJSON(w, http.StatusAccepted, resp)
}

// getBenchmark handles GET /api/benchmarks/{id}
func (a *API) getBenchmark(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid report ID", err.Error())
		return
	}

	report, err := a.service.Get(id)
	if err != nil {
		if errors.Is(err, bench.ErrReportNotFound) {
			a.respondError(w, http.StatusNotFound, "report not found", "")
			return
		}
		a.logger.Error("Failed to get report", "report_id", id.String(), "error", err)
		a.respondError(w, http.StatusInternalServerError, "failed to get report", "")
		return
	}

	a.respondJSON(w, http.StatusOK, ToGetBenchmarkResponse(report))
}

// listBenchmarks handles GET /api/benchmarks with filters and pagination
func (a *API) listBenchmarks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := bench.ReportFilter{Limit: 10}
	if statusStr := query.Get("status"); statusStr != "" {
		status := bench.ReportStatus(strings.ToUpper(statusStr))
		filter.Status = &status
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = min(l, 100)
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	reports, total, err := a.service.List(filter)
	if err != nil {
		a.logger.Error("Failed to list reports", "error", err)
		a.respondError(w, http.StatusInternalServerError, "failed to list reports", "")
		return
	}

	summaries := make([]BenchmarkSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, ToBenchmarkSummary(report))
	}

	var nextOffset *int
	if end := filter.Offset + len(reports); end < total {
		nextOffset = &end
	}

	a.respondJSON(w, http.StatusOK, ListBenchmarksResponse{
		Benchmarks: summaries,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		NextOffset: nextOffset,
	})
}

// sum handles POST /api/sum, a single parallel reduction over the posted values
func (a *API) sum(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSumBodyBytes)

	var req SumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.respondError(w, http.StatusRequestEntityTooLarge, "request body too large",
				fmt.Sprintf("at most %d bytes are accepted", tooLarge.Limit))
			return
		}
		a.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	maxValues, maxWorkers := a.sumLimits()
	if len(req.Values) > maxValues {
		a.respondError(w, http.StatusRequestEntityTooLarge, "too many values",
			fmt.Sprintf("at most %d values are accepted", maxValues))
		return
	}
	if req.Workers > maxWorkers {
		a.respondError(w, http.StatusBadRequest, "validation failed",
			fmt.Sprintf("workers must be <= %d", maxWorkers))
		return
	}

	seq := core.Sequence(req.Values)
	reduction, err := local.Reduce(r.Context(), seq, req.Workers)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidArgument):
			a.respondError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, core.ErrTaskInterrupted):
			a.respondError(w, http.StatusServiceUnavailable, "sum interrupted", err.Error())
		default:
			a.respondError(w, http.StatusInternalServerError, "sum failed", err.Error())
		}
		return
	}

	a.respondJSON(w, http.StatusOK, ToSumResponse(reduction, core.SequentialSum(seq, 0, len(seq))))
}

// sumLimits caps /api/sum by the configured benchmark limits, falling back
// to the endpoint's own bounds when a limit is unset or looser.
func (a *API) sumLimits() (values, workers int) {
	values, workers = maxSumValues, maxSumWorkers
	if a.limits.MaxLength > 0 {
		values = min(values, a.limits.MaxLength)
	}
	if a.limits.MaxWorkers > 0 {
		workers = min(workers, a.limits.MaxWorkers)
	}
	return values, workers
}

func (a *API) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("Failed to encode response", "error", err)
	}
}

func (a *API) respondError(w http.ResponseWriter, statusCode int, error string, message string) {
	resp := ErrorResponse{
		Error:   error,
		Message: message,
		Code:    statusCode,
	}
	a.respondJSON(w, statusCode, resp)
}

func NewServer(
	cfg config.RESTConfig,
	limits config.LimitsConfig,
	service bench.BenchmarkService,
	logger logging.Logger,
) *http.Server {
	api := NewAPI(service, limits, logger)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	handler := ChainMiddleware(
		mux,
		RequestIDMiddleware,
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
	)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
