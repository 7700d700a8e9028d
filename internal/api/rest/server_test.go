package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/gosum/internal/service"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/storage"
)

var testLimits = config.LimitsConfig{MaxLength: 100_000, MaxWorkers: 32}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := newMockLogger()
	svc := service.NewBenchmarkService(storage.NewInMemoryReportStore(), testLimits, logger)
	t.Cleanup(svc.Close)

	mux := http.NewServeMux()
	NewAPI(svc, testLimits, logger).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func ptr[T any](v T) *T {
	return &v
}

func TestSubmitBenchmark(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodPost, "/api/benchmarks", SubmitBenchmarkRequest{
		Name:  "small",
		Input: InputConfig{Type: "random", Length: 2000, Seed: ptr(uint64(5))},
		Sweep: SweepConfig{MinWorkers: ptr(2), MaxWorkers: ptr(4)},
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp SubmitBenchmarkResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "PENDING", resp.Status)
	require.Equal(t, "/api/benchmarks/"+resp.ReportID, resp.Links.Self)

	var got GetBenchmarkResponse
	require.Eventually(t, func() bool {
		w := doJSON(t, mux, http.MethodGet, resp.Links.Self, nil)
		if w.Code != http.StatusOK {
			return false
		}
		got = GetBenchmarkResponse{}
		return json.NewDecoder(w.Body).Decode(&got) == nil && got.Status == "COMPLETED"
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, "small", got.Name)
	require.Equal(t, 2000, got.Length)
	require.Len(t, got.Results, 4)
	require.Equal(t, "SINGLE", got.Results[3].Mode)
	for _, res := range got.Results {
		require.True(t, res.Correct)
		require.Equal(t, got.Expected, res.Sum)
	}
	require.NotNil(t, got.Fastest)
	require.Equal(t, "MULTIPLE", got.Fastest.Mode)
	require.NotNil(t, got.Timestamps.Completed)
}

func TestSubmitBenchmarkValidation(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name string
		req  SubmitBenchmarkRequest
	}{
		{
			name: "missing name",
			req:  SubmitBenchmarkRequest{Input: InputConfig{Length: 10}},
		},
		{
			name: "zero workers",
			req: SubmitBenchmarkRequest{
				Name:  "zero",
				Input: InputConfig{Length: 10},
				Sweep: SweepConfig{MinWorkers: ptr(0)},
			},
		},
		{
			name: "over worker limit",
			req: SubmitBenchmarkRequest{
				Name:  "big",
				Input: InputConfig{Length: 10},
				Sweep: SweepConfig{MaxWorkers: ptr(33)},
			},
		},
		{
			name: "over length limit",
			req: SubmitBenchmarkRequest{
				Name:  "long",
				Input: InputConfig{Length: 100_001},
			},
		},
		{
			name: "unsupported input type",
			req: SubmitBenchmarkRequest{
				Name:  "s3",
				Input: InputConfig{Type: "s3", Paths: []string{"s3://bucket/*.txt"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/benchmarks", tt.req)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Equal(t, "validation failed", resp.Error)
			require.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestSubmitBenchmarkInvalidJSON(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/benchmarks", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBenchmark(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodGet, "/api/benchmarks/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/api/benchmarks/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBenchmarks(t *testing.T) {
	mux := newTestMux(t)

	for range 3 {
		w := doJSON(t, mux, http.MethodPost, "/api/benchmarks", SubmitBenchmarkRequest{
			Name:  "list",
			Input: InputConfig{Length: 100},
			Sweep: SweepConfig{MinWorkers: ptr(1), MaxWorkers: ptr(2)},
		})
		require.Equal(t, http.StatusAccepted, w.Code)
	}

	w := doJSON(t, mux, http.MethodGet, "/api/benchmarks?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListBenchmarksResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 3, resp.Total)
	require.Len(t, resp.Benchmarks, 2)
	require.Equal(t, 2, resp.Limit)
	require.NotNil(t, resp.NextOffset)
	require.Equal(t, 2, *resp.NextOffset)

	w = doJSON(t, mux, http.MethodGet, "/api/benchmarks?limit=2&offset=2", nil)
	resp = ListBenchmarksResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Benchmarks, 1)
	require.Nil(t, resp.NextOffset)

	require.Eventually(t, func() bool {
		w := doJSON(t, mux, http.MethodGet, "/api/benchmarks?status=completed", nil)
		var resp ListBenchmarksResponse
		return json.NewDecoder(w.Body).Decode(&resp) == nil && resp.Total == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSum(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodPost, "/api/sum", SumRequest{Values: []int32{1, 2, 3, 4, 5}, Workers: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SumResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, int64(15), resp.Sum)
	require.Equal(t, int64(15), resp.Sequential)
	require.Equal(t, []PartitionInfo{
		{Start: 0, End: 3, Sum: 6},
		{Start: 3, End: 5, Sum: 9},
	}, resp.Partitions)
}

func TestSum_EmptyValues(t *testing.T) {
	mux := newTestMux(t)

	w := doJSON(t, mux, http.MethodPost, "/api/sum", SumRequest{Values: []int32{}, Workers: 4})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SumResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Zero(t, resp.Sum)
	require.Len(t, resp.Partitions, 4)
}

func TestSum_InvalidWorkers(t *testing.T) {
	mux := newTestMux(t)

	for _, workers := range []int{0, -2, testLimits.MaxWorkers + 1, maxSumWorkers + 1} {
		w := doJSON(t, mux, http.MethodPost, "/api/sum", SumRequest{Values: []int32{1}, Workers: workers})
		require.Equal(t, http.StatusBadRequest, w.Code, "workers=%d", workers)
	}
}

func TestSum_BodyTooLarge(t *testing.T) {
	mux := newTestMux(t)

	body := `{"values":[1,2,3` + strings.Repeat(" ", maxSumBodyBytes) + `],"workers":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/sum", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "request body too large", resp.Error)
}

func TestSum_TooManyValues(t *testing.T) {
	mux := newTestMux(t)

	values := make([]int32, testLimits.MaxLength+1)
	w := doJSON(t, mux, http.MethodPost, "/api/sum", SumRequest{Values: values, Workers: 2})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSum_Interrupted(t *testing.T) {
	mux := newTestMux(t)

	data, err := json.Marshal(SumRequest{Values: []int32{1, 2, 3, 4}, Workers: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/sum", bytes.NewReader(data)).WithContext(ctx)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "sum interrupted", resp.Error)
}

func TestNewServer(t *testing.T) {
	logger := newMockLogger()
	svc := service.NewBenchmarkService(storage.NewInMemoryReportStore(), config.LimitsConfig{}, logger)
	t.Cleanup(svc.Close)

	srv := NewServer(config.RESTConfig{
		Addr:         ":0",
		ReadTimeout:  time.Second,
		WriteTimeout: 2 * time.Second,
		IdleTimeout:  3 * time.Second,
	}, config.LimitsConfig{}, svc, logger)

	require.Equal(t, ":0", srv.Addr)
	require.Equal(t, 2*time.Second, srv.WriteTimeout)

	w := doJSON(t, srv.Handler, http.MethodPost, "/api/sum", SumRequest{Values: []int32{7}, Workers: 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	require.Contains(t, logger.getOutput(), "path=/api/sum")
}
