package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/pkg/core"
	"github.com/nemanja-m/gosum/pkg/local"
)

const (
	ServiceName = "gosum.v1.BenchmarkService"

	RunBenchmarkMethod = "/" + ServiceName + "/RunBenchmark"
	GetReportMethod    = "/" + ServiceName + "/GetReport"
	ParallelSumMethod  = "/" + ServiceName + "/ParallelSum"

	maxSumWorkers = 1024
)

// BenchmarkServer is the server API for gosum.v1.BenchmarkService.
type BenchmarkServer interface {
	RunBenchmark(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ParallelSum(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var benchmarkServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BenchmarkServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunBenchmark", Handler: unaryHandler(RunBenchmarkMethod, BenchmarkServer.RunBenchmark)},
		{MethodName: "GetReport", Handler: unaryHandler(GetReportMethod, BenchmarkServer.GetReport)},
		{MethodName: "ParallelSum", Handler: unaryHandler(ParallelSumMethod, BenchmarkServer.ParallelSum)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gosum/v1/benchmark.proto",
}

func unaryHandler(
	fullMethod string,
	call func(BenchmarkServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BenchmarkServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BenchmarkServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type BenchmarkService struct {
	service bench.BenchmarkService
	limits  config.LimitsConfig
	logger  logging.Logger
}

func NewBenchmarkService(service bench.BenchmarkService, limits config.LimitsConfig, logger logging.Logger) *BenchmarkService {
	return &BenchmarkService{
		service: service,
		limits:  limits,
		logger:  logger,
	}
}

func (s *BenchmarkService) RunBenchmark(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req runBenchmarkRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}

	report, err := s.service.Run(ctx, req.toBenchmarkRequest())
	if err != nil {
		s.logger.Warn("Benchmark run failed", "name", req.Name, "error", err)
		return nil, toStatusError(err)
	}

	s.logger.Info("Benchmark run completed", "report_id", report.ID.String(), "sum", report.Expected)
	return toStruct(newReportMessage(report))
}

func (s *BenchmarkService) GetReport(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req getReportRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid report ID %q. Expected UUID.", req.ID)
	}

	report, err := s.service.Get(id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toStruct(newReportMessage(report))
}

func (s *BenchmarkService) ParallelSum(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req parallelSumRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	maxWorkers := maxSumWorkers
	if s.limits.MaxWorkers > 0 {
		maxWorkers = min(maxWorkers, s.limits.MaxWorkers)
	}
	if req.Workers > maxWorkers {
		return nil, status.Errorf(codes.InvalidArgument, "workers must be <= %d", maxWorkers)
	}
	if s.limits.MaxLength > 0 && len(req.Values) > s.limits.MaxLength {
		return nil, status.Errorf(codes.InvalidArgument, "at most %d values are accepted", s.limits.MaxLength)
	}

	reduction, err := local.Reduce(ctx, core.Sequence(req.Values), req.Workers)
	if err != nil {
		return nil, toStatusError(err)
	}

	s.logger.Debug("Parallel sum served", "values", len(req.Values), "workers", req.Workers, "sum", reduction.Sum)
	return toStruct(newParallelSumResponse(reduction))
}

func toStatusError(err error) error {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, core.ErrTaskInterrupted):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, bench.ErrReportNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
