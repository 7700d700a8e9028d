package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nemanja-m/gosum/internal/bench"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/pkg/core"
	"github.com/nemanja-m/gosum/pkg/local"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.LoadBench(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}

	seq, source, err := loadSequence(cfg.Input)
	if err != nil {
		logger.Fatal("Failed to prepare input", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := &bench.Report{
		ID:          uuid.New(),
		Name:        "cli",
		Status:      bench.ReportStatusPending,
		Input:       source,
		Sweep:       bench.Sweep{MinWorkers: cfg.Sweep.MinWorkers, MaxWorkers: cfg.Sweep.MaxWorkers},
		SubmittedAt: time.Now().UTC(),
	}

	fmt.Println(header(cfg.Input, len(seq)))
	fmt.Println()

	if err := bench.NewRunner(logger).Execute(ctx, report, seq); err != nil {
		logger.Fatal("Benchmark failed", "report_id", report.ID.String(), "error", err)
	}

	if err := bench.WriteTable(os.Stdout, report); err != nil {
		logger.Fatal("Failed to write results", "error", err)
	}

	if fastest, ok := report.Fastest(); ok {
		logger.Info("Benchmark completed",
			"report_id", report.ID.String(),
			"duration", report.Duration().String(),
			"fastest_workers", fastest.Workers,
			"fastest", fastest.Elapsed.String(),
		)
	}
}

func loadSequence(input config.InputConfig) (core.Sequence, string, error) {
	if len(input.Paths) > 0 {
		files, err := local.FindFiles(input.Paths...)
		if err != nil {
			return nil, "", err
		}
		if len(files) == 0 {
			return nil, "", fmt.Errorf("no input files matched %v", input.Paths)
		}
		seq, err := local.ReadSequence(files...)
		if err != nil {
			return nil, "", err
		}
		return seq, "local(" + strings.Join(input.Paths, ", ") + ")", nil
	}

	seed := input.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	seq, err := local.RandomSequence(input.Length, input.MinValue, input.MaxValue, seed)
	if err != nil {
		return nil, "", err
	}
	source := fmt.Sprintf("random(length=%d, range=[%d, %d], seed=%d)",
		input.Length, input.MinValue, input.MaxValue, seed)
	return seq, source, nil
}

func header(input config.InputConfig, length int) string {
	if len(input.Paths) > 0 {
		return fmt.Sprintf("%d numbers read from %s were added using multiple and single threads in a system with %d processors.",
			length, strings.Join(input.Paths, ", "), runtime.NumCPU())
	}
	return fmt.Sprintf("%d random numbers between %d and %d were added using multiple and single threads in a system with %d processors.",
		length, input.MinValue, input.MaxValue, runtime.NumCPU())
}
