package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scriptlint/internal/trace"
)

var (
	traceCleanup func()
	cleanupOnce  sync.Once
)

type runIDKey struct{}

// runIDFrom returns the id of the current invocation, set by setupTracing.
func runIDFrom(ctx context.Context) uuid.UUID {
	if ctx != nil {
		if id, ok := ctx.Value(runIDKey{}).(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
// Every invocation gets a run id; it is stamped on trace events and on the
// JSON report.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.New()
	ctx = context.WithValue(ctx, runIDKey{}, runID)

	// Read trace configuration from flags
	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	// Parse level
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !root.PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}

	// If level is off, skip tracing
	if level == trace.LevelOff {
		ctx = trace.WithTracer(ctx, trace.Nop)
		cmd.SetContext(ctx)
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
		RunID:      runID.String(),
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	// Attach tracer to context
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	// Start heartbeat if configured
	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// closeTracing runs the tracer and profiler cleanup once. PersistentPostRun is not called
// when a command fails, so main calls it too.
func closeTracing() {
	cleanupOnce.Do(func() {
		if traceCleanup != nil {
			traceCleanup()
		}
	})
}

// dumpTraceOnPanic writes the ring buffer to stderr when the command panics,
// then re-panics.
func dumpTraceOnPanic(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.Ring(trace.FromContext(ctx)); ring != nil {
		fmt.Fprintln(os.Stderr, "--- trace (most recent events) ---")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
