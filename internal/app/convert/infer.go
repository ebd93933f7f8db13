package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
)

const (
	defaultStderrLimit = 8 * 1024
	defaultWaitDelay   = 5 * time.Second
)

// ScriptRunner invokes an inference script as a child process:
//
//	<python> <script> --input <in> --output <out> [--revision <rev>]
//
// Exit status 0 with a non-empty output file is success; anything else is a BackendError
// carrying the tail of stderr.
type ScriptRunner struct {
	python      string
	timeout     time.Duration
	stderrLimit int
	waitDelay   time.Duration
	logger      *zap.Logger
}

// ScriptRunnerConfig configures a ScriptRunner.
type ScriptRunnerConfig struct {
	Python      string
	Timeout     time.Duration
	StderrLimit int
}

// NewScriptRunner creates a runner. Zero values fall back to defaults.
func NewScriptRunner(config ScriptRunnerConfig, logger *zap.Logger) *ScriptRunner {
	if config.Python == "" {
		config.Python = "python3"
	}
	if config.StderrLimit <= 0 {
		config.StderrLimit = defaultStderrLimit
	}
	return &ScriptRunner{
		python:      config.Python,
		timeout:     config.Timeout,
		stderrLimit: config.StderrLimit,
		waitDelay:   defaultWaitDelay,
		logger:      logger,
	}
}

// Args returns the argument list passed to the interpreter.
func (r *ScriptRunner) Args(script, input, output, revision string) []string {
	args := []string{script, "--input", input, "--output", output}
	if revision != "" {
		args = append(args, "--revision", revision)
	}
	return args
}

// Run executes script for backend and blocks until it exits or the timeout elapses.
func (r *ScriptRunner) Run(ctx context.Context, backend, script, input, output, revision string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := r.Args(script, input, output, revision)
	cmd := exec.CommandContext(ctx, r.python, args...)
	cmd.Dir = filepath.Dir(script)
	cmd.WaitDelay = r.waitDelay

	stderr := newTailBuffer(r.stderrLimit)
	cmd.Stderr = stderr

	r.logger.Info("running inference script",
		zap.String("backend", backend),
		zap.String("script", script),
		zap.Strings("args", args[1:]),
	)

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", r.timeout, context.DeadlineExceeded)
		}
		return &BackendError{
			Backend: backend,
			Op:      "infer",
			Err:     err,
			Stderr:  strings.TrimSpace(stderr.String()),
		}
	}

	info, statErr := os.Stat(output)
	if statErr != nil || info.Size() == 0 {
		return &BackendError{Backend: backend, Op: "infer", Err: apperrors.ErrEmptyOutput}
	}

	r.logger.Info("inference script finished",
		zap.String("backend", backend),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
