// Package process runs external tools and folds their failures into
// errors.ExternalProcessError.
package process

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
)

// DefaultMaxOutputBytes caps each captured stream. Saxon and FOP are chatty
// on stderr, so the ceiling is generous.
const DefaultMaxOutputBytes int64 = 50 * 1024 * 1024

// Options tune a single invocation.
type Options struct {
	Dir            string
	Env            []string // appended to the parent environment
	MaxOutputBytes int64
	Timeout        time.Duration // 0 = run to completion
}

// Result is the captured output of a successful run.
type Result struct {
	Stdout    []byte
	Stderr    string
	Truncated bool
	Duration  time.Duration
}

type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner spawns one OS process per Run call. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	logger    logger.Logger
	maxOutput int64
	command   commandFunc
}

func NewRunner(log logger.Logger, maxOutput int64) *Runner {
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutputBytes
	}
	return &Runner{
		logger:    log,
		maxOutput: maxOutput,
		command:   exec.CommandContext,
	}
}

// Run executes name with args (no shell is involved) and waits for it.
// Caller cancellation does not reach the child process.
func (r *Runner) Run(ctx context.Context, name string, args []string, opts Options) (*Result, error) {
	runCtx := context.WithoutCancel(ctx)
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, opts.Timeout)
		defer cancel()
	}

	maxOutput := r.maxOutput
	if opts.MaxOutputBytes > 0 {
		maxOutput = opts.MaxOutputBytes
	}

	cmd := r.command(runCtx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := &limitedWriter{w: &stdoutBuf, max: maxOutput}
	stderr := &limitedWriter{w: &stderrBuf, max: maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger.Debug("starting external process", logger.Fields{
		"command": name,
		"args":    args,
		"dir":     opts.Dir,
	})

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	if stdout.truncated || stderr.truncated {
		r.logger.Warn("external process output truncated", logger.Fields{
			"command":        name,
			"discardedBytes": stdout.discarded + stderr.discarded,
		})
	}

	if err != nil {
		procErr := apperrors.NewExternalProcessError(name, stderrBuf.String(), err)
		r.logger.Error("external process failed", logger.Fields{
			"command":    name,
			"diagnostic": procErr.Diagnostic,
			"durationMs": elapsed.Milliseconds(),
		})
		return nil, procErr
	}

	return &Result{
		Stdout:    stdoutBuf.Bytes(),
		Stderr:    stderrBuf.String(),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  elapsed,
	}, nil
}

// limitedWriter keeps the first max bytes and silently drops the rest so
// a noisy child never blocks on a full pipe.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)

	if lw.written >= lw.max {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
