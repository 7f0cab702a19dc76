package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess isn't a real test. The runner tests re-execute the test
// binary with this test selected to get a child with controlled behaviour.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) == 0 {
		os.Exit(2)
	}

	switch args[0] {
	case "echo":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], "|"))
		os.Exit(0)
	case "fail":
		fmt.Fprint(os.Stderr, "  Error at line 12: unknown parameter\n")
		os.Exit(3)
	case "fail-silent":
		os.Exit(4)
	case "flood":
		fmt.Fprint(os.Stdout, strings.Repeat("x", 4096))
		os.Exit(0)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
		os.Exit(0)
	}
	os.Exit(2)
}

func helperArgs(mode string, extra ...string) []string {
	return append([]string{"-test.run=TestHelperProcess", "--", mode}, extra...)
}

var helperEnv = []string{"GO_WANT_HELPER_PROCESS=1"}

func TestRunner_Run_Success(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)

	res, err := r.Run(context.Background(), os.Args[0], helperArgs("echo", "-s:data.xml", "dt=2024-01-15; rm -rf /"), Options{Env: helperEnv})

	require.NoError(t, err)
	// Each argument reaches the child verbatim, nothing is shell-expanded.
	assert.Equal(t, "-s:data.xml|dt=2024-01-15; rm -rf /", string(res.Stdout))
	assert.False(t, res.Truncated)
	assert.Greater(t, res.Duration.Nanoseconds(), int64(0))
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)

	res, err := r.Run(context.Background(), os.Args[0], helperArgs("fail"), Options{Env: helperEnv})

	assert.Nil(t, res)
	var procErr *apperrors.ExternalProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, os.Args[0], procErr.Command)
	assert.Equal(t, "Error at line 12: unknown parameter", procErr.Diagnostic)
}

func TestRunner_Run_NonZeroExitWithoutStderr(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)

	_, err := r.Run(context.Background(), os.Args[0], helperArgs("fail-silent"), Options{Env: helperEnv})

	var procErr *apperrors.ExternalProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "exit status 4", procErr.Diagnostic)
}

func TestRunner_Run_SpawnFailure(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)

	_, err := r.Run(context.Background(), "definitely-not-a-real-binary-solar", nil, Options{})

	var procErr *apperrors.ExternalProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "definitely-not-a-real-binary-solar", procErr.Command)
	assert.NotEmpty(t, procErr.Diagnostic)
}

func TestRunner_Run_TruncatesOutput(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)

	res, err := r.Run(context.Background(), os.Args[0], helperArgs("flood"), Options{Env: helperEnv, MaxOutputBytes: 100})

	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Len(t, res.Stdout, 100)
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)
	dir := t.TempDir()

	res, err := r.Run(context.Background(), os.Args[0], helperArgs("pwd"), Options{Env: helperEnv, Dir: dir})

	require.NoError(t, err)
	resolved, _ := os.Stat(dir)
	got, _ := os.Stat(string(res.Stdout))
	assert.True(t, os.SameFile(resolved, got))
}

func TestRunner_Run_IgnoresCallerCancellation(t *testing.T) {
	r := NewRunner(logger.NewTestLogger(t), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, os.Args[0], helperArgs("echo", "ok"), Options{Env: helperEnv})

	require.NoError(t, err)
	assert.Equal(t, "ok", string(res.Stdout))
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, max: 5}

	n, err := lw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = lw.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = lw.Write([]byte("ij"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "abcde", buf.String())
	assert.True(t, lw.truncated)
	assert.Equal(t, int64(5), lw.discarded)
}
