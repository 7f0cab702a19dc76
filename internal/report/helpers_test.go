package report

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"solar-reports/internal/common/config"
	"solar-reports/internal/common/process"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type runCall struct {
	name string
	args []string
}

// fakeRunner plays the external tools. handle gets the argv and may write
// the files the real tool would produce.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []runCall
	handle func(name string, args []string) error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ process.Options) (*process.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()

	if f.handle != nil {
		if err := f.handle(name, args); err != nil {
			return nil, err
		}
	}
	return &process.Result{}, nil
}

func (f *fakeRunner) Calls() []runCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runCall(nil), f.calls...)
}

// saxonWrites emulates the engine writing layout to its -o: target.
func saxonWrites(layout []byte) func(string, []string) error {
	return func(_ string, args []string) error {
		for _, a := range args {
			if strings.HasPrefix(a, "-o:") {
				return os.WriteFile(strings.TrimPrefix(a, "-o:"), layout, 0o600)
			}
		}
		return nil
	}
}

// fopWrites emulates `fop -fo in -pdf out`.
func fopWrites(artifact []byte) func(string, []string) error {
	return func(_ string, args []string) error {
		for i, a := range args {
			if a == "-pdf" && i+1 < len(args) {
				return os.WriteFile(args[i+1], artifact, 0o600)
			}
		}
		return nil
	}
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func argWithPrefix(args []string, prefix string) string {
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			return strings.TrimPrefix(a, prefix)
		}
	}
	return ""
}

func testTransformConfig() config.TransformConfig {
	return config.TransformConfig{
		Command:    "java",
		Jar:        "/opt/saxon/saxon-he.jar",
		Source:     "/srv/solar/data/recommendation.xml",
		Stylesheet: "/srv/solar/xslt/fo/report.fo.xsl",
		Param:      "dt",
	}
}

// isolateTempDir points the temp area at a fresh directory so tests can
// check that nothing is left behind.
func isolateTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	return dir
}

func requireTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Empty(t, names, "temp workspaces left behind")
}
