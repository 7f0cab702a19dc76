package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/workspace"
)

func TestTransformer_Args(t *testing.T) {
	tr := NewTransformer(testTransformConfig(), &fakeRunner{}, logger.NewTestLogger(t))

	args := tr.Args("/tmp/ws/report.fo", NewSelector(" 2024-01-15T10:00 "))

	assert.Equal(t, []string{
		"-jar", "/opt/saxon/saxon-he.jar",
		"-s:/srv/solar/data/recommendation.xml",
		"-xsl:/srv/solar/xslt/fo/report.fo.xsl",
		"-o:/tmp/ws/report.fo",
		"dt=2024-01-15T10:00",
	}, args)
}

func TestTransformer_Args_HostileSelectorStaysOneParameter(t *testing.T) {
	tr := NewTransformer(testTransformConfig(), &fakeRunner{}, logger.NewTestLogger(t))
	hostile := Selector("x -o:/etc/passwd; rm -rf / ../../secret")

	args := tr.Args("/tmp/ws/report.fo", hostile)

	require.Len(t, args, 6)
	assert.Equal(t, "dt="+string(hostile), args[5])
	assert.Equal(t, "-o:/tmp/ws/report.fo", args[4])
}

func TestTransformer_Args_NoJar(t *testing.T) {
	cfg := testTransformConfig()
	cfg.Command = "transform"
	cfg.Jar = ""
	tr := NewTransformer(cfg, &fakeRunner{}, logger.NewTestLogger(t))

	args := tr.Args("/out.fo", "")
	assert.Equal(t, "-s:/srv/solar/data/recommendation.xml", args[0])
	assert.Equal(t, "dt=", args[len(args)-1])
}

func TestTransformer_Transform(t *testing.T) {
	layout := bytes.Repeat([]byte("<fo:block/>"), 40)
	runner := &fakeRunner{handle: saxonWrites(layout)}
	tr := NewTransformer(testTransformConfig(), runner, logger.NewTestLogger(t))

	ws, err := workspace.Acquire("", logger.NewTestLogger(t))
	require.NoError(t, err)
	defer ws.Release()

	got, err := tr.Transform(context.Background(), ws, "2024-01-15")

	require.NoError(t, err)
	assert.Equal(t, LayoutDocument(layout), got)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "java", calls[0].name)
	assert.Equal(t, ws.Path("report.fo"), argWithPrefix(calls[0].args, "-o:"))
	assert.Equal(t, "2024-01-15", argWithPrefix(calls[0].args, "dt="))
}

func TestTransformer_Transform_PropagatesProcessError(t *testing.T) {
	procErr := apperrors.NewExternalProcessError("java", "XTDE0050: stylesheet error", errors.New("exit status 2"))
	runner := &fakeRunner{handle: func(string, []string) error { return procErr }}
	tr := NewTransformer(testTransformConfig(), runner, logger.NewTestLogger(t))

	ws, err := workspace.Acquire("", logger.NewTestLogger(t))
	require.NoError(t, err)
	defer ws.Release()

	got, err := tr.Transform(context.Background(), ws, "")

	assert.Nil(t, got)
	assert.Same(t, procErr, err)
}

func TestTransformer_Transform_MissingOutput(t *testing.T) {
	tr := NewTransformer(testTransformConfig(), &fakeRunner{}, logger.NewTestLogger(t))

	ws, err := workspace.Acquire("", logger.NewTestLogger(t))
	require.NoError(t, err)
	defer ws.Release()

	_, err = tr.Transform(context.Background(), ws, "")

	var wsErr *apperrors.WorkspaceError
	assert.True(t, errors.As(err, &wsErr))
}

func TestTransformer_Transform_EmptyOutput(t *testing.T) {
	runner := &fakeRunner{handle: saxonWrites(nil)}
	tr := NewTransformer(testTransformConfig(), runner, logger.NewTestLogger(t))

	ws, err := workspace.Acquire("", logger.NewTestLogger(t))
	require.NoError(t, err)
	defer ws.Release()

	_, err = tr.Transform(context.Background(), ws, "")

	var procErr *apperrors.ExternalProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "java", procErr.Command)
}
