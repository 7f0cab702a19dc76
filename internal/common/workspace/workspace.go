// Package workspace provides per-operation temporary directories that are
// removed on every exit path.
package workspace

import (
	"os"
	"path/filepath"
	"sync"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
)

// DefaultPrefix makes leftover directories easy to spot in the temp area.
const DefaultPrefix = "solardecision-"

// Workspace is a temporary directory owned by exactly one operation.
type Workspace struct {
	dir    string
	logger logger.Logger
	once   sync.Once
}

// Acquire creates a uniquely named directory under the system temp area.
func Acquire(prefix string, log logger.Logger) (*Workspace, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, apperrors.NewWorkspaceError("create", filepath.Join(os.TempDir(), prefix+"*"), err)
	}
	return &Workspace{dir: dir, logger: log}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns name inside the workspace. Names are fixed by callers and
// never derived from request input.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile writes data to name inside the workspace.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", apperrors.NewWorkspaceError("write", path, err)
	}
	return path, nil
}

// ReadFile reads name back from the workspace.
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	path := w.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewWorkspaceError("read", path, err)
	}
	return data, nil
}

// Release removes the directory tree. It is idempotent and never fails; a
// removal problem is only logged so it cannot mask the operation's result.
func (w *Workspace) Release() {
	w.once.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil && w.logger != nil {
			w.logger.Warn("failed to remove temp workspace", logger.Fields{
				"dir":   w.dir,
				"error": err,
			})
		}
	})
}

// With acquires a workspace, runs fn in it and releases it afterwards,
// whatever fn returns. fn's error is passed through unchanged.
func With(prefix string, log logger.Logger, fn func(ws *Workspace) error) error {
	ws, err := Acquire(prefix, log)
	if err != nil {
		return err
	}
	defer ws.Release()
	return fn(ws)
}
