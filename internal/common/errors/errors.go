// Package errors provides the error taxonomy shared by the report pipeline,
// the validated store and the HTTP boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeExternalProcessFailed ErrorCode = "EXTERNAL_PROCESS_FAILED"
	ErrCodeRemoteRenderFailed    ErrorCode = "REMOTE_RENDER_FAILED"
	ErrCodeRecordNotFound        ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeWorkspaceUnavailable  ErrorCode = "WORKSPACE_UNAVAILABLE"
	ErrCodeSchemaLoadFailed      ErrorCode = "SCHEMA_LOAD_FAILED"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// Coded is implemented by every typed error in this package.
type Coded interface {
	error
	Code() ErrorCode
}

// StandardError represents a structured error as it leaves the process.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Typed Errors
// ==========================

// ExternalProcessError is returned when a subprocess cannot be spawned or
// exits non-zero. Diagnostic holds the trimmed stderr, or the raw error text
// when nothing was captured.
type ExternalProcessError struct {
	Command    string
	Diagnostic string
	Err        error
}

func (e *ExternalProcessError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Command, e.Diagnostic)
}

func (e *ExternalProcessError) Unwrap() error   { return e.Err }
func (e *ExternalProcessError) Code() ErrorCode { return ErrCodeExternalProcessFailed }

// RemoteRenderError is returned when the remote renderer answers with a
// non-2xx status. Status is 0 when no response was received at all.
type RemoteRenderError struct {
	Status int
	Body   string
}

func (e *RemoteRenderError) Error() string {
	return fmt.Sprintf("remote renderer failed (%d): %s", e.Status, e.Body)
}

func (e *RemoteRenderError) Code() ErrorCode { return ErrCodeRemoteRenderFailed }

// NotFoundError names the lookup key that matched no record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record not found: %s", e.Key)
}

func (e *NotFoundError) Code() ErrorCode { return ErrCodeRecordNotFound }

// ValidationError is returned when a mutated collection fails its schema.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Code() ErrorCode { return ErrCodeValidationFailed }

// WorkspaceError covers temp workspace acquisition and the file steps
// performed inside it.
type WorkspaceError struct {
	Op   string
	Path string
	Err  error
}

func (e *WorkspaceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("workspace %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("workspace %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WorkspaceError) Unwrap() error   { return e.Err }
func (e *WorkspaceError) Code() ErrorCode { return ErrCodeWorkspaceUnavailable }

// SchemaLoadError is returned when the schema document is missing or is not
// a usable schema. It is kept apart from ValidationError so that a broken
// deployment is not reported as bad user input.
type SchemaLoadError struct {
	Path string
	Err  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("load schema %s: %v", e.Path, e.Err)
}

func (e *SchemaLoadError) Unwrap() error   { return e.Err }
func (e *SchemaLoadError) Code() ErrorCode { return ErrCodeSchemaLoadFailed }

// InvalidInputError rejects a request before any work is done.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string   { return e.Message }
func (e *InvalidInputError) Code() ErrorCode { return ErrCodeInvalidInput }

// ==========================
// 3. Constructors
// ==========================

func NewExternalProcessError(command, stderr string, err error) *ExternalProcessError {
	diagnostic := strings.TrimSpace(stderr)
	if diagnostic == "" && err != nil {
		diagnostic = strings.TrimSpace(err.Error())
	}
	return &ExternalProcessError{Command: command, Diagnostic: diagnostic, Err: err}
}

func NewRemoteRenderError(status int, body string) *RemoteRenderError {
	return &RemoteRenderError{Status: status, Body: strings.TrimSpace(body)}
}

func NewNotFoundError(key string) *NotFoundError {
	return &NotFoundError{Key: key}
}

func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

func NewWorkspaceError(op, path string, err error) *WorkspaceError {
	return &WorkspaceError{Op: op, Path: path, Err: err}
}

func NewSchemaLoadError(path string, err error) *SchemaLoadError {
	return &SchemaLoadError{Path: path, Err: err}
}

func NewInvalidInputError(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// ==========================
// 4. Boundary Mapping
// ==========================

var messages = map[ErrorCode]string{
	ErrCodeExternalProcessFailed: "External process failed",
	ErrCodeRemoteRenderFailed:    "Remote renderer failed",
	ErrCodeRecordNotFound:        "Record not found",
	ErrCodeValidationFailed:      "Invalid document",
	ErrCodeWorkspaceUnavailable:  "Temporary workspace unavailable",
	ErrCodeSchemaLoadFailed:      "Schema could not be loaded",
	ErrCodeInvalidInput:          "Invalid input",
	ErrCodeInternal:              "Unexpected error",
}

// ToStandardError normalizes any error into a StandardError.
func ToStandardError(err error) *StandardError {
	var std *StandardError
	if stderrors.As(err, &std) {
		return std
	}

	code := ErrCodeInternal
	var coded Coded
	if stderrors.As(err, &coded) {
		code = coded.Code()
	}

	out := &StandardError{
		Code:      code,
		Message:   messages[code],
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	var remote *RemoteRenderError
	if stderrors.As(err, &remote) {
		out.Metadata = map[string]interface{}{"status": remote.Status}
	}
	var notFound *NotFoundError
	if stderrors.As(err, &notFound) {
		out.Metadata = map[string]interface{}{"key": notFound.Key}
	}
	return out
}

// HTTPStatus maps an error code to the status returned to callers.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed, ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeExternalProcessFailed, ErrCodeRemoteRenderFailed:
		return "RENDER"
	case ErrCodeRecordNotFound, ErrCodeValidationFailed, ErrCodeSchemaLoadFailed:
		return "STORE"
	case ErrCodeWorkspaceUnavailable:
		return "FILESYSTEM"
	case ErrCodeInvalidInput:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
