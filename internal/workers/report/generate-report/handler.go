// internal/workers/report/generate-report/handler.go
package generatereport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strconv"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/report"
)

const (
	TaskType = "generate-report"

	selectorField = "dt"
	pdfType       = "application/pdf"
)

var unsafeFilenameChars = regexp.MustCompile(`[^0-9T-]`)

type Handler struct {
	config    *Config
	generator Generator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		errors:    errs,
		logger:    log.With(logger.Fields{"taskType": TaskType}),
	}
}

// ServeHTTP answers GET /report.pdf?dt= with an attachment and
// POST /convertToPdf with the bare PDF.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		input      *Input
		attachment bool
		err        error
	)

	switch r.Method {
	case http.MethodGet:
		input = &Input{Selector: r.URL.Query().Get(selectorField)}
		attachment = true
	case http.MethodPost:
		input, err = h.parseBody(w, r)
		if err != nil {
			h.errors.WriteHTTPError(w, r, err)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	output, err := h.Execute(r.Context(), input)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pdfType)
	w.Header().Set("Content-Length", strconv.Itoa(output.Bytes))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, output.Filename))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(output.Artifact); err != nil {
		h.logger.Warn("failed to write artifact", logger.Fields{"error": err})
	}
}

// Execute runs one pipeline pass for input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	selector := report.NewSelector(input.Selector)

	h.logger.Info("generating report", logger.Fields{
		"selector": selector.String(),
		"latest":   selector.IsLatest(),
	})

	artifact, err := h.generator.Generate(ctx, selector)
	if err != nil {
		return nil, err
	}

	return &Output{
		Artifact: artifact,
		Filename: h.Filename(selector),
		Renderer: h.generator.RendererName(),
		Bytes:    len(artifact),
	}, nil
}

// Filename builds the download name. Everything outside [0-9T-] becomes '_'.
func (h *Handler) Filename(selector report.Selector) string {
	safe := h.config.LatestLabel
	if !selector.IsLatest() {
		safe = unsafeFilenameChars.ReplaceAllString(selector.String(), "_")
	}
	return h.config.FilenamePrefix + safe + ".pdf"
}

// parseBody takes the selector from a text/plain body, a JSON object or the
// dt form field, in that order of content types.
func (h *Handler) parseBody(w http.ResponseWriter, r *http.Request) (*Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/plain":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("read body: %v", err)
		}
		return &Input{Selector: string(raw)}, nil
	case "application/json":
		var input Input
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil && err != io.EOF {
			return nil, apperrors.NewInvalidInputError("parse body: %v", err)
		}
		return &input, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(h.config.MaxBodyBytes); err != nil && err != http.ErrNotMultipart {
			return nil, apperrors.NewInvalidInputError("parse form: %v", err)
		}
		return &Input{Selector: r.FormValue(selectorField)}, nil
	default:
		return &Input{}, nil
	}
}
