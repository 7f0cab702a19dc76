package validation

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	apperrors "solar-reports/internal/common/errors"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Details flattens the result into one line per violation.
func (r *ValidationResult) Details() []string {
	details := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		details[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return details
}

// LoadSchema reads and compiles a JSON schema file. Read and compile
// failures both come back as SchemaLoadError.
func LoadSchema(path string) (*gojsonschema.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewSchemaLoadError(path, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.NewSchemaLoadError(path, err)
	}
	return schema, nil
}

// ValidateDocument checks a serialized JSON document against a compiled schema.
func ValidateDocument(schema *gojsonschema.Schema, document []byte) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// ValidateFile loads the schema at schemaPath and validates document with
// it. An invalid document returns *errors.ValidationError.
func ValidateFile(schemaPath string, document []byte) error {
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	result, err := ValidateDocument(schema, document)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewValidationError(result.Details()...)
	}
	return nil
}
