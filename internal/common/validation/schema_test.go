package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solar-reports/internal/common/errors"
)

const priceSchema = `{
  "type": "object",
  "required": ["value", "date"],
  "properties": {
    "value": {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"},
    "date":  {"type": "string"}
  }
}`

func writeSchema(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidateFile(t *testing.T) {
	schemaPath := writeSchema(t, priceSchema)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"value":"0.31","date":"2024-01-15"}`, false},
		{"non numeric price", `{"value":"cheap","date":"2024-01-15"}`, true},
		{"missing date", `{"value":"0.31"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(schemaPath, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *apperrors.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.NotEmpty(t, vErr.Details)
		})
	}
}

func TestLoadSchema_Failures(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.json")},
		{"malformed", writeSchema(t, `{"type": `)},
		{"not a schema", writeSchema(t, `{"type": 42}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSchema(tt.path)
			var sErr *apperrors.SchemaLoadError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, tt.path, sErr.Path)
		})
	}
}

func TestValidationResult_Details(t *testing.T) {
	r := &ValidationResult{Errors: []ValidationError{{Field: "plants.0.name", Message: "String length must be greater than or equal to 1"}}}
	assert.Equal(t, []string{"plants.0.name: String length must be greater than or equal to 1"}, r.Details())
}
