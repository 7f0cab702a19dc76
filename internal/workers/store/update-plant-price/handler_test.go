package updateplantprice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/store"
)

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) Update(ctx context.Context, collectionPath, schemaPath string, loc store.Locator, mut store.Mutator) error {
	args := m.Called(ctx, collectionPath, schemaPath, loc.Key)
	return args.Error(0)
}

const schema = `{
  "type": "object",
  "required": ["plants"],
  "properties": {
    "plants": {"type": "array", "items": {
      "type": "object",
      "required": ["name", "statistics"],
      "properties": {
        "name": {"type": "string"},
        "statistics": {"type": "object", "properties": {
          "prices": {"type": "array", "items": {
            "type": "object",
            "required": ["value", "date"],
            "properties": {
              "value": {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"},
              "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
            }
          }}
        }}
      }
    }}
  }
}`

const database = `{"plants": [{"name": "PlantA", "statistics": {"prices": []}}]}`

func newStoreHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "database.json")
	schemaPath := filepath.Join(dir, "database.schema.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(database), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(schema), 0o644))

	log := logger.NewTestLogger(t)
	s := store.NewValidatedStore("plants", log)
	return NewHandler(LoadConfig(dataPath, schemaPath), s, apperrors.NewErrorHandler(log), log), dataPath
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/updateData", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTP_UpdatesPlant(t *testing.T) {
	h, dataPath := newStoreHandler(t)

	rec := postForm(h, url.Values{"plant": {" PlantA "}, "price": {"0.31"}, "date": {"2024-01-15"}})

	assert.Equal(t, http.StatusOK, rec.Code)

	raw, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	var doc struct {
		Plants []struct {
			Statistics struct {
				Prices []map[string]string `json:"prices"`
			} `json:"statistics"`
		} `json:"plants"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Plants[0].Statistics.Prices, 1)
	assert.Equal(t, map[string]string{"value": "0.31", "date": "2024-01-15"}, doc.Plants[0].Statistics.Prices[0])
}

func TestServeHTTP_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		expected int
		code     apperrors.ErrorCode
	}{
		{"missing price", url.Values{"plant": {"PlantA"}, "date": {"2024-01-15"}}, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"blank plant", url.Values{"plant": {"   "}, "price": {"1"}, "date": {"2024-01-15"}}, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"unknown plant", url.Values{"plant": {"PlantZ"}, "price": {"1"}, "date": {"2024-01-15"}}, http.StatusNotFound, apperrors.ErrCodeRecordNotFound},
		{"invalid price", url.Values{"plant": {"PlantA"}, "price": {"abc"}, "date": {"2024-01-15"}}, http.StatusBadRequest, apperrors.ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, dataPath := newStoreHandler(t)

			rec := postForm(h, tt.form)

			assert.Equal(t, tt.expected, rec.Code)
			var body apperrors.StandardError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)

			raw, _ := os.ReadFile(dataPath)
			assert.Equal(t, database, string(raw))
		})
	}
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	h, _ := newStoreHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/updateData", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExecute_PassesConfiguredPaths(t *testing.T) {
	updater := &MockUpdater{}
	updater.On("Update", mock.Anything, "/data/database.json", "/schema/database.schema.json", "PlantA").Return(nil)
	log := logger.NewTestLogger(t)
	h := NewHandler(LoadConfig("/data/database.json", "/schema/database.schema.json"), updater, apperrors.NewErrorHandler(log), log)

	out, err := h.Execute(context.Background(), &Input{Plant: "PlantA", Price: "1", Date: "2024-01-15"})

	require.NoError(t, err)
	assert.True(t, out.Success)
	updater.AssertExpectations(t)
}

func TestExecute_ReturnsStoreErrorUnchanged(t *testing.T) {
	nf := apperrors.NewNotFoundError("PlantA")
	updater := &MockUpdater{}
	updater.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nf)
	log := logger.NewTestLogger(t)
	h := NewHandler(LoadConfig("a", "b"), updater, apperrors.NewErrorHandler(log), log)

	_, err := h.Execute(context.Background(), &Input{Plant: "PlantA", Price: "1", Date: "2024-01-15"})

	assert.Same(t, nf, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, LoadConfig("a", "b").Validate())
	assert.Error(t, LoadConfig("", "b").Validate())
	assert.Error(t, LoadConfig("a", "").Validate())
}
