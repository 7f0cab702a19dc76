// Package store applies read-modify-validate-write updates to JSON record
// collections. A document that fails its schema is never written.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/metrics"
	"solar-reports/internal/common/validation"
)

// Record is one entry of a collection, kept generic so unknown fields
// survive a round trip.
type Record = map[string]interface{}

// Locator selects the first record for which Match returns true. Key names
// the record in a NotFoundError.
type Locator struct {
	Key   string
	Match func(Record) bool
}

// Mutator edits a located record in place.
type Mutator func(Record) error

// ValidatedStore reads and writes documents of the form
// {"<recordsKey>": [record, ...]}. It does no locking; concurrent writers
// to the same file race and the last rename wins.
type ValidatedStore struct {
	recordsKey string
	logger     logger.Logger
}

func NewValidatedStore(recordsKey string, log logger.Logger) *ValidatedStore {
	return &ValidatedStore{
		recordsKey: recordsKey,
		logger:     log.With(logger.Fields{"component": "store", "collection": recordsKey}),
	}
}

// Update locates one record, mutates it and persists the whole document
// only if it still validates against the schema at schemaPath.
func (s *ValidatedStore) Update(ctx context.Context, collectionPath, schemaPath string, loc Locator, mut Mutator) error {
	doc, records, err := s.load(collectionPath)
	if err != nil {
		return s.fail(err)
	}

	var target Record
	for _, r := range records {
		if rec, ok := r.(Record); ok && loc.Match(rec) {
			target = rec
			break
		}
	}
	if target == nil {
		return s.fail(apperrors.NewNotFoundError(loc.Key))
	}

	if err := mut(target); err != nil {
		return s.fail(err)
	}

	if err := s.persist(collectionPath, schemaPath, doc); err != nil {
		return s.fail(err)
	}

	s.logger.Info("record updated", logger.Fields{"key": loc.Key, "path": collectionPath})
	return s.succeed()
}

// Append adds record at the end of the collection under the same
// validate-before-write rule as Update.
func (s *ValidatedStore) Append(ctx context.Context, collectionPath, schemaPath string, record Record) error {
	doc, records, err := s.load(collectionPath)
	if err != nil {
		return s.fail(err)
	}

	doc[s.recordsKey] = append(records, record)

	if err := s.persist(collectionPath, schemaPath, doc); err != nil {
		return s.fail(err)
	}

	s.logger.Info("record appended", logger.Fields{"path": collectionPath, "records": len(records) + 1})
	return s.succeed()
}

func (s *ValidatedStore) load(path string) (map[string]interface{}, []interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read collection %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("parse collection %s: %w", path, err)
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("parse collection %s: document is not an object", path)
	}

	var records []interface{}
	switch v := doc[s.recordsKey].(type) {
	case nil:
	case []interface{}:
		records = v
	default:
		return nil, nil, fmt.Errorf("parse collection %s: %q is not an array", path, s.recordsKey)
	}
	return doc, records, nil
}

// persist validates the exact bytes that would be written, then replaces
// the file through a rename in the same directory.
func (s *ValidatedStore) persist(path, schemaPath string, doc map[string]interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	data = append(data, '\n')

	if err := validation.ValidateFile(schemaPath, data); err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	return nil
}

func (s *ValidatedStore) fail(err error) error {
	result := strings.ToLower(string(apperrors.ToStandardError(err).Code))
	metrics.StoreUpdates.WithLabelValues(s.recordsKey, result).Inc()
	s.logger.Warn("store write rejected", logger.Fields{"error": err})
	return err
}

func (s *ValidatedStore) succeed() error {
	metrics.StoreUpdates.WithLabelValues(s.recordsKey, "success").Inc()
	return nil
}
