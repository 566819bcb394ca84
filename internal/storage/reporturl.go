package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReportURLStore persists the report URL template as a plain text file. It
// is re-read on every call so edits made outside the program take effect.
type ReportURLStore struct {
	path string
}

// NewReportURLStore returns a store backed by <base>/report-url.txt.
func NewReportURLStore(base string) *ReportURLStore {
	return &ReportURLStore{path: filepath.Join(base, ReportURLFile)}
}

// Template returns the configured template, or "" when none is set.
func (s *ReportURLStore) Template() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage error reading %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetTemplate replaces the stored template.
func (s *ReportURLStore) SetTemplate(url string) error {
	return writeAtomic(s.path, []byte(url))
}
