// Package linter is the linting engine the flash add-on collaborates with: it
// owns the error index, draws squiggles and phantoms for it, keeps the
// per-view quiet sets, and provides the goto and toggle commands.
package linter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/gotoflash/internal/host"
)

// ErrorRecord is one lint result.
type ErrorRecord struct {
	UID       string
	Linter    string
	Filename  string
	Region    host.Region
	ErrorType string // "error" or "warning"
	Scope     string
	Icon      string
	Message   string
}

// Store maps a canonical filename to its errors, ordered by region begin.
type Store struct {
	mu    sync.RWMutex
	files map[string][]ErrorRecord
}

// NewStore creates an empty error index.
func NewStore() *Store {
	return &Store{files: make(map[string][]ErrorRecord)}
}

// Set replaces the errors of filename. Records without a UID get a stable one.
func (s *Store) Set(filename string, errs []ErrorRecord) {
	sorted := make([]ErrorRecord, len(errs))
	copy(sorted, errs)
	for i := range sorted {
		sorted[i].Filename = filename
		if sorted[i].UID == "" {
			sorted[i].UID = fmt.Sprintf("%s:%d:%d:%d", sorted[i].Linter, sorted[i].Region.Begin, sorted[i].Region.End, i)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Region.Begin < sorted[j].Region.Begin
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sorted) == 0 {
		delete(s.files, filename)
		return
	}
	s.files[filename] = sorted
}

// FileErrors returns a copy of the errors recorded for filename.
func (s *Store) FileErrors(filename string) []ErrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errs := s.files[filename]
	out := make([]ErrorRecord, len(errs))
	copy(out, errs)
	return out
}

// Files returns every filename that currently has errors, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CanonicalFilename maps a view onto its key in the error index. Unsaved
// views are keyed by their id.
func CanonicalFilename(v host.View) string {
	if name := v.FileName(); name != "" {
		return name
	}
	return fmt.Sprintf("<untitled %d>", v.ID())
}
