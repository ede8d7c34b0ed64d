// Package summary owns the summary records produced from transcripts: the
// in-memory store keyed by summary id and the service that generates records
// through the upstream model.
package summary

import (
	"strings"
	"sync"

	"meetnotes/internal/services"
)

// Record is the stored tuple for one generated summary. The summary field is
// the only part that changes after creation.
type Record struct {
	ID           string `json:"summary_id"`
	Transcript   string `json:"transcript"`
	CustomPrompt string `json:"custom_prompt"`
	Summary      string `json:"summary"`
}

// Store holds summary records for the lifetime of the process. Records are
// never evicted; ids are minted by the service and never reused.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Insert adds a record under its id. Freshly minted ids make collisions
// impossible in practice; an existing entry is overwritten rather than
// separately enforced.
func (s *Store) Insert(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := record
	s.records[record.ID] = &stored
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, services.Wrap(services.ErrNotFound, "Summary not found", nil)
	}
	return *record, nil
}

// UpdateSummary replaces the summary text of an existing record in place.
// The existence check and the write happen under one lock acquisition so
// concurrent updates on the same id cannot be lost.
func (s *Store) UpdateSummary(id, text string) error {
	if strings.TrimSpace(text) == "" {
		return services.Wrap(services.ErrValidation, "Updated summary cannot be empty", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return services.Wrap(services.ErrNotFound, "Summary not found", nil)
	}
	record.Summary = text
	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
