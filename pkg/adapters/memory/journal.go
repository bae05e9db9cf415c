package memory

import (
	"context"
	"sync"

	"github.com/aretw0/nuex/pkg/domain"
)

// DefaultCapacity is the number of records a Journal keeps unless configured otherwise.
const DefaultCapacity = 1000

// Journal implements ports.Journal in memory, keeping the latest records.
// Safe for concurrent use.
type Journal struct {
	mu       sync.RWMutex
	records  []domain.MutationRecord
	capacity int
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithCapacity bounds the number of retained records. Values <= 0 keep everything.
func WithCapacity(n int) JournalOption {
	return func(j *Journal) {
		j.capacity = n
	}
}

// NewJournal creates an empty in-memory journal.
func NewJournal(opts ...JournalOption) *Journal {
	j := &Journal{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Append records rec, dropping the oldest record when the journal is full.
func (j *Journal) Append(ctx context.Context, rec domain.MutationRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	if j.capacity > 0 && len(j.records) > j.capacity {
		j.records = append([]domain.MutationRecord(nil), j.records[len(j.records)-j.capacity:]...)
	}
	return nil
}

// Recent returns up to n of the latest records, oldest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]domain.MutationRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	start := 0
	if n > 0 && n < len(j.records) {
		start = len(j.records) - n
	}
	return append([]domain.MutationRecord{}, j.records[start:]...), nil
}

// Len returns the number of retained records.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}
