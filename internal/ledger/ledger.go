// Package ledger persists the record of jobs already attempted. The ledger
// is append-only: it never shrinks or reorders, within or across runs, and
// every Append is durable before it returns. Losing an append means a
// duplicate application on the next run, so append failures are fatal to
// the caller.
package ledger

import (
	"context"

	"autoapply-engine/internal/domain"
)

// Store is a durable applied-job ledger. Load is called once, before any
// query is processed; Append persists immediately, not batched. A run is
// the store's sole reader and writer; concurrent runs against the same
// backing store are not supported.
type Store interface {
	Load(ctx context.Context) ([]domain.AppliedJob, error)
	Append(ctx context.Context, rec domain.AppliedJob) error
	Close() error
}

// Index is the in-memory dedup view over loaded records.
type Index struct {
	keys map[string]struct{}
}

func NewIndex(records []domain.AppliedJob) *Index {
	idx := &Index{keys: make(map[string]struct{}, len(records))}
	for _, r := range records {
		idx.keys[r.Key()] = struct{}{}
	}
	return idx
}

func (i *Index) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

func (i *Index) Add(rec domain.AppliedJob) {
	i.keys[rec.Key()] = struct{}{}
}

func (i *Index) Len() int { return len(i.keys) }
