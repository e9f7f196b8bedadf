package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"autoapply-engine/internal/domain"
)

// FileStore keeps the ledger as a flat JSON list, rewritten in full on
// every append. A crash between apply and append just re-attempts that one
// application next run. A flock guards against a second engine process
// writing the same file.
type FileStore struct {
	path string
	lock *flock.Flock

	mu      sync.Mutex // the status API reads while the run writes
	records []domain.AppliedJob
	loaded  bool
}

func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ledger dir: %w", err)
	}

	lk := flock.New(path + ".lock")
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("ledger lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("ledger %s: already locked by another run", path)
	}

	return &FileStore{path: path, lock: lk}, nil
}

func (s *FileStore) Load(_ context.Context) ([]domain.AppliedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: empty ledger.
		s.records = nil
		s.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger read: %w", err)
	}

	var recs []domain.AppliedJob
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("ledger parse %s: %w", s.path, err)
	}
	s.records = recs
	s.loaded = true
	return append([]domain.AppliedJob(nil), recs...), nil
}

func (s *FileStore) Append(_ context.Context, rec domain.AppliedJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return errors.New("ledger append before load")
	}

	s.records = append(s.records, rec)

	b, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger marshal: %w", err)
	}

	// tmp + rename so a crash mid-write can't truncate the ledger
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		// roll the mirror back so memory matches disk
		s.records = s.records[:len(s.records)-1]
		return fmt.Errorf("ledger write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.records = s.records[:len(s.records)-1]
		return fmt.Errorf("ledger rename: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}
