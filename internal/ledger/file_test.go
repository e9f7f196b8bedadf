package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoapply-engine/internal/domain"
)

func TestFileStoreMissingFileIsEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFileStoreAppendThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.NoError(t, err)

	first := domain.AppliedJob{Title: "API Dev", Company: "Acme", AppliedSuccessfully: true}
	second := domain.AppliedJob{Title: "Backend Eng", Company: "Toro", AppliedSuccessfully: false}
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))
	require.NoError(t, s.Close())

	// A fresh store sees everything, in append order, unchanged.
	s2, err := OpenFile(path)
	require.NoError(t, err)
	defer s2.Close()

	recs, err := s2.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first, recs[0])
	assert.Equal(t, second, recs[1])
}

func TestFileStoreAppendBeforeLoadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	defer s.Close()

	err = s.Append(context.Background(), domain.AppliedJob{Title: "x", Company: "y"})
	assert.Error(t, err)
}

func TestFileStoreSecondOpenIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = OpenFile(path)
	assert.Error(t, err)
}

func TestIndexDedup(t *testing.T) {
	idx := NewIndex([]domain.AppliedJob{
		{Title: "API Dev", Company: "Acme", AppliedSuccessfully: false},
	})

	// Prior outcome is irrelevant: the pair is present either way.
	assert.True(t, idx.Has(domain.JobDetails{Title: "API Dev", Company: "Acme"}.Key()))
	assert.False(t, idx.Has(domain.JobDetails{Title: "API Dev", Company: "Other"}.Key()))

	idx.Add(domain.AppliedJob{Title: "SRE", Company: "Acme"})
	assert.True(t, idx.Has(domain.JobDetails{Title: "SRE", Company: "Acme"}.Key()))
	assert.Equal(t, 2, idx.Len())
}
