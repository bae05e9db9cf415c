package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract. The journal must start empty.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	recs := make([]domain.MutationRecord, 3)
	for i := range recs {
		recs[i] = domain.MutationRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Type:      "increment",
			Path:      "root/counter",
			Payload:   fmt.Sprintf("payload-%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
	}

	t.Run("Empty", func(t *testing.T) {
		got, err := journal.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Append and Recent", func(t *testing.T) {
		for _, rec := range recs {
			require.NoError(t, journal.Append(ctx, rec), "Append should not return error")
		}

		got, err := journal.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, rec := range got {
			assert.Equal(t, recs[i].ID, rec.ID)
			assert.Equal(t, recs[i].Type, rec.Type)
			assert.Equal(t, recs[i].Path, rec.Path)
			assert.Equal(t, recs[i].Payload, rec.Payload)
			assert.True(t, recs[i].Timestamp.Equal(rec.Timestamp), "timestamp %s != %s", recs[i].Timestamp, rec.Timestamp)
		}
	})

	t.Run("Recent Limit", func(t *testing.T) {
		got, err := journal.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "rec-1", got[0].ID)
		assert.Equal(t, "rec-2", got[1].ID)
	})

	t.Run("Recent All", func(t *testing.T) {
		got, err := journal.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
