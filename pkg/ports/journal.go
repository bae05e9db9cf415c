package ports

import (
	"context"

	"github.com/aretw0/nuex/pkg/domain"
)

// Journal records completed commits for inspection. It is an audit trail, not a persistence
// layer: the store never reads its state back from a Journal.
type Journal interface {
	// Append records a commit that returned without error.
	Append(ctx context.Context, rec domain.MutationRecord) error

	// Recent returns up to n of the latest records, oldest first.
	// n <= 0 returns everything the journal retains.
	Recent(ctx context.Context, n int) ([]domain.MutationRecord, error)
}
