package repository

import (
	"context"

	"github.com/bnema/arkium/internal/domain/entity"
)

// HistoryRepository persists the browsing history log as a whole.
// The log is small and rewritten wholesale on every mutation.
type HistoryRepository interface {
	// Load returns the stored entries, oldest first. A missing or
	// unreadable store yields an empty slice and a nil error.
	Load(ctx context.Context) ([]entity.HistoryEntry, error)

	// Save replaces the stored entries.
	Save(ctx context.Context, entries []entity.HistoryEntry) error
}
