package jsonfile

import (
	"context"
	"sync"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/logging"
)

// HistoryFileName is the history document inside the data directory.
const HistoryFileName = "history.json"

const historyPerm = 0o644

type historyRepo struct {
	mu   sync.Mutex
	path string
}

// NewHistoryRepository stores history as a JSON array at path, oldest
// first. Entries are written in the order given.
func NewHistoryRepository(path string) repository.HistoryRepository {
	return &historyRepo{path: path}
}

// Load returns an empty list when the file is missing. A file that is not
// a JSON array is reported as an error.
func (r *historyRepo) Load(ctx context.Context) ([]entity.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []entity.HistoryEntry
	found, err := readJSON(r.path, &entries)
	if err != nil {
		return []entity.HistoryEntry{}, err
	}
	if !found || entries == nil {
		logging.FromContext(ctx).Debug().Str("path", r.path).Msg("no history file yet")
		return []entity.HistoryEntry{}, nil
	}
	return entries, nil
}

func (r *historyRepo) Save(ctx context.Context, entries []entity.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entries == nil {
		entries = []entity.HistoryEntry{}
	}
	if err := writeJSON(r.path, entries, historyPerm); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Int("entries", len(entries)).Msg("history saved")
	return nil
}
