package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/logging"
)

// ErrEmptyMatcher is returned when a history delete names no field.
var ErrEmptyMatcher = errors.New("history matcher needs a timestamp or url")

// ManageHistoryUseCase owns the in-memory history log and keeps the
// repository in sync with it. Memory stays authoritative when a write fails.
type ManageHistoryUseCase struct {
	mu   sync.Mutex
	log  *entity.HistoryLog
	repo repository.HistoryRepository
	sink port.EventSink
	now  func() time.Time
}

// NewManageHistoryUseCase creates a history use case holding at most limit
// entries. sink may be nil.
func NewManageHistoryUseCase(repo repository.HistoryRepository, limit int, sink port.EventSink) *ManageHistoryUseCase {
	return &ManageHistoryUseCase{
		log:  entity.NewHistoryLog(limit),
		repo: repo,
		sink: sink,
		now:  time.Now,
	}
}

// SetSink replaces the event sink.
func (uc *ManageHistoryUseCase) SetSink(sink port.EventSink) {
	uc.mu.Lock()
	uc.sink = sink
	uc.mu.Unlock()
}

// Load replaces the in-memory log with the stored one.
func (uc *ManageHistoryUseCase) Load(ctx context.Context) {
	log := logging.FromContext(ctx)

	entries, err := uc.repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load history, starting empty")
		entries = nil
	}

	uc.mu.Lock()
	uc.log.Replace(entries)
	n := uc.log.Len()
	uc.mu.Unlock()

	log.Debug().Int("entries", n).Msg("history loaded")
}

// Record stores a completed load. It reports whether the log changed.
func (uc *ManageHistoryUseCase) Record(ctx context.Context, url, title string) bool {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	if !uc.log.Record(url, title, uc.now().UnixMilli()) {
		uc.mu.Unlock()
		log.Debug().Str("url", logging.TruncateURL(url, 80)).Msg("history record skipped")
		return false
	}
	entries := uc.log.Entries()
	sink := uc.sink
	uc.mu.Unlock()

	uc.persist(ctx, entries)
	publish(sink, port.HistoryUpdated{Entries: entries})
	return true
}

// List returns the entries oldest first.
func (uc *ManageHistoryUseCase) List() []entity.HistoryEntry {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.log.Entries()
}

// Clear empties the log.
func (uc *ManageHistoryUseCase) Clear(ctx context.Context) {
	uc.mu.Lock()
	uc.log.Clear()
	sink := uc.sink
	uc.mu.Unlock()

	logging.FromContext(ctx).Info().Msg("history cleared")
	uc.persist(ctx, []entity.HistoryEntry{})
	publish(sink, port.HistoryUpdated{Entries: []entity.HistoryEntry{}})
}

// Delete removes the first entry matching every field of m.
func (uc *ManageHistoryUseCase) Delete(ctx context.Context, m entity.HistoryMatcher) (bool, error) {
	if m.IsEmpty() {
		return false, ErrEmptyMatcher
	}

	uc.mu.Lock()
	if !uc.log.Delete(m) {
		uc.mu.Unlock()
		return false, nil
	}
	entries := uc.log.Entries()
	sink := uc.sink
	uc.mu.Unlock()

	uc.persist(ctx, entries)
	publish(sink, port.HistoryUpdated{Entries: entries})
	return true, nil
}

func (uc *ManageHistoryUseCase) persist(ctx context.Context, entries []entity.HistoryEntry) {
	if err := uc.repo.Save(ctx, entries); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("entries", len(entries)).Msg("failed to persist history")
	}
}

func publish(sink port.EventSink, ev port.Event) {
	if sink != nil {
		sink.Publish(ev)
	}
}
