package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/application/port"
	portmocks "github.com/bnema/arkium/internal/application/port/mocks"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	repomocks "github.com/bnema/arkium/internal/domain/repository/mocks"
	"github.com/bnema/arkium/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestManageHistoryUseCase_Load_CorruptStoreStartsEmpty(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(nil, errors.New("unexpected EOF"))

	uc := usecase.NewManageHistoryUseCase(repo, 0, nil)
	uc.Load(ctx)

	assert.Empty(t, uc.List())
}

func TestManageHistoryUseCase_Record_PersistsAndPublishes(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	sink := portmocks.NewMockEventSink(t)

	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(e []entity.HistoryEntry) bool {
		return len(e) == 1 && e[0].URL == "https://a.test"
	})).Return(nil).Twice()
	sink.EXPECT().Publish(mock.AnythingOfType("port.HistoryUpdated")).Twice()

	uc := usecase.NewManageHistoryUseCase(repo, 0, sink)
	require.True(t, uc.Record(ctx, "https://a.test", "A"))
	require.True(t, uc.Record(ctx, "https://a.test", "B"))

	entries := uc.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Title)
}

func TestManageHistoryUseCase_Record_SkipsRestrictedWithoutIO(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	sink := portmocks.NewMockEventSink(t)

	uc := usecase.NewManageHistoryUseCase(repo, 0, sink)

	assert.False(t, uc.Record(ctx, "about:blank", "x"))
	assert.False(t, uc.Record(ctx, "devtools://foo", "x"))
	assert.Empty(t, uc.List())
}

func TestManageHistoryUseCase_WriteFailureKeepsMemory(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("read-only file system"))

	uc := usecase.NewManageHistoryUseCase(repo, 0, nil)

	assert.True(t, uc.Record(ctx, "https://a.test", "A"))
	assert.Len(t, uc.List(), 1)
}

func TestManageHistoryUseCase_Delete(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

	var published []port.Event
	uc := usecase.NewManageHistoryUseCase(repo, 0, port.EventSinkFunc(func(ev port.Event) {
		published = append(published, ev)
	}))
	uc.Record(ctx, "https://u.test", "first")
	uc.Record(ctx, "https://v.test", "")
	uc.Record(ctx, "https://u.test", "second")
	published = nil

	_, err := uc.Delete(ctx, entity.HistoryMatcher{})
	assert.ErrorIs(t, err, usecase.ErrEmptyMatcher)

	removed, err := uc.Delete(ctx, entity.HistoryMatcher{URL: "https://nope.test"})
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, published)

	removed, err = uc.Delete(ctx, entity.HistoryMatcher{URL: "https://u.test"})
	require.NoError(t, err)
	assert.True(t, removed)
	require.Len(t, published, 1)

	entries := uc.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[1].Title)
}

func TestManageHistoryUseCase_Clear(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewManageHistoryUseCase(repo, 0, nil)
	uc.Record(ctx, "https://a.test", "")
	uc.Clear(ctx)

	assert.Empty(t, uc.List())
	repo.AssertCalled(t, "Save", mock.Anything, []entity.HistoryEntry{})
}
