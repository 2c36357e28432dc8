package lists_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/streamverse/internal/lists"
	"github.com/vmunix/streamverse/internal/lists/mocks"
	"go.uber.org/mock/gomock"
)

func newTestHistory(t *testing.T, limit int) (*lists.History, *mocks.MockStore) {
	t.Helper()
	store := mocks.NewMockStore(gomock.NewController(t))
	return lists.NewHistory(store, limit, testLogger()), store
}

func TestHistory_ListDefaultLimit(t *testing.T) {
	h, store := newTestHistory(t, 0)

	store.EXPECT().List(gomock.Any(), "u1", lists.WatchHistory, lists.DefaultHistoryLimit).Return([]lists.Item{}, nil)
	store.EXPECT().List(gomock.Any(), "u1", lists.WatchHistory, 5).Return([]lists.Item{}, nil)

	_, err := h.List(context.Background(), "u1", 0)
	require.NoError(t, err)
	_, err = h.List(context.Background(), "u1", 5)
	require.NoError(t, err)
}

func TestHistory_AddRemoveClear(t *testing.T) {
	h, store := newTestHistory(t, 10)
	ctx := context.Background()
	n := lists.NewItem{ContentID: 5, Title: "Dune", MediaType: lists.MediaMovie}

	store.EXPECT().Insert(gomock.Any(), "u1", lists.WatchHistory, n).Return(lists.Item{ID: "h1", ContentID: 5}, nil)
	store.EXPECT().Delete(gomock.Any(), "u1", lists.WatchHistory, "h1").Return(nil)
	store.EXPECT().DeleteAll(gomock.Any(), "u1", lists.WatchHistory).Return(int64(3), nil)

	item, err := h.Add(ctx, "u1", n)
	require.NoError(t, err)
	assert.Equal(t, "h1", item.ID)

	require.NoError(t, h.Remove(ctx, "u1", "h1"))

	cleared, err := h.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)
}

func TestHistory_RemoveNotFound(t *testing.T) {
	h, store := newTestHistory(t, 10)

	store.EXPECT().Delete(gomock.Any(), "u1", lists.WatchHistory, "nope").Return(lists.ErrNotFound)

	err := h.Remove(context.Background(), "u1", "nope")
	require.ErrorIs(t, err, lists.ErrNotFound)
}

func TestHistory_UpdateProgress(t *testing.T) {
	h, store := newTestHistory(t, 10)
	ctx := context.Background()

	store.EXPECT().UpdateProgress(gomock.Any(), "u1", lists.WatchHistory, "h1", 55).Return(nil)
	require.NoError(t, h.UpdateProgress(ctx, "u1", "h1", 55))

	// Out-of-range values never reach the store.
	require.ErrorIs(t, h.UpdateProgress(ctx, "u1", "h1", 101), lists.ErrInvalidProgress)
	require.ErrorIs(t, h.UpdateProgress(ctx, "u1", "h1", -1), lists.ErrInvalidProgress)
}

func TestHistory_Search(t *testing.T) {
	h, store := newTestHistory(t, 10)
	items := []lists.Item{
		{ID: "1", Title: "The Dark Knight"},
		{ID: "2", Title: "Dune"},
		{ID: "3", Title: "Dune: Part Two"},
		{ID: "4", Title: "Arrival"},
	}
	store.EXPECT().List(gomock.Any(), "u1", lists.WatchHistory, 10).Return(items, nil).Times(2)

	got, err := h.Search(context.Background(), "u1", "dune")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID, "closest match first")
	assert.Equal(t, "3", got[1].ID)

	all, err := h.Search(context.Background(), "u1", "  ")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestHistory_StoreError(t *testing.T) {
	h, store := newTestHistory(t, 10)
	boom := errors.New("offline")

	store.EXPECT().List(gomock.Any(), "u1", lists.WatchHistory, 10).Return(nil, boom)

	_, err := h.List(context.Background(), "u1", 0)
	require.ErrorIs(t, err, boom)
}
