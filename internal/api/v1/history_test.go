package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/lists"
)

func TestHistory(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "history@example.com")

	w := ts.do(t, http.MethodGet, "/api/v1/history", nil, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[historyResponse](t, w).Items)

	var ids []string
	for _, n := range []lists.NewItem{
		{ContentID: 1, Title: "The Bear", MediaType: lists.MediaTV},
		{ContentID: 2, Title: "Barbie", MediaType: lists.MediaMovie},
		{ContentID: 3, Title: "Oppenheimer", MediaType: lists.MediaMovie},
	} {
		w := ts.do(t, http.MethodPost, "/api/v1/history", n, sess.Token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[lists.Item](t, w).ID)
	}

	w = ts.do(t, http.MethodGet, "/api/v1/history?limit=2", nil, sess.Token)
	assert.Len(t, decode[historyResponse](t, w).Items, 2)

	w = ts.do(t, http.MethodGet, "/api/v1/history?q=oppen", nil, sess.Token)
	found := decode[historyResponse](t, w).Items
	require.Len(t, found, 1)
	assert.Equal(t, "Oppenheimer", found[0].Title)

	w = ts.do(t, http.MethodPut, "/api/v1/history/"+ids[0]+"/progress", progressRequest{Progress: 42}, sess.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodPut, "/api/v1/history/"+ids[0]+"/progress", progressRequest{Progress: 101}, sess.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/v1/history/"+ids[1], nil, sess.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/history", nil, sess.Token)
	items := decode[historyResponse](t, w).Items
	require.Len(t, items, 2)
	for _, it := range items {
		if it.ID == ids[0] {
			require.NotNil(t, it.Progress)
			assert.Equal(t, 42, *it.Progress)
		}
	}

	w = ts.do(t, http.MethodDelete, "/api/v1/history", nil, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decode[clearResponse](t, w).Removed)
}

func TestHistory_RemoveMissing(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "missing@example.com")

	w := ts.do(t, http.MethodDelete, "/api/v1/history/does-not-exist", nil, sess.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPut, "/api/v1/history/does-not-exist/progress", progressRequest{Progress: 5}, sess.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
