package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/lists"
)

func dune() lists.NewItem {
	return lists.NewItem{ContentID: 438631, Title: "Dune", PosterPath: "/dune.jpg", MediaType: lists.MediaMovie}
}

func TestWatchLater_AddAndList(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "wl@example.com")

	w := ts.do(t, http.MethodGet, "/api/v1/watchlater", nil, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[listResponse](t, w)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.FetchedAt)

	w = ts.do(t, http.MethodPost, "/api/v1/watchlater", dune(), sess.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[lists.Item](t, w)
	assert.NotEmpty(t, added.ID)

	// Served from cache: the new entry is there but not yet read back.
	w = ts.do(t, http.MethodGet, "/api/v1/watchlater", nil, sess.Token)
	cached := decode[listResponse](t, w)
	require.Len(t, cached.Items, 1)
	assert.Equal(t, added.ID, cached.Items[0].ID)
	assert.True(t, cached.Items[0].Pending)

	w = ts.do(t, http.MethodGet, "/api/v1/watchlater?refresh=1", nil, sess.Token)
	fresh := decode[listResponse](t, w)
	require.Len(t, fresh.Items, 1)
	assert.False(t, fresh.Items[0].Pending)
	assert.Equal(t, "Dune", fresh.Items[0].Title)
}

func TestWatchLater_Filter(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "filter@example.com")

	for _, n := range []lists.NewItem{
		dune(),
		{ContentID: 329865, Title: "Arrival", MediaType: lists.MediaMovie},
		{ContentID: 95396, Title: "Severance", MediaType: lists.MediaTV},
	} {
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/watchlater", n, sess.Token).Code)
	}

	w := ts.do(t, http.MethodGet, "/api/v1/watchlater?q=sev", nil, sess.Token)
	resp := decode[listResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Severance", resp.Items[0].Title)
}

func TestWatchLater_AddInvalid(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "bad@example.com")

	item := dune()
	item.MediaType = "podcast"
	w := ts.do(t, http.MethodPost, "/api/v1/watchlater", item, sess.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ITEM", errorCode(t, w))
}

func TestWatchLater_Remove(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "rm@example.com")

	added := decode[lists.Item](t, ts.do(t, http.MethodPost, "/api/v1/watchlater", dune(), sess.Token))

	w := ts.do(t, http.MethodDelete, "/api/v1/watchlater/items/"+added.ID, nil, sess.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/v1/watchlater/items/"+added.ID, nil, sess.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/watchlater/refresh", nil, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[listResponse](t, w).Items)
}

func TestWatchLater_Isolation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice@example.com")
	bob := ts.register(t, "bob@example.com")

	added := decode[lists.Item](t, ts.do(t, http.MethodPost, "/api/v1/watchlater", dune(), alice.Token))

	w := ts.do(t, http.MethodGet, "/api/v1/watchlater", nil, bob.Token)
	assert.Empty(t, decode[listResponse](t, w).Items)

	w = ts.do(t, http.MethodDelete, "/api/v1/watchlater/items/"+added.ID, nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, w.Code, "users cannot remove each other's items")
}

func TestWatchLater_Check(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "check@example.com")

	w := ts.do(t, http.MethodGet, "/api/v1/watchlater/438631", nil, sess.Token)
	assert.False(t, decode[lists.Indicator](t, w).Member)

	ts.do(t, http.MethodPost, "/api/v1/watchlater", dune(), sess.Token)

	w = ts.do(t, http.MethodGet, "/api/v1/watchlater/438631", nil, sess.Token)
	assert.True(t, decode[lists.Indicator](t, w).Member)

	w = ts.do(t, http.MethodGet, "/api/v1/watchlater/abc", nil, sess.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWatchLater_Toggle(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "toggle@example.com")
	show := lists.Show{ID: 693134, Name: "Dune: Part Two", BackdropPath: "/bd.jpg"}

	w := ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{Show: show}, sess.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[lists.ToggleResult](t, w)
	assert.True(t, res.Indicator.Member)
	require.NotNil(t, res.Notification)
	assert.Equal(t, lists.MsgAdded, res.Notification.Message)

	w = ts.do(t, http.MethodGet, "/api/v1/watchlater?refresh=1", nil, sess.Token)
	items := decode[listResponse](t, w).Items
	require.Len(t, items, 1)
	assert.Equal(t, "Dune: Part Two", items[0].Title)
	assert.Equal(t, "/bd.jpg", items[0].PosterPath)
	assert.Equal(t, lists.MediaMovie, items[0].MediaType)

	w = ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{Show: show}, sess.Token)
	res = decode[lists.ToggleResult](t, w)
	assert.False(t, res.Indicator.Member)
	assert.Equal(t, lists.MsgRemoved, res.Notification.Message)
}

func TestWatchLater_ToggleStaleIndicator(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "stale@example.com")
	member := true

	w := ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{
		Show:   lists.Show{ID: 1, Title: "Gone"},
		Member: &member,
	}, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[lists.ToggleResult](t, w)
	assert.False(t, res.Indicator.Member)
	assert.Equal(t, lists.MsgNotInList, res.Notification.Message)
}

func TestWatchLater_ToggleAnonymous(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{Show: lists.Show{ID: 7, Title: "Se7en"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[lists.ToggleResult](t, w)
	assert.False(t, res.Indicator.Member)
	assert.Equal(t, lists.MsgLoginRequired, res.Notification.Message)
}

func TestWatchLater_ToggleInvalidShow(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "noid@example.com")

	w := ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{Show: lists.Show{Title: "No ID"}}, sess.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
