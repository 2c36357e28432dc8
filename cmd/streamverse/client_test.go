package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/account"
	"github.com/vmunix/streamverse/internal/lists"
)

func TestClientStatus_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		ExpectToken("").
		RespondJSON(StatusResponse{Status: "ok", Version: "1.2.0", Catalog: true}).
		Build()

	status, err := NewClient(srv.URL, "").Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.0", status.Version)
	assert.True(t, status.Catalog)
	assert.False(t, status.Streams)
}

func TestClient_TrailingSlashInServerURL(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		RespondJSON(StatusResponse{Status: "ok"}).
		Build()

	_, err := NewClient(srv.URL+"/", "").Status()
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "Please sign in").
		Build()

	_, err := NewClient(srv.URL, "").Me()
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Please sign in", apiErr.Message)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "401")
}

func TestClient_PlainTextError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusInternalServerError, "internal server error").
		Build()

	_, err := NewClient(srv.URL, "").Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	_, err := NewClient(srv.URL, "").Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("not valid json"))
		}).
		Build()

	_, err := NewClient(srv.URL, "").Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClientLogin(t *testing.T) {
	expires := time.Date(2026, 11, 17, 12, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/v1/auth/login").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody[map[string]string](t, r)
			assert.Equal(t, "ana@example.com", body["email"])
			assert.Equal(t, "hunter22", body["password"])
			respondJSON(t, w, http.StatusOK, SessionResponse{
				Token:     "tok-1",
				ExpiresAt: expires,
				User:      Identity{ID: "u1", Email: "ana@example.com", Name: "Ana"},
			})
		}).
		Build()

	sess, err := NewClient(srv.URL, "").Login("ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.True(t, expires.Equal(sess.ExpiresAt))
	assert.Equal(t, "Ana", sess.User.Name)
}

func TestClientRegister_SendsDisplayName(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/auth/register").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody[map[string]string](t, r)
			assert.Equal(t, "Ana", body["displayName"])
			respondJSON(t, w, http.StatusCreated, SessionResponse{Token: "tok-2"})
		}).
		Build()

	sess, err := NewClient(srv.URL, "").Register("ana@example.com", "hunter22", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token)
}

func TestClientLogout_NoContent(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/auth/logout").
		ExpectPOST().
		ExpectToken("tok-1").
		RespondStatus(http.StatusNoContent).
		Build()

	require.NoError(t, NewClient(srv.URL, "tok-1").Logout())
}

func TestClientWatchLater_Query(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/watchlater").
		ExpectGET().
		ExpectToken("tok").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "dune", r.URL.Query().Get("q"))
			assert.Equal(t, "true", r.URL.Query().Get("refresh"))
			respondJSON(t, w, http.StatusOK, ListResponse{
				Items: []ListItem{
					{Item: lists.Item{ID: "a1", ContentID: 438631, Title: "Dune", MediaType: lists.MediaMovie}},
					{Item: lists.Item{ContentID: 693134, Title: "Dune: Part Two", MediaType: lists.MediaMovie}, Pending: true},
				},
				Total: 2,
			})
		}).
		Build()

	list, err := NewClient(srv.URL, "tok").WatchLater("dune", true)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(438631), list.Items[0].ContentID)
	assert.False(t, list.Items[0].Pending)
	assert.True(t, list.Items[1].Pending)
	assert.Nil(t, list.FetchedAt)
}

func TestClientWatchLater_NoQueryString(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			respondJSON(t, w, http.StatusOK, ListResponse{Items: []ListItem{}})
		}).
		Build()

	list, err := NewClient(srv.URL, "tok").WatchLater("", false)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestClientAddWatchLater(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/watchlater").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			req := decodeBody[lists.NewItem](t, r)
			assert.Equal(t, int64(438631), req.ContentID)
			assert.Equal(t, lists.MediaMovie, req.MediaType)
			respondJSON(t, w, http.StatusCreated, lists.Item{ID: "a1", ContentID: req.ContentID, Title: req.Title})
		}).
		Build()

	item, err := NewClient(srv.URL, "tok").AddWatchLater(lists.NewItem{
		ContentID: 438631,
		Title:     "Dune",
		MediaType: lists.MediaMovie,
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", item.ID)
}

func TestClientRemoveWatchLater_EscapesID(t *testing.T) {
	srv := newMockServer(t).
		ExpectDELETE().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/watchlater/items/a%2Fb", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNoContent)
		}).
		Build()

	require.NoError(t, NewClient(srv.URL, "tok").RemoveWatchLater("a/b"))
}

func TestClientRemoveWatchLater_NotFound(t *testing.T) {
	srv := newMockServer(t).
		RespondAPIError(http.StatusNotFound, "NOT_FOUND", "List item not found").
		Build()

	err := NewClient(srv.URL, "tok").RemoveWatchLater("missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClientToggleWatchLater(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/watchlater/toggle").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody[struct {
				Show lists.Show `json:"show"`
			}](t, r)
			assert.Equal(t, int64(438631), body.Show.ID)
			respondJSON(t, w, http.StatusOK, map[string]any{
				"indicator":    map[string]bool{"member": true, "busy": false},
				"notification": map[string]string{"level": "success", "message": "Dune added to Watch Later"},
			})
		}).
		Build()

	res, err := NewClient(srv.URL, "tok").ToggleWatchLater(lists.Show{ID: 438631, Title: "Dune"})
	require.NoError(t, err)
	assert.True(t, res.Indicator.Member)
	require.NotNil(t, res.Notification)
	assert.Equal(t, "success", res.Notification.Level)
}

func TestClientCheckWatchLater(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/watchlater/438631").
		RespondJSON(Indicator{Member: true}).
		Build()

	ind, err := NewClient(srv.URL, "").CheckWatchLater(438631)
	require.NoError(t, err)
	assert.True(t, ind.Member)
}

func TestClientHistory(t *testing.T) {
	progress := 40
	srv := newMockServer(t).
		ExpectPath("/api/v1/history").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			respondJSON(t, w, http.StatusOK, HistoryResponse{
				Items: []lists.Item{{ID: "h1", Title: "Arrival", Progress: &progress}},
				Total: 1,
			})
		}).
		Build()

	hist, err := NewClient(srv.URL, "tok").History("", 5)
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	require.NotNil(t, hist.Items[0].Progress)
	assert.Equal(t, 40, *hist.Items[0].Progress)
}

func TestClientClearHistory(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/history").
		ExpectDELETE().
		RespondJSON(map[string]int64{"removed": 3}).
		Build()

	n, err := NewClient(srv.URL, "tok").ClearHistory()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestClientUpdateSettings_SendsOnlyPatchedFields(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/settings").
		ExpectPATCH().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody[map[string]any](t, r)
			assert.Equal(t, map[string]any{"theme": "dark"}, body)
			respondJSON(t, w, http.StatusOK, account.Settings{Theme: account.ThemeDark, Autoplay: true})
		}).
		Build()

	dark := account.ThemeDark
	settings, err := NewClient(srv.URL, "tok").UpdateSettings(account.SettingsPatch{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, account.ThemeDark, settings.Theme)
	assert.True(t, settings.Autoplay)
}

func TestClientEvents(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			respondJSON(t, w, http.StatusOK, EventsResponse{
				Items: []EventResponse{{ID: 1, EventType: "list.item_added", EntityType: "movie", EntityID: 438631}},
				Total: 1,
			})
		}).
		Build()

	events, err := NewClient(srv.URL, "tok").Events(10)
	require.NoError(t, err)
	require.Len(t, events.Items, 1)
	assert.Equal(t, "list.item_added", events.Items[0].EventType)
}
