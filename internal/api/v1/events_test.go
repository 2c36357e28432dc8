package v1

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/events"
	"github.com/vmunix/streamverse/internal/lists"
)

func TestListEvents(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "events@example.com")
	bob := ts.register(t, "other@example.com")

	ts.do(t, http.MethodPost, "/api/v1/watchlater/toggle", toggleRequest{Show: lists.Show{ID: 11, Title: "Arrival"}}, alice.Token)
	ts.do(t, http.MethodPost, "/api/v1/watchlater", dune(), bob.Token)

	w := ts.do(t, http.MethodGet, "/api/v1/events", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[listEventsResponse](t, w)

	var types []string
	for _, e := range resp.Items {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, events.EventListItemAdded)
	assert.Contains(t, types, events.EventNotification)
	for _, e := range resp.Items {
		assert.NotEqual(t, int64(438631), e.EntityID, "bob's events leaked")
	}

	w = ts.do(t, http.MethodGet, "/api/v1/events?limit=0", nil, alice.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamEvents(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "stream@example.com")

	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+alice.Token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Headers are flushed after subscribing, so these are delivered.
	publish(t, ts.bus, events.NewNotification("someone-else", 1, events.LevelSuccess, "not for alice"))
	publish(t, ts.bus, events.NewNotification(alice.User.ID, 2, events.LevelSuccess, lists.MsgAdded))

	scanner := bufio.NewScanner(resp.Body)
	var eventLine, dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			eventLine = line
		}
		if strings.HasPrefix(line, "data: ") {
			dataLine = line
			break
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, "event: "+events.EventNotification, eventLine)
	assert.Contains(t, dataLine, lists.MsgAdded)
	assert.NotContains(t, dataLine, "not for alice")
}
