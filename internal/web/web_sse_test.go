package web_test

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

	"github.com/mcoot/minigolf-go/internal/model"
)

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/rooms/public/events", nil)

	// SSE is long-running, so bound it
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
	assert.Contains(t, rr.Body.String(), "event: connected")
	assert.Contains(t, rr.Body.String(), `"roomId":"public"`)
}

func TestSSE_RoomAccess(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MockRandom.QueueString("GOLF01")
	_, err := ts.app.Controller.NewRoom(t.Context(), "Sunday", "birdie")
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"unknown room", "/rooms/NOPE00/events", http.StatusNotFound},
		{"missing password", "/rooms/GOLF01/events", http.StatusForbidden},
		{"wrong password", "/rooms/GOLF01/events?password=bogey", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.get(tt.path)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEqual(t, "text/event-stream", rr.Header().Get("Content-Type"))
		})
	}

	assert.Nil(t, ts.app.HubManager.GetHub("NOPE00"))
}

// TestSSE_StreamsRoomBroadcasts drives the session and watches the
// spectator feed of the same room
func TestSSE_StreamsRoomBroadcasts(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MockRandom.QueueString("GOLF01")
	_, err := ts.app.Controller.NewRoom(t.Context(), "Sunday", "birdie")
	require.NoError(t, err)

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/rooms/GOLF01/events?password=birdie", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			switch {
			case line == "":
				if event != "" {
					return event, data
				}
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data += strings.TrimPrefix(line, "data: ")
			}
		}
	}

	event, _ := readEvent()
	require.Equal(t, "connected", event)

	// the public room is not watched, so only the private room shows up
	require.NoError(t, ts.app.Controller.Join(t.Context(), "conn-b", model.JoinRequest{Name: "Bea"}))
	require.NoError(t, ts.app.Controller.Join(t.Context(), "conn-a", model.JoinRequest{Name: "Ada", Room: "GOLF01"}))

	event, data := readEvent()
	assert.Equal(t, string(model.EventPlayersUpdate), event)
	assert.Contains(t, data, `"name":"Ada"`)
	assert.NotContains(t, data, "Bea")

	event, data = readEvent()
	assert.Equal(t, string(model.EventChat), event)
	assert.Contains(t, data, "Ada si è unito alla partita!")
}
