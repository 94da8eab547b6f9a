package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/realtime/ws"
)

// TestSocket_UpgradesThroughMiddleware checks the upgrade survives the
// logging and recovery wrappers
func TestSocket_UpgradesThroughMiddleware(t *testing.T) {
	ts := newWebTestServer(t)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/socket"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	join, err := json.Marshal(model.JoinRequest{Name: "Ada"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ws.Envelope{Event: model.EventPlayerJoin, Data: join}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env ws.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	require.Equal(t, model.EventPlayersUpdate, env.Event)

	var players []model.PlayerState
	require.NoError(t, json.Unmarshal(env.Data, &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Ada", players[0].Name)
	assert.Equal(t, 1, ts.app.Hub.ClientCount())
}

func TestSocket_RejectsPlainGet(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/socket")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
