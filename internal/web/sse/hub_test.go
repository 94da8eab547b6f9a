package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "json payload",
			eventName: "chat_message",
			data:      `{"player":"Ada","message":"ciao","type":"player"}`,
			expected:  "event: chat_message\ndata: {\"player\":\"Ada\",\"message\":\"ciao\",\"type\":\"player\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "players_update",
			data:      "[\n  {\"id\":\"a\"}\n]",
			expected:  "event: players_update\ndata: [\ndata:   {\"id\":\"a\"}\ndata: ]\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func newRunningHub(t *testing.T, roomID model.RoomID) *Hub {
	t.Helper()
	hub := NewHub(roomID, testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

// waitForClients polls because Register returns before the loop has
// recorded the client
func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newRunningHub(t, "ROOM01")

	client := NewClient(hub)
	if !hub.Register(client) {
		t.Fatal("Register on a running hub returned false")
	}

	waitForClients(t, hub, 1)

	hub.BroadcastEvent("player_shot", `{"power":1}`)

	select {
	case msg := <-client.send:
		expected := "event: player_shot\ndata: {\"power\":1}\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(time.Second):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newRunningHub(t, "ROOM01")

	client := NewClient(hub)
	hub.Register(client)
	hub.Unregister(client)

	waitForClients(t, hub, 0)
	if _, ok := <-client.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_RegisterAfterClose(t *testing.T) {
	hub := NewHub("ROOM01", testutil.NopLogger())
	go hub.Run()
	hub.Close()
	hub.Close()

	if hub.Register(NewClient(hub)) {
		t.Error("Register on a closed hub returned true")
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub1 := manager.GetOrCreateHub("ABC123")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}
	if hub2 := manager.GetOrCreateHub("ABC123"); hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same room")
	}
	if hub3 := manager.GetOrCreateHub(model.DefaultRoom); hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different room")
	}
	if manager.HubCount() != 2 {
		t.Errorf("HubCount() = %d, want 2", manager.HubCount())
	}
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("ABC123")
	manager.RemoveHub("ABC123")

	if manager.GetHub("ABC123") != nil {
		t.Error("Hub still exists after RemoveHub")
	}

	// Removing non-existent hub should not panic
	manager.RemoveHub("NOTEXIST")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	manager.GetOrCreateHub("EMPTY1")
	active := manager.GetOrCreateHub("ACTIVE")
	active.Register(NewClient(active))
	waitForClients(t, active, 1)

	manager.CleanupEmptyHubs()

	if manager.GetHub("EMPTY1") != nil {
		t.Error("Empty hub still exists after cleanup")
	}
	if manager.GetHub("ACTIVE") == nil {
		t.Error("Active hub was removed during cleanup")
	}
}

func TestHubManager_PublishOnlyToWatchedRoom(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub := manager.GetOrCreateHub("ROOM01")
	client := NewClient(hub)
	hub.Register(client)

	manager.Publish("UNWATCHED", model.EventChat, []byte(`{}`))
	manager.Publish("ROOM01", model.EventPlayersUpdate, []byte(`[]`))

	select {
	case msg := <-client.send:
		if string(msg) != "event: players_update\ndata: []\n\n" {
			t.Errorf("client received %q", string(msg))
		}
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
	}
	if manager.GetHub("UNWATCHED") != nil {
		t.Error("Publish created a hub for an unwatched room")
	}
}

func TestServeSSE_StreamsEvents(t *testing.T) {
	hub := newRunningHub(t, "ROOM01")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if line == "\n" {
				return strings.Join(lines, "")
			}
			lines = append(lines, line)
		}
	}

	connected := readEvent()
	if !strings.Contains(connected, "event: connected") || !strings.Contains(connected, `"roomId":"ROOM01"`) {
		t.Errorf("unexpected first event %q", connected)
	}

	hub.BroadcastEvent("hole_completed", `{"shots":3}`)
	if got := readEvent(); got != "event: hole_completed\ndata: {\"shots\":3}\n" {
		t.Errorf("unexpected event %q", got)
	}
}
