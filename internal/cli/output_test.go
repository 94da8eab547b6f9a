package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputRoomListText(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print([]RoomSummary{
		{ID: "public", Name: "public", PlayerCount: 2},
		{ID: "GOLF01", Name: "Sunday", HasPassword: true},
	})

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Regexp(t, `public\s+public\s+no\s+2`, out)
	assert.Regexp(t, `GOLF01\s+Sunday\s+yes\s+0`, out)
}

func TestOutputRoomDetailText(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(RoomDetail{
		Room: Room{ID: "GOLF01", Name: "Sunday", HasPassword: true},
		Players: []PlayerState{
			{Name: "Ada", Color: "#FF5252", BallPosition: Position{X: 50, Y: 450}, Shots: 3},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Room: Sunday (GOLF01)")
	assert.Contains(t, out, "Password: required")
	assert.Contains(t, out, "Ada (#FF5252) at (50, 450), 3 shots")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).Print(RoomCreated{RoomID: "GOLF01"})

	assert.JSONEq(t, `{"roomId":"GOLF01"}`, buf.String())
}

func TestOutputPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("json", &buf)

	out.PrintEvent("player_shot", `{"power":0.5}`)
	out.PrintEvent("odd", "not json")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first StreamEvent
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "player_shot", first.Event)
	assert.JSONEq(t, `{"power":0.5}`, string(first.Data))

	var second StreamEvent
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.JSONEq(t, `"not json"`, string(second.Data))
}

func TestOutputPrintEventTextTruncates(t *testing.T) {
	var buf bytes.Buffer
	long := `"` + string(bytes.Repeat([]byte("x"), 200)) + `"`

	NewOutput("text", &buf).PrintEvent("chat_message", long)

	assert.Contains(t, buf.String(), "chat_message: ")
	assert.Contains(t, buf.String(), "...")
	assert.Less(t, buf.Len(), 200)
}
