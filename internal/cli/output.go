package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Output handles formatting output based on the configured format. It is
// safe for concurrent use.
type Output struct {
	format string
	w      io.Writer
	mu     sync.Mutex
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		body := map[string]any{"message": err.Error()}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			body = map[string]any{"code": apiErr.Code, "message": apiErr.Message, "status": apiErr.Status}
		}
		data, _ := json.Marshal(map[string]any{"error": body})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintEvent outputs one realtime event. JSON mode writes one object per line.
func (o *Output) PrintEvent(event, data string) {
	now := time.Now()
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		raw := json.RawMessage(data)
		if !json.Valid(raw) {
			raw, _ = json.Marshal(data)
		}
		jsonData, _ := json.Marshal(StreamEvent{Time: now, Event: event, Data: raw})
		fmt.Fprintln(o.w, string(jsonData))
		return
	}

	displayData := strings.ReplaceAll(data, "\n", " ")
	if len(displayData) > 120 {
		displayData = displayData[:120] + "..."
	}
	fmt.Fprintf(o.w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, displayData)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []RoomSummary:
		o.printRoomList(v)
	case RoomCreated:
		fmt.Fprintf(o.w, "Room created: %s\n", v.RoomID)
	case RoomDetail:
		o.printRoomDetail(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RoomSummary response type (matches API)
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasPassword bool   `json:"has_password"`
	PlayerCount int    `json:"player_count"`
}

// RoomCreated response type
type RoomCreated struct {
	RoomID string `json:"roomId"`
}

// Room response type
type Room struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	HasPassword bool       `json:"has_password"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// PlayerState mirrors an entry of players_update
type PlayerState struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BallPosition Position `json:"ballPosition"`
	Shots        int      `json:"shots"`
	Color        string   `json:"color"`
	Room         string   `json:"room"`
}

// Position is a point on the course
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoomDetail response type
type RoomDetail struct {
	Room    Room          `json:"room"`
	Players []PlayerState `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// StreamEvent is one event as printed in JSON mode
type StreamEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (o *Output) printRoomList(rooms []RoomSummary) {
	fmt.Fprintf(o.w, "%-8s %-24s %-8s %s\n", "ID", "NAME", "LOCKED", "PLAYERS")
	for _, r := range rooms {
		locked := "no"
		if r.HasPassword {
			locked = "yes"
		}
		fmt.Fprintf(o.w, "%-8s %-24s %-8s %d\n", r.ID, r.Name, locked, r.PlayerCount)
	}
}

func (o *Output) printRoomDetail(d RoomDetail) {
	fmt.Fprintf(o.w, "Room: %s (%s)\n", d.Room.Name, d.Room.ID)
	if d.Room.HasPassword {
		fmt.Fprintln(o.w, "Password: required")
	}
	if d.Room.CreatedAt != nil {
		fmt.Fprintf(o.w, "Created: %s\n", d.Room.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(o.w, "Players (%d):\n", len(d.Players))
	for _, p := range d.Players {
		fmt.Fprintf(o.w, "  - %s (%s) at (%.0f, %.0f), %d shots\n",
			p.Name, p.Color, p.BallPosition.X, p.BallPosition.Y, p.Shots)
	}
}
