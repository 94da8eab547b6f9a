package model

import "time"

// ConnID identifies a single client connection. It is assigned by the
// transport and doubles as the player's identity.
type ConnID string

// Position is a point on the course
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player is the session state of a connected golfer
type Player struct {
	ID           ConnID
	Name         string
	BallPosition Position
	Shots        int // never decreases
	Color        string
	Room         RoomID
	JoinedAt     time.Time
}

// Palette is the fixed list of ball colors handed out by join order
var Palette = []string{"#FF5252", "#2196F3", "#4CAF50", "#FF9800", "#9C27B0", "#00BCD4"}

// PaletteColor returns the color for the given join index, wrapping around
// once the palette is exhausted
func PaletteColor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}
