package model

import "time"

// RoomID identifies a room. Either DefaultRoom or a generated code.
type RoomID string

// DefaultRoom always exists, even though it is never created
const DefaultRoom RoomID = "public"

// Room holds room metadata. Membership is not stored here: a player belongs
// to the room named by Player.Room.
type Room struct {
	ID           RoomID
	Name         string
	PasswordHash string // empty when the room is open
	CreatedAt    time.Time
	// VacatedAt is when a player last left the room. Zero until someone has.
	VacatedAt time.Time
}

// IdleSince is when the room last had reason to stay alive: its creation or
// the most recent departure, whichever is later
func (r *Room) IdleSince() time.Time {
	if r.VacatedAt.After(r.CreatedAt) {
		return r.VacatedAt
	}
	return r.CreatedAt
}

// HasPassword reports whether joining the room requires a password
func (r *Room) HasPassword() bool {
	return r.PasswordHash != ""
}

// IsDefault reports whether this is the implicit public room
func (r *Room) IsDefault() bool {
	return r.ID == DefaultRoom
}

// NewDefaultRoom returns the metadata of the implicit public room
func NewDefaultRoom() *Room {
	return &Room{
		ID:   DefaultRoom,
		Name: string(DefaultRoom),
	}
}
