package response

import (
	"time"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/services/session"
)

// RoomSummary is one entry of the room listing
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasPassword bool   `json:"has_password"`
	PlayerCount int    `json:"player_count"`
}

// RoomSummariesFromInfos converts controller room infos to listing entries
func RoomSummariesFromInfos(infos []session.RoomInfo) []RoomSummary {
	out := make([]RoomSummary, len(infos))
	for i, info := range infos {
		out[i] = RoomSummary{
			ID:          string(info.Room.ID),
			Name:        info.Room.Name,
			HasPassword: info.Room.HasPassword(),
			PlayerCount: info.PlayerCount,
		}
	}
	return out
}

// Room is the room metadata exposed over HTTP. The password hash never leaves the server.
type Room struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	HasPassword bool       `json:"has_password"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	room := Room{
		ID:          string(r.ID),
		Name:        r.Name,
		HasPassword: r.HasPassword(),
	}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		room.CreatedAt = &created
	}
	return room
}

// RoomDetail is a room together with the players currently in it
type RoomDetail struct {
	Room    Room                `json:"room"`
	Players []model.PlayerState `json:"players"`
}

// RoomCreated is returned after creating a room
type RoomCreated struct {
	RoomID string `json:"roomId"`
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
}
