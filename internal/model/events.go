package model

// EventType names an event on the client channel. Names are shared with the
// browser client and must not change.
type EventType string

const (
	// Inbound events (client -> server)
	EventPlayerJoin EventType = "player_join"
	EventShot       EventType = "player_shot"
	EventChat       EventType = "chat_message"
	EventCreateRoom EventType = "create_room"
	EventJoinRoom   EventType = "join_room"

	// Outbound events (server -> client). player_shot and chat_message are
	// relayed under their inbound names.
	EventPlayersUpdate EventType = "players_update"
	EventHoleCompleted EventType = "hole_completed"
	EventRoomCreated   EventType = "room_created"
	EventRoomJoined    EventType = "room_joined"
)

// ChatType distinguishes server notices from player messages
type ChatType string

const (
	ChatSystem ChatType = "system"
	ChatPlayer ChatType = "player"
)

// Inbound payloads

// JoinRequest is the payload of player_join
type JoinRequest struct {
	Name string `json:"name,omitempty"`
	Room RoomID `json:"room,omitempty"`
}

// ShotRequest is the payload of player_shot
type ShotRequest struct {
	StartPos *Position `json:"startPos"`
	EndPos   *Position `json:"endPos"`
	Power    float64   `json:"power"`
}

// ChatRequest is the payload of an inbound chat_message
type ChatRequest struct {
	Message string `json:"message"`
}

// CreateRoomRequest is the payload of create_room
type CreateRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// JoinRoomRequest is the payload of join_room
type JoinRoomRequest struct {
	RoomID   RoomID `json:"roomId"`
	Password string `json:"password,omitempty"`
}

// Outbound payloads

// PlayerState is one entry of a players_update list
type PlayerState struct {
	ID           ConnID   `json:"id"`
	Name         string   `json:"name"`
	BallPosition Position `json:"ballPosition"`
	Shots        int      `json:"shots"`
	Color        string   `json:"color"`
	Room         RoomID   `json:"room"`
}

// ChatPayload is an outbound chat_message
type ChatPayload struct {
	Player  string   `json:"player"`
	Message string   `json:"message"`
	Type    ChatType `json:"type"`
}

// ShotPayload is the player_shot relay sent to the other players
type ShotPayload struct {
	PlayerID   ConnID    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	StartPos   *Position `json:"startPos"`
	EndPos     *Position `json:"endPos"`
	Power      float64   `json:"power"`
}

// HoleCompletedPayload announces a ball in the hole
type HoleCompletedPayload struct {
	PlayerID   ConnID `json:"playerId"`
	PlayerName string `json:"playerName"`
	Shots      int    `json:"shots"`
}

// RoomCreatedPayload answers create_room
type RoomCreatedPayload struct {
	RoomID RoomID `json:"roomId"`
}

// RoomJoinedPayload answers join_room. RoomName is set on success, Error on
// failure.
type RoomJoinedPayload struct {
	Success  bool   `json:"success"`
	RoomName string `json:"roomName,omitempty"`
	Error    string `json:"error,omitempty"`
}
