package session

import (
	"errors"
	"fmt"

	"github.com/mcoot/minigolf-go/internal/model"
)

// SystemSender is the chat author used for server notices
const SystemSender = "Sistema"

// Failure texts sent back in room_joined. The browser client shows them as is.
const (
	msgRoomNotFound  = "Stanza non trovata"
	msgWrongPassword = "Password errata"
)

// PlayersUpdate snapshots a room's players for a players_update event
func PlayersUpdate(players []*model.Player) []model.PlayerState {
	states := make([]model.PlayerState, len(players))
	for i, p := range players {
		states[i] = model.PlayerState{
			ID:           p.ID,
			Name:         p.Name,
			BallPosition: p.BallPosition,
			Shots:        p.Shots,
			Color:        p.Color,
			Room:         p.Room,
		}
	}
	return states
}

// SystemMessage builds a chat_message authored by the server
func SystemMessage(text string) model.ChatPayload {
	return model.ChatPayload{Player: SystemSender, Message: text, Type: model.ChatSystem}
}

// PlayerMessage builds a chat_message authored by a player. The text is
// relayed untouched.
func PlayerMessage(name, text string) model.ChatPayload {
	return model.ChatPayload{Player: name, Message: text, Type: model.ChatPlayer}
}

func joinedText(name string) string {
	return fmt.Sprintf("🎮 %s si è unito alla partita!", name)
}

func leftText(name string) string {
	return fmt.Sprintf("👋 %s ha lasciato la partita", name)
}

func completedText(name string, shots int) string {
	return fmt.Sprintf("🎉 %s ha completato la buca in %d colpi!", name, shots)
}

// ShotRelay builds the player_shot event forwarded to the shooter's room
func ShotRelay(p *model.Player, shot model.ShotRequest) model.ShotPayload {
	return model.ShotPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		StartPos:   shot.StartPos,
		EndPos:     shot.EndPos,
		Power:      shot.Power,
	}
}

// HoleCompleted builds the hole_completed event
func HoleCompleted(p *model.Player) model.HoleCompletedPayload {
	return model.HoleCompletedPayload{PlayerID: p.ID, PlayerName: p.Name, Shots: p.Shots}
}

// RoomJoinedOK answers a successful join_room
func RoomJoinedOK(room *model.Room) model.RoomJoinedPayload {
	return model.RoomJoinedPayload{Success: true, RoomName: room.Name}
}

// RoomJoinedFailed answers a rejected join_room. It returns false for errors
// that are not meant for the client.
func RoomJoinedFailed(err error) (model.RoomJoinedPayload, bool) {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return model.RoomJoinedPayload{Success: false, Error: msgRoomNotFound}, true
	case errors.Is(err, model.ErrWrongPassword):
		return model.RoomJoinedPayload{Success: false, Error: msgWrongPassword}, true
	default:
		return model.RoomJoinedPayload{}, false
	}
}
