package redis

import (
	"fmt"

	"github.com/mcoot/minigolf-go/internal/model"
)

// Key prefix for all session data
const keyPrefix = "minigolf"

type keys struct {
	ns string
}

func newKeys(namespace string) keys {
	return keys{ns: fmt.Sprintf("%s:%s", keyPrefix, namespace)}
}

// player returns the key of a Player
func (k keys) player(id model.ConnID) string {
	return fmt.Sprintf("%s:player:%s", k.ns, id)
}

// playersIndex returns the key of the ZSET of player ids scored by join order
func (k keys) playersIndex() string {
	return fmt.Sprintf("%s:idx:players", k.ns)
}

// playerSeq returns the key of the join order counter
func (k keys) playerSeq() string {
	return fmt.Sprintf("%s:seq:players", k.ns)
}

// room returns the key of a Room
func (k keys) room(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", k.ns, id)
}

// roomsIndex returns the key of the SET of room ids
func (k keys) roomsIndex() string {
	return fmt.Sprintf("%s:idx:rooms", k.ns)
}
