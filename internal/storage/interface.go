package storage

import (
	"context"
	"slices"
	"strings"

	"github.com/mcoot/minigolf-go/internal/model"
)

// Storage defines the interface for session state. Implementations copy
// values in and out, so callers must Save after mutating.
type Storage interface {
	// Player operations. SavePlayer inserts or overwrites; an overwrite keeps
	// the player's original position in join order.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.ConnID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.ConnID) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	CountPlayers(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
}

// SortRooms orders rooms oldest first, breaking ties by id, so listings are
// stable across backends
func SortRooms(rooms []*model.Room) {
	slices.SortFunc(rooms, func(a, b *model.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
