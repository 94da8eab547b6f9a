package player

import (
	"context"
	"fmt"

	"github.com/mcoot/minigolf-go/internal/dependencies/clock"
	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/storage"
)

// Layout of the tee area. Each new ball is placed StartSpacing units to the
// right of the previous one.
const (
	StartX       = 50
	StartY       = 450
	StartSpacing = 30

	// DefaultNamePrefix is used when a player joins without a name
	DefaultNamePrefix = "Giocatore"
)

// Registry maps connections to players
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new player Registry
func New(storage storage.Storage, clock clock.Clock) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
	}
}

// Join creates the player for a connection, replacing any earlier entry for
// the same id. Defaults are derived from the registry size at call time.
func (r *Registry) Join(ctx context.Context, id model.ConnID, name string, room model.RoomID) (*model.Player, error) {
	n, err := r.storage.CountPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("%s%d", DefaultNamePrefix, n+1)
	}
	if room == "" {
		room = model.DefaultRoom
	}

	p := &model.Player{
		ID:           id,
		Name:         name,
		BallPosition: model.Position{X: float64(StartX + n*StartSpacing), Y: StartY},
		Shots:        0,
		Color:        model.PaletteColor(n),
		Room:         room,
		JoinedAt:     r.clock.Now(),
	}

	if err := r.storage.SavePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return p, nil
}

// Get returns the player for a connection, or model.ErrPlayerNotFound
func (r *Registry) Get(ctx context.Context, id model.ConnID) (*model.Player, error) {
	return r.storage.GetPlayer(ctx, id)
}

// Remove deletes the player for a connection. Removing an unknown id is not
// an error.
func (r *Registry) Remove(ctx context.Context, id model.ConnID) error {
	return r.storage.DeletePlayer(ctx, id)
}

// ListByRoom returns the players whose room is roomID, in join order
func (r *Registry) ListByRoom(ctx context.Context, roomID model.RoomID) ([]*model.Player, error) {
	all, err := r.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]*model.Player, 0, len(all))
	for _, p := range all {
		if p.Room == roomID {
			players = append(players, p)
		}
	}
	return players, nil
}

// CountByRoom returns the number of players in every occupied room
func (r *Registry) CountByRoom(ctx context.Context) (map[model.RoomID]int, error) {
	all, err := r.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.RoomID]int)
	for _, p := range all {
		counts[p.Room]++
	}
	return counts, nil
}

// Count returns the number of connected players
func (r *Registry) Count(ctx context.Context) (int, error) {
	return r.storage.CountPlayers(ctx)
}

// RecordShot moves the player's ball to end and adds one to the shot count
func (r *Registry) RecordShot(ctx context.Context, id model.ConnID, end model.Position) (*model.Player, error) {
	p, err := r.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	p.BallPosition = end
	p.Shots++
	if err := r.storage.SavePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return p, nil
}

// MoveTo reassigns the player's room
func (r *Registry) MoveTo(ctx context.Context, id model.ConnID, roomID model.RoomID) (*model.Player, error) {
	p, err := r.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Room = roomID
	if err := r.storage.SavePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return p, nil
}
