package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/minigolf-go/internal/dependencies/clock"
	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/services/course"
	"github.com/mcoot/minigolf-go/internal/services/player"
	"github.com/mcoot/minigolf-go/internal/services/room"
)

// Emitter delivers outbound events to connections. Implementations must not
// block: handlers call it while holding the controller lock.
type Emitter interface {
	Emit(to model.ConnID, event model.EventType, payload any)
	EmitToRoom(roomID model.RoomID, event model.EventType, payload any)
	EmitToRoomExcept(roomID model.RoomID, except model.ConnID, event model.EventType, payload any)
	JoinGroup(id model.ConnID, roomID model.RoomID)
	LeaveGroup(id model.ConnID, roomID model.RoomID)
}

// RoomInfo is a room together with its current head count
type RoomInfo struct {
	Room        *model.Room
	PlayerCount int
}

// Controller is the session manager. It owns the player and room registries
// and runs every inbound event to completion before the next one starts.
// Password hashing and checking happen before the lock is taken, so a slow
// bcrypt never holds up the rest of the server.
type Controller struct {
	mu        sync.Mutex
	players   *player.Registry
	rooms     *room.Registry
	hole      course.Hole
	emitter   Emitter
	clock     clock.Clock
	logger    *slog.Logger
	sweepHook []func(removed []model.RoomID)
}

// NewController creates a new session Controller
func NewController(
	players *player.Registry,
	rooms *room.Registry,
	hole course.Hole,
	emitter Emitter,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		players: players,
		rooms:   rooms,
		hole:    hole,
		emitter: emitter,
		clock:   clock,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// OnSweep registers fn to run after every janitor sweep
func (c *Controller) OnSweep(fn func(removed []model.RoomID)) {
	c.sweepHook = append(c.sweepHook, fn)
}

// Dispatch decodes an inbound event and runs its handler. Unknown events and
// payloads that do not decode are dropped.
func (c *Controller) Dispatch(ctx context.Context, id model.ConnID, event model.EventType, data json.RawMessage) {
	var err error
	switch event {
	case model.EventPlayerJoin:
		var req model.JoinRequest
		if err = decode(data, &req); err == nil {
			err = c.Join(ctx, id, req)
		}
	case model.EventShot:
		var req model.ShotRequest
		if err = decode(data, &req); err == nil {
			err = c.Shot(ctx, id, req)
		}
	case model.EventChat:
		var req model.ChatRequest
		if err = decode(data, &req); err == nil {
			err = c.Chat(ctx, id, req)
		}
	case model.EventCreateRoom:
		var req model.CreateRoomRequest
		if err = decode(data, &req); err == nil {
			err = c.CreateRoom(ctx, id, req)
		}
	case model.EventJoinRoom:
		var req model.JoinRoomRequest
		if err = decode(data, &req); err == nil {
			err = c.JoinRoom(ctx, id, req)
		}
	default:
		c.logger.Debug("unknown event dropped",
			slog.String("conn_id", string(id)),
			slog.String("event", string(event)))
		return
	}

	if err != nil {
		c.logger.Error("event failed",
			slog.String("conn_id", string(id)),
			slog.String("event", string(event)),
			slog.Any("error", err))
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Join creates or replaces the player for a connection and announces them to
// their room. An unknown room falls back to the default one.
func (c *Controller) Join(ctx context.Context, id model.ConnID, req model.JoinRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	roomID := req.Room
	if roomID == "" {
		roomID = model.DefaultRoom
	}
	exists, err := c.rooms.Exists(ctx, roomID)
	if err != nil {
		return fmt.Errorf("check room: %w", err)
	}
	if !exists {
		c.logger.Debug("join to unknown room, using default",
			slog.String("conn_id", string(id)),
			slog.String("room_id", string(roomID)))
		roomID = model.DefaultRoom
	}

	var oldRoom model.RoomID
	prev, err := c.players.Get(ctx, id)
	switch {
	case err == nil:
		oldRoom = prev.Room
	case !errors.Is(err, model.ErrPlayerNotFound):
		return fmt.Errorf("get player: %w", err)
	}

	p, err := c.players.Join(ctx, id, req.Name, roomID)
	if err != nil {
		return err
	}

	if oldRoom != "" && oldRoom != p.Room {
		c.emitter.LeaveGroup(id, oldRoom)
		if err := c.leaveRoom(ctx, oldRoom); err != nil {
			return err
		}
	}
	c.emitter.JoinGroup(id, p.Room)

	if err := c.broadcastPlayers(ctx, p.Room); err != nil {
		return err
	}
	c.emitter.EmitToRoom(p.Room, model.EventChat, SystemMessage(joinedText(p.Name)))

	c.logger.Info("player joined",
		slog.String("conn_id", string(id)),
		slog.String("name", p.Name),
		slog.String("room_id", string(p.Room)))
	return nil
}

// Shot moves the shooter's ball, relays the shot to the rest of the room and
// announces a completed hole
func (c *Controller) Shot(ctx context.Context, id model.ConnID, req model.ShotRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.EndPos == nil {
		c.logger.Debug("shot without end position dropped", slog.String("conn_id", string(id)))
		return nil
	}

	p, err := c.players.RecordShot(ctx, id, *req.EndPos)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.emitter.EmitToRoomExcept(p.Room, id, model.EventShot, ShotRelay(p, req))

	// fires on every shot that ends in the cup, not only the first
	if c.hole.Contains(p.BallPosition) {
		c.emitter.EmitToRoom(p.Room, model.EventHoleCompleted, HoleCompleted(p))
		c.emitter.EmitToRoom(p.Room, model.EventChat, SystemMessage(completedText(p.Name, p.Shots)))
		c.logger.Info("hole completed",
			slog.String("conn_id", string(id)),
			slog.Int("shots", p.Shots))
	}
	return nil
}

// Chat relays a player's message to their room
func (c *Controller) Chat(ctx context.Context, id model.ConnID, req model.ChatRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.players.Get(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.emitter.EmitToRoom(p.Room, model.EventChat, PlayerMessage(p.Name, req.Message))
	return nil
}

// CreateRoom registers a room and tells the requester its id. The requester
// does not enter the room.
func (c *Controller) CreateRoom(ctx context.Context, id model.ConnID, req model.CreateRoomRequest) error {
	r, err := c.rooms.Create(ctx, req.Name, req.Password)
	if err != nil {
		return err
	}

	c.emitter.Emit(id, model.EventRoomCreated, model.RoomCreatedPayload{RoomID: r.ID})
	return nil
}

// JoinRoom moves a player into another room. Failures are reported to the
// requester only and leave membership unchanged. The room and password are
// checked first, so a connection that never joined still hears why it was
// refused.
func (c *Controller) JoinRoom(ctx context.Context, id model.ConnID, req model.JoinRoomRequest) error {
	r, err := c.rooms.Join(ctx, req.RoomID, req.Password)
	if err != nil {
		return c.rejectJoin(id, req.RoomID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// the janitor may have swept the room while the password was checked
	exists, err := c.rooms.Exists(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("check room: %w", err)
	}
	if !exists {
		return c.rejectJoin(id, r.ID, model.ErrRoomNotFound)
	}

	p, err := c.players.Get(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	oldRoom := p.Room
	if _, err := c.players.MoveTo(ctx, id, r.ID); err != nil {
		return err
	}
	if oldRoom != r.ID {
		c.emitter.LeaveGroup(id, oldRoom)
	}
	c.emitter.JoinGroup(id, r.ID)

	c.emitter.Emit(id, model.EventRoomJoined, RoomJoinedOK(r))
	if err := c.broadcastPlayers(ctx, r.ID); err != nil {
		return err
	}
	if oldRoom != r.ID {
		if err := c.leaveRoom(ctx, oldRoom); err != nil {
			return err
		}
	}

	c.logger.Info("player changed room",
		slog.String("conn_id", string(id)),
		slog.String("from", string(oldRoom)),
		slog.String("to", string(r.ID)))
	return nil
}

func (c *Controller) rejectJoin(id model.ConnID, roomID model.RoomID, err error) error {
	payload, ok := RoomJoinedFailed(err)
	if !ok {
		return err
	}
	c.emitter.Emit(id, model.EventRoomJoined, payload)
	c.logger.Info("room join rejected",
		slog.String("conn_id", string(id)),
		slog.String("room_id", string(roomID)),
		slog.String("reason", err.Error()))
	return nil
}

// Disconnect forgets the player behind a closed connection and tells the
// room they left
func (c *Controller) Disconnect(ctx context.Context, id model.ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.players.Get(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := c.players.Remove(ctx, id); err != nil {
		return err
	}
	c.emitter.LeaveGroup(id, p.Room)

	if err := c.leaveRoom(ctx, p.Room); err != nil {
		return err
	}
	c.emitter.EmitToRoom(p.Room, model.EventChat, SystemMessage(leftText(p.Name)))

	attrs := []any{
		slog.String("conn_id", string(id)),
		slog.String("name", p.Name),
	}
	if count, err := c.players.Count(ctx); err != nil {
		c.logger.Warn("count players", slog.Any("error", err))
	} else {
		attrs = append(attrs, slog.Int("remaining", count))
	}
	c.logger.Info("player left", attrs...)
	return nil
}

// leaveRoom restarts the idle clock of a room a player just left and shows
// the remaining players the new line-up
func (c *Controller) leaveRoom(ctx context.Context, roomID model.RoomID) error {
	if err := c.rooms.Vacate(ctx, roomID); err != nil {
		return fmt.Errorf("vacate room: %w", err)
	}
	return c.broadcastPlayers(ctx, roomID)
}

func (c *Controller) broadcastPlayers(ctx context.Context, roomID model.RoomID) error {
	players, err := c.players.ListByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	c.emitter.EmitToRoom(roomID, model.EventPlayersUpdate, PlayersUpdate(players))
	return nil
}

// Read side, used by the HTTP surfaces

// Rooms lists every room with its head count
func (c *Controller) Rooms(ctx context.Context) ([]RoomInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := c.players.CountByRoom(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]RoomInfo, len(rooms))
	for i, r := range rooms {
		infos[i] = RoomInfo{Room: r, PlayerCount: counts[r.ID]}
	}
	return infos, nil
}

// Authorize checks that password opens the room
func (c *Controller) Authorize(ctx context.Context, roomID model.RoomID, password string) (*model.Room, error) {
	return c.rooms.Join(ctx, roomID, password)
}

// RoomSnapshot returns a room and its players, checking the password first
func (c *Controller) RoomSnapshot(ctx context.Context, roomID model.RoomID, password string) (*model.Room, []model.PlayerState, error) {
	r, err := c.rooms.Join(ctx, roomID, password)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	players, err := c.players.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	return r, PlayersUpdate(players), nil
}

// NewRoom creates a room outside of any connection
func (c *Controller) NewRoom(ctx context.Context, name, password string) (*model.Room, error) {
	return c.rooms.Create(ctx, name, password)
}

// SweepRooms removes idle empty rooms
func (c *Controller) SweepRooms(ctx context.Context, now time.Time) ([]model.RoomID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts, err := c.players.CountByRoom(ctx)
	if err != nil {
		return nil, err
	}
	return c.rooms.SweepIdle(ctx, now, counts)
}

// RunJanitor sweeps idle rooms every interval until ctx is done
func (c *Controller) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.SweepRooms(ctx, c.clock.Now())
			if err != nil {
				c.logger.Error("room sweep failed", slog.Any("error", err))
				continue
			}
			for _, fn := range c.sweepHook {
				fn(removed)
			}
		}
	}
}
