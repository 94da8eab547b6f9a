package room

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/minigolf-go/internal/dependencies/clock"
	"github.com/mcoot/minigolf-go/internal/dependencies/random"
	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/storage"
)

const (
	// IDLength is the length of generated room ids
	IDLength = 6
	// IDAlphabet is the characters used in room ids
	IDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// MaxIDAttempts bounds the collision retry loop in Create
	MaxIDAttempts = 16
)

// Config tunes the room registry
type Config struct {
	// BcryptCost is the work factor for room password hashes
	BcryptCost int
	// IdleTTL is how long an empty room survives before SweepIdle removes
	// it. Zero disables sweeping.
	IdleTTL time.Duration
}

// DefaultConfig returns the production room settings
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
		IdleTTL:    30 * time.Minute,
	}
}

// Registry creates rooms and checks access to them. It is safe for concurrent
// use; password hashing never runs under a lock.
type Registry struct {
	// idMu makes id allocation and the save that claims it one step
	idMu    sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// New creates a new room Registry
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		random:  random,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "room-registry")),
	}
}

// Create registers a new room under a fresh id. An empty password leaves the
// room open; any other password is accepted whatever its length.
func (r *Registry) Create(ctx context.Context, name, password string) (*model.Room, error) {
	room := &model.Room{Name: name}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword(passwordKey(password), r.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash room password: %w", err)
		}
		room.PasswordHash = string(hash)
	}

	r.idMu.Lock()
	defer r.idMu.Unlock()

	id, err := r.generateID(ctx)
	if err != nil {
		return nil, err
	}
	room.ID = id
	room.CreatedAt = r.clock.Now()

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("save room: %w", err)
	}

	r.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.Bool("has_password", room.HasPassword()),
	)
	return room, nil
}

// passwordKey digests a password down to 44 printable bytes. bcrypt refuses
// input longer than 72 bytes.
func passwordKey(password string) []byte {
	sum := blake2b.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (r *Registry) generateID(ctx context.Context) (model.RoomID, error) {
	for range MaxIDAttempts {
		id := model.RoomID(r.random.String(IDLength, IDAlphabet))
		exists, err := r.storage.RoomExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check room id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", model.ErrRoomIDExhausted
}

// Find returns the room with the given id. The default room is always found.
func (r *Registry) Find(ctx context.Context, id model.RoomID) (*model.Room, error) {
	if id == model.DefaultRoom {
		return model.NewDefaultRoom(), nil
	}
	return r.storage.GetRoom(ctx, id)
}

// Exists reports whether id names the default room or a created room
func (r *Registry) Exists(ctx context.Context, id model.RoomID) (bool, error) {
	if id == model.DefaultRoom {
		return true, nil
	}
	return r.storage.RoomExists(ctx, id)
}

// Join checks that the room exists and that password opens it. It does not
// move any player.
func (r *Registry) Join(ctx context.Context, id model.RoomID, password string) (*model.Room, error) {
	room, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.HasPassword() {
		return room, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), passwordKey(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, model.ErrWrongPassword
		}
		return nil, fmt.Errorf("compare room password: %w", err)
	}
	return room, nil
}

// Vacate records that a player left the room, restarting its idle clock.
// Rooms that no longer exist are ignored.
func (r *Registry) Vacate(ctx context.Context, id model.RoomID) error {
	if id == model.DefaultRoom {
		return nil
	}
	room, err := r.storage.GetRoom(ctx, id)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	room.VacatedAt = r.clock.Now()
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}

// List returns every room, the default room first
func (r *Registry) List(ctx context.Context) ([]*model.Room, error) {
	created, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return append([]*model.Room{model.NewDefaultRoom()}, created...), nil
}

// SweepIdle deletes rooms that have no players and have been idle for the
// idle TTL, counted from creation or from the last departure. occupied maps
// room ids to their current player counts. It returns the ids that were
// removed.
func (r *Registry) SweepIdle(ctx context.Context, now time.Time, occupied map[model.RoomID]int) ([]model.RoomID, error) {
	if r.cfg.IdleTTL <= 0 {
		return nil, nil
	}

	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	var removed []model.RoomID
	for _, room := range rooms {
		if room.IsDefault() || occupied[room.ID] > 0 {
			continue
		}
		if now.Sub(room.IdleSince()) < r.cfg.IdleTTL {
			continue
		}
		if err := r.storage.DeleteRoom(ctx, room.ID); err != nil {
			return removed, fmt.Errorf("delete room %s: %w", room.ID, err)
		}
		removed = append(removed, room.ID)
	}

	if len(removed) > 0 {
		r.logger.Info("swept idle rooms", slog.Int("count", len(removed)))
	}
	return removed, nil
}
