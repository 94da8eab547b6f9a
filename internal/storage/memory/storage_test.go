package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:           "conn-1",
		Name:         "Alice",
		BallPosition: model.Position{X: 50, Y: 450},
		Color:        "#FF5252",
		Room:         model.DefaultRoom,
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(*player, *retrieved)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerReturnsCopy() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1", Shots: 1})

	retrieved, _ := s.storage.GetPlayer(s.ctx, "conn-1")
	retrieved.Shots = 99

	again, _ := s.storage.GetPlayer(s.ctx, "conn-1")
	s.Equal(1, again.Shots)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1"})

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "conn-1"))

	_, err := s.storage.GetPlayer(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeleteMissingPlayerIsNoop() {
	s.NoError(s.storage.DeletePlayer(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestListPlayersKeepsJoinOrder() {
	for _, id := range []model.ConnID{"c", "a", "b"} {
		_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: id})
	}
	// overwrite keeps the original slot
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "c", Shots: 3})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.ConnID("c"), players[0].ID)
	s.Equal(3, players[0].Shots)
	s.Equal(model.ConnID("a"), players[1].ID)
	s.Equal(model.ConnID("b"), players[2].ID)
}

func (s *StorageSuite) TestListPlayersAfterDelete() {
	for _, id := range []model.ConnID{"a", "b", "c"} {
		_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: id})
	}
	_ = s.storage.DeletePlayer(s.ctx, "b")

	players, _ := s.storage.ListPlayers(s.ctx)
	s.Require().Len(players, 2)
	s.Equal(model.ConnID("a"), players[0].ID)
	s.Equal(model.ConnID("c"), players[1].ID)

	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:           "ABC123",
		Name:         "Friday league",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(*room, *retrieved)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "ABC123"})

	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomExists(s.ctx, "NOPE00")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "ABC123"})

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABC123"))

	exists, _ := s.storage.RoomExists(s.ctx, "ABC123")
	s.False(exists)
}

func (s *StorageSuite) TestListRoomsOldestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "NEWER1", CreatedAt: base.Add(time.Minute)})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "OLDER1", CreatedAt: base})

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("OLDER1"), rooms[0].ID)
	s.Equal(model.RoomID("NEWER1"), rooms[1].ID)
}
