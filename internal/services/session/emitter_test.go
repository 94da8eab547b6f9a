package session

import (
	"sync"

	"github.com/mcoot/minigolf-go/internal/model"
)

type delivery struct {
	Event   model.EventType
	Payload any
}

type roomEmission struct {
	Room    model.RoomID
	Event   model.EventType
	Payload any
}

// recordingEmitter keeps broadcast groups like the real hub and files every
// delivery into a per-connection inbox
type recordingEmitter struct {
	mu      sync.Mutex
	groups  map[model.RoomID]map[model.ConnID]bool
	inboxes map[model.ConnID][]delivery
	rooms   []roomEmission
}

var _ Emitter = (*recordingEmitter)(nil)

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{
		groups:  make(map[model.RoomID]map[model.ConnID]bool),
		inboxes: make(map[model.ConnID][]delivery),
	}
}

func (e *recordingEmitter) Emit(to model.ConnID, event model.EventType, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inboxes[to] = append(e.inboxes[to], delivery{event, payload})
}

func (e *recordingEmitter) EmitToRoom(roomID model.RoomID, event model.EventType, payload any) {
	e.EmitToRoomExcept(roomID, "", event, payload)
}

func (e *recordingEmitter) EmitToRoomExcept(roomID model.RoomID, except model.ConnID, event model.EventType, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rooms = append(e.rooms, roomEmission{roomID, event, payload})
	for id := range e.groups[roomID] {
		if id == except {
			continue
		}
		e.inboxes[id] = append(e.inboxes[id], delivery{event, payload})
	}
}

func (e *recordingEmitter) JoinGroup(id model.ConnID, roomID model.RoomID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.groups[roomID] == nil {
		e.groups[roomID] = make(map[model.ConnID]bool)
	}
	e.groups[roomID][id] = true
}

func (e *recordingEmitter) LeaveGroup(id model.ConnID, roomID model.RoomID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.groups[roomID], id)
}

func (e *recordingEmitter) inGroup(id model.ConnID, roomID model.RoomID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groups[roomID][id]
}

// received returns the payloads of the given event delivered to id
func (e *recordingEmitter) received(id model.ConnID, event model.EventType) []any {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []any
	for _, d := range e.inboxes[id] {
		if d.Event == event {
			out = append(out, d.Payload)
		}
	}
	return out
}

// lastToRoom returns the payload of the most recent room emission of event
func (e *recordingEmitter) lastToRoom(roomID model.RoomID, event model.EventType) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.rooms) - 1; i >= 0; i-- {
		if e.rooms[i].Room == roomID && e.rooms[i].Event == event {
			return e.rooms[i].Payload, true
		}
	}
	return nil, false
}

func (e *recordingEmitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inboxes = make(map[model.ConnID][]delivery)
	e.rooms = nil
}
