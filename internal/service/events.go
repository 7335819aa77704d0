package service

import "github.com/google/uuid"

// Event names relayed to map rooms.
const (
	EventTokenCreated = "TOKEN_CREATED"
	EventTokenMoved   = "TOKEN_MOVED"
	EventTokenUpdated = "TOKEN_UPDATED"
	EventTokenDeleted = "TOKEN_DELETED"
	EventRollCreated  = "ROLL_CREATED"
)

// Broadcaster delivers an event to every subscriber of a map room.
// Delivery is fire-and-forget: a failed broadcast never rolls back the
// mutation that produced it.
type Broadcaster interface {
	BroadcastToMap(mapID uuid.UUID, event string, payload interface{})
}

// NopBroadcaster is used where no realtime layer is wired (tests, batch
// tools).
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastToMap(mapID uuid.UUID, event string, payload interface{}) {}
