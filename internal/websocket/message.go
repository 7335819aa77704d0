package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinMap   MessageType = "JOIN_MAP"
	MessageTypeLeaveMap  MessageType = "LEAVE_MAP"
	MessageTypeTokenMove MessageType = "TOKEN_MOVE"
	MessageTypeSyncState MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeStateSync    MessageType = "STATE_SYNC"
	MessageTypeTokenCreated MessageType = "TOKEN_CREATED"
	MessageTypeTokenMoved   MessageType = "TOKEN_MOVED"
	MessageTypeTokenUpdated MessageType = "TOKEN_UPDATED"
	MessageTypeTokenDeleted MessageType = "TOKEN_DELETED"
	MessageTypeRollCreated  MessageType = "ROLL_CREATED"
	MessageTypeError        MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinMapPayload struct {
	MapID string `json:"mapId"`
}

type TokenMovePayload struct {
	TokenID string `json:"tokenId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// Server to Client payloads

type StateSyncPayload struct {
	MapID       string      `json:"mapId"`
	Tokens      interface{} `json:"tokens"`
	ViewerCount int         `json:"viewerCount"`
	YourRole    string      `json:"yourRole"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
