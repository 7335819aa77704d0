package websocket

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
)

// Room relays events for one map. Every mutation goes through the service
// layer, which re-checks the DM rule and persists before anything is
// broadcast; the room itself never touches game state.
type Room struct {
	mapID     uuid.UUID
	clients   map[*Client]bool
	join      chan *Client
	leave     chan *Client
	broadcast chan *Message
	moveToken chan *MoveTokenRequest
	syncState chan *Client
	stop      chan struct{}
	done      chan struct{}
	tokenRepo repository.TokenRepository
	mover     TokenMover
	mu        sync.RWMutex
}

type MoveTokenRequest struct {
	Client  *Client
	Payload TokenMovePayload
}

func NewRoom(mapID uuid.UUID, tokenRepo repository.TokenRepository, mover TokenMover) *Room {
	return &Room{
		mapID:     mapID,
		clients:   make(map[*Client]bool),
		join:      make(chan *Client),
		leave:     make(chan *Client),
		broadcast: make(chan *Message, 64),
		moveToken: make(chan *MoveTokenRequest),
		syncState: make(chan *Client),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		tokenRepo: tokenRepo,
		mover:     mover,
	}
}

func (r *Room) Run() {
	defer close(r.done)

	for {
		select {
		case <-r.stop:
			r.mu.Lock()
			r.clients = make(map[*Client]bool)
			r.mu.Unlock()
			return

		case client := <-r.join:
			r.mu.Lock()
			r.clients[client] = true
			r.mu.Unlock()
			r.sendStateSync(client)

		case client := <-r.leave:
			r.mu.Lock()
			delete(r.clients, client)
			r.mu.Unlock()

		case msg := <-r.broadcast:
			r.fanOut(msg)

		case req := <-r.moveToken:
			r.handleMoveToken(req)

		case client := <-r.syncState:
			r.sendStateSync(client)
		}
	}
}

func (r *Room) Stop() {
	close(r.stop)
}

func (r *Room) Wait() {
	<-r.done
}

// Broadcast queues a message for every client in the room. It never blocks
// the caller; when the queue is full the message is dropped and clients
// recover through SYNC_STATE.
func (r *Room) Broadcast(msg *Message) {
	select {
	case r.broadcast <- msg:
	default:
		log.Printf("WARN [websocket.Room] broadcast queue full for map %s, dropping %s", r.mapID, msg.Type)
	}
}

func (r *Room) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients) == 0
}

func (r *Room) fanOut(msg *Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for client := range r.clients {
		client.Send(msg)
	}
}

func (r *Room) handleMoveToken(req *MoveTokenRequest) {
	tokenID, err := uuid.Parse(req.Payload.TokenID)
	if err != nil {
		req.Client.sendError("INVALID_PAYLOAD", "tokenId is not a valid uuid")
		return
	}

	// The moved-token broadcast arrives through the service layer on
	// success, so only failures are reported here.
	if _, err := r.mover.Move(context.Background(), tokenID, req.Client.userID, req.Payload.X, req.Payload.Y); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			req.Client.sendError("FORBIDDEN", "Only the DM can move tokens")
		case errors.Is(err, domain.ErrNotFound):
			req.Client.sendError("NOT_FOUND", "Token does not exist")
		default:
			log.Printf("ERROR [websocket.Room] move token %s: %v", tokenID, err)
			req.Client.sendError("INTERNAL", "Could not move token")
		}
	}
}

func (r *Room) sendStateSync(client *Client) {
	tokens, err := r.tokenRepo.GetByMapID(context.Background(), r.mapID)
	if err != nil {
		log.Printf("ERROR [websocket.Room] state sync for map %s: %v", r.mapID, err)
		client.sendError("INTERNAL", "Could not load map state")
		return
	}

	r.mu.RLock()
	viewers := len(r.clients)
	r.mu.RUnlock()

	msg, err := NewMessage(MessageTypeStateSync, StateSyncPayload{
		MapID:       r.mapID.String(),
		Tokens:      tokens,
		ViewerCount: viewers,
		YourRole:    client.role,
	})
	if err != nil {
		return
	}
	client.Send(msg)
}
