package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
)

// TokenMover persists a token move after re-checking the caller's role.
type TokenMover interface {
	Move(ctx context.Context, tokenID, userID uuid.UUID, x, y int) (*domain.Token, error)
}

// MemberChecker resolves the caller's campaign membership or fails with the
// domain access errors.
type MemberChecker interface {
	RequireMember(ctx context.Context, campaignID, userID uuid.UUID) (*domain.CampaignMember, error)
}

type Hub struct {
	rooms      map[string]*Room
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	joinMap    chan *JoinMapRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mapRepo    repository.MapRepository
	tokenRepo  repository.TokenRepository
	access     MemberChecker
	mover      TokenMover
	mu         sync.RWMutex
}

type JoinMapRequest struct {
	Client *Client
	MapID  uuid.UUID
}

func NewHub(mapRepo repository.MapRepository, tokenRepo repository.TokenRepository) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinMap:    make(chan *JoinMapRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		mapRepo:    mapRepo,
		tokenRepo:  tokenRepo,
	}
}

// Bind wires the access gate and the token mover. The hub is constructed
// before the service layer, which in turn needs the hub as its broadcaster,
// so these two arrive late.
func (h *Hub) Bind(access MemberChecker, mover TokenMover) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.access = access
	h.mover = mover
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true

			uniqueRooms := make(map[*Room]bool)
			for _, room := range h.rooms {
				uniqueRooms[room] = true
			}
			for room := range uniqueRooms {
				room.Stop()
			}
			h.mu.Unlock()

			// Wait for all rooms to actually exit without holding the lock.
			for room := range uniqueRooms {
				room.Wait()
			}

			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[string]*Room)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()

					if client.room != nil {
						client.room.leave <- client
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.joinMap:
			h.mu.Lock()
			stopped := h.stopped
			h.mu.Unlock()
			if !stopped {
				h.handleJoinMap(req)
			}
		}
	}
}

// Stop gracefully shuts down the hub and all its rooms. It blocks until
// every room has stopped and Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// handleJoinMap checks campaign membership before the client enters the
// room; non-members are rejected the same way the REST layer rejects them.
func (h *Hub) handleJoinMap(req *JoinMapRequest) {
	ctx := context.Background()

	m, err := h.mapRepo.GetByID(ctx, req.MapID)
	if err != nil {
		req.Client.sendError("NOT_FOUND", "Map does not exist")
		return
	}

	member, err := h.access.RequireMember(ctx, m.CampaignID, req.Client.userID)
	if err != nil {
		req.Client.sendError("FORBIDDEN", "You are not a member of this campaign")
		return
	}
	req.Client.role = string(member.Role)

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.Client.room != nil {
		req.Client.room.leave <- req.Client
	}

	room, exists := h.rooms[req.MapID.String()]
	if !exists {
		room = NewRoom(req.MapID, h.tokenRepo, h.mover)
		h.rooms[req.MapID.String()] = room
		go room.Run()
		log.Printf("INFO [websocket.Hub] opened room for map %s", req.MapID)
	}

	req.Client.room = room
	room.join <- req.Client
}

// BroadcastToMap delivers a server event to the map's room, if anyone is
// listening. It satisfies the service layer's broadcaster.
func (h *Hub) BroadcastToMap(mapID uuid.UUID, event string, payload interface{}) {
	h.mu.RLock()
	room := h.rooms[mapID.String()]
	h.mu.RUnlock()
	if room == nil {
		return
	}

	msg, err := NewMessage(MessageType(event), payload)
	if err != nil {
		log.Printf("ERROR [websocket.Hub] encode %s for map %s: %v", event, mapID, err)
		return
	}
	room.Broadcast(msg)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister hands the client to the hub loop, which is always draining the
// channel until Run exits; once it has, the shutdown path already closed
// every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
