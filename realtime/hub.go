package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Dosada05/portal-arena/models"
	"github.com/Dosada05/portal-arena/services"
)

type inbound struct {
	client *Client
	env    Envelope
}

// Hub is the coordinating side of the synchronization layer. One Run
// goroutine owns all room membership and applies every inbound mutation in
// arrival order, so the canonical snapshot for a room is never touched by two
// handlers at once and broadcast order matches application order.
//
// There is no conflict resolution beyond that ordering: update_tournament
// replaces the whole snapshot last-write-wins.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan inbound
	notify     chan *models.Tournament

	// done is closed when Run exits; pumps select on it so they never block
	// on a hub that is gone.
	done chan struct{}

	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	service services.TournamentService
	logger  *slog.Logger
}

func NewHub(service services.TournamentService, logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan inbound),
		notify:     make(chan *models.Tournament, 16),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		service:    service,
		logger:     logger,
	}
}

// Register hands a new connection to the hub goroutine. A connection arriving
// after shutdown is closed immediately.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.closeSend()
	}
}

// PushState hands an out-of-band snapshot (e.g. from a REST mutation) to the
// hub goroutine for fan-out to the tournament's room. Safe to call from any
// goroutine; snapshots arriving after shutdown are dropped.
func (h *Hub) PushState(t *models.Tournament) {
	select {
	case h.notify <- t:
	case <-h.done:
	}
}

// Run processes registrations and protocol events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				c.closeSend()
			}
			return nil
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.events:
			h.handleEvent(ctx, ev.client, ev.env)
		case t := <-h.notify:
			h.broadcastToRoom(t.ID, Envelope{Type: MsgTournamentState, ID: t.ID, Tournament: t}, nil)
		}
	}
}

func (h *Hub) removeClient(c *Client) {
	if !h.clients[c] {
		return
	}
	for id := range c.rooms {
		h.leaveRoom(c, id)
	}
	delete(h.clients, c)
	c.closeSend()
}

func (h *Hub) joinRoom(c *Client, id string) {
	if id == "" {
		return
	}
	if _, ok := h.rooms[id]; !ok {
		h.rooms[id] = make(map[*Client]bool)
	}
	h.rooms[id][c] = true
	c.rooms[id] = true
	h.logger.Debug("client joined room",
		slog.String("tournament_id", id),
		slog.Int("members", len(h.rooms[id])))
}

func (h *Hub) leaveRoom(c *Client, id string) {
	members, ok := h.rooms[id]
	if !ok {
		return
	}
	delete(members, c)
	delete(c.rooms, id)
	if len(members) == 0 {
		delete(h.rooms, id)
	}
}

func (h *Hub) handleEvent(ctx context.Context, c *Client, env Envelope) {
	switch env.Type {
	case MsgCheckTournament:
		exists := h.service.Exists(ctx, env.ID)
		h.send(c, Envelope{Type: MsgCheckResult, ID: env.ID, Exists: &exists})

	case MsgJoinTournament:
		h.joinRoom(c, env.ID)
		if t, err := h.service.GetByID(ctx, env.ID); err == nil {
			h.send(c, Envelope{Type: MsgTournamentState, ID: t.ID, Tournament: t})
		}

	case MsgLeaveTournament:
		h.leaveRoom(c, env.ID)

	case MsgCreateTournament:
		if env.Tournament == nil || env.Tournament.ID == "" {
			h.sendError(c, "create_tournament requires a tournament with an id")
			return
		}
		if !c.capability.CanAdminister(env.Tournament.ID) {
			h.sendError(c, "capability does not allow creating this tournament")
			return
		}
		h.service.Replace(ctx, env.Tournament)

	case MsgUpdateTournament:
		id := env.ID
		if id == "" && env.Tournament != nil {
			id = env.Tournament.ID
		}
		if env.Tournament == nil || id == "" || env.Tournament.ID != id {
			h.sendError(c, "update_tournament requires a matching id and tournament")
			return
		}
		if !c.capability.CanMutate(id) {
			h.sendError(c, "capability does not allow updating this tournament")
			return
		}
		h.service.Replace(ctx, env.Tournament)
		// The originator already holds the post-mutation state; only peers
		// need the rebroadcast.
		h.broadcastToRoom(id, Envelope{Type: MsgTournamentState, ID: id, Tournament: env.Tournament}, c)

	default:
		h.sendError(c, "unknown message type: "+env.Type)
	}
}

func (h *Hub) send(c *Client, env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal envelope", slog.Any("error", err))
		return
	}
	if !c.enqueue(frame) {
		h.logger.Warn("client send buffer full, frame dropped",
			slog.String("type", env.Type))
	}
}

func (h *Hub) sendError(c *Client, message string) {
	h.send(c, Envelope{Type: MsgError, Message: message})
}

func (h *Hub) broadcastToRoom(id string, env Envelope, except *Client) {
	members, ok := h.rooms[id]
	if !ok {
		return
	}
	frame, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal envelope", slog.Any("error", err))
		return
	}
	for c := range members {
		if c == except {
			continue
		}
		if !c.enqueue(frame) {
			h.logger.Warn("client send buffer full, frame dropped",
				slog.String("tournament_id", id))
		}
	}
}
