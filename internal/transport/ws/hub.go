package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/quizhaus/quizhaus/internal/model"
)

// Hub routes outbound events to connected clients. It implements the
// game controllers' notifier contract: Broadcast fans out to every
// member of a lobby, SendTo targets a single connection.
//
// The hub has its own lock, separate from the reactor lock. Controllers
// call it with events already composed, so routing never needs game
// state and the two locks never nest in the other order.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.PlayerID]*Client
	lobbies map[model.LobbyID]map[model.PlayerID]struct{}
	logger  *slog.Logger
}

// NewHub creates a new hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]*Client),
		lobbies: make(map[model.LobbyID]map[model.PlayerID]struct{}),
		logger:  logger.With(slog.String("component", "ws_hub")),
	}
}

// Register adds a connected client
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.playerID] = client
}

// Unregister removes a client and its lobby membership
func (h *Hub) Unregister(playerID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, playerID)
	for lobbyID, members := range h.lobbies {
		delete(members, playerID)
		if len(members) == 0 {
			delete(h.lobbies, lobbyID)
		}
	}
}

// JoinLobby subscribes a client to a lobby's broadcasts
func (h *Hub) JoinLobby(lobbyID model.LobbyID, playerID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lobbies[lobbyID] == nil {
		h.lobbies[lobbyID] = make(map[model.PlayerID]struct{})
	}
	h.lobbies[lobbyID][playerID] = struct{}{}
}

// LeaveLobby unsubscribes a client from a lobby's broadcasts
func (h *Hub) LeaveLobby(lobbyID model.LobbyID, playerID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members := h.lobbies[lobbyID]; members != nil {
		delete(members, playerID)
		if len(members) == 0 {
			delete(h.lobbies, lobbyID)
		}
	}
}

// Broadcast sends an event to every member of a lobby
func (h *Hub) Broadcast(lobbyID model.LobbyID, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed",
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for playerID := range h.lobbies[lobbyID] {
		if client, ok := h.clients[playerID]; ok {
			client.enqueue(data)
		}
	}
}

// SendTo sends an event to a single connected player
func (h *Hub) SendTo(playerID model.PlayerID, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed",
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[playerID]
	h.mu.RUnlock()

	if ok {
		client.enqueue(data)
	}
}
