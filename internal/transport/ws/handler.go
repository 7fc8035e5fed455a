package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/services/game"
	"github.com/quizhaus/quizhaus/internal/services/lobby"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
)

// Handler upgrades HTTP requests to websocket sessions and translates
// between the wire protocol and the controllers. Each connection gets a
// session-scoped player id; dropping the connection leaves the lobby.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *Hub
	lobbies  *lobby.Controller
	games    *game.Controller
	bank     *questionbank.Service
	logger   *slog.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, lobbies *lobby.Controller, games *game.Controller, bank *questionbank.Service, logger *slog.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from arbitrary origins in
			// development; the game protocol carries no credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		hub:     hub,
		lobbies: lobbies,
		games:   games,
		bank:    bank,
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP handles a websocket session for its whole lifetime
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(model.PlayerID(uuid.NewString()), conn, h.logger)
	h.hub.Register(client)
	go client.writePump()

	h.logger.Info("client connected", slog.String("player_id", string(client.playerID)))
	h.readLoop(r.Context(), client)
	h.disconnect(client)
}

func (h *Handler) readLoop(ctx context.Context, client *Client) {
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed",
					slog.String("player_id", string(client.playerID)),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			h.sendError(client, model.EventLobbyError, "invalid message")
			continue
		}
		h.dispatch(ctx, client, intent)
	}
}

func (h *Handler) dispatch(ctx context.Context, client *Client, intent Intent) {
	switch intent.Type {
	case IntentCreateLobby:
		h.handleCreateLobby(ctx, client, intent.Payload)
	case IntentJoinLobby:
		h.handleJoinLobby(ctx, client, intent.Payload)
	case IntentSelectCategory:
		h.handleSelectCategory(ctx, client, intent.Payload)
	case IntentStartGame:
		h.handleStartGame(ctx, client, intent.Payload)
	case IntentSubmitAnswer:
		h.handleSubmitAnswer(ctx, client, intent.Payload)
	case IntentTogglePause:
		h.handleTogglePause(ctx, client, intent.Payload)
	case IntentSkipToEnd:
		h.handleSkipToEnd(ctx, client, intent.Payload)
	case IntentPlayAgain:
		h.handlePlayAgain(ctx, client, intent.Payload)
	default:
		h.logger.Info("unknown intent dropped",
			slog.String("player_id", string(client.playerID)),
			slog.String("type", string(intent.Type)),
		)
	}
}

func (h *Handler) handleCreateLobby(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload createLobbyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}

	created, err := h.lobbies.CreateLobby(ctx, client.playerID, payload.PlayerName)
	if err != nil {
		h.sendError(client, model.EventLobbyError, err.Error())
		return
	}

	h.leavePrevious(ctx, client, created.ID)
	client.currentLobby = created.ID
	h.hub.JoinLobby(created.ID, client.playerID)
	h.hub.SendTo(client.playerID, model.NewEvent(model.EventLobbyCreated, model.LobbyCreatedPayload{
		LobbyID:             created.ID,
		Players:             created.Players,
		PlayerID:            client.playerID,
		AvailableCategories: h.bank.Categories(),
	}))
}

func (h *Handler) handleJoinLobby(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload joinLobbyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}

	joined, err := h.lobbies.JoinLobby(ctx, payload.LobbyID, client.playerID, payload.PlayerName)
	if err != nil {
		h.sendError(client, model.EventLobbyError, err.Error())
		return
	}

	h.leavePrevious(ctx, client, joined.ID)
	client.currentLobby = joined.ID
	h.hub.JoinLobby(joined.ID, client.playerID)

	reply := model.JoinedLobbyPayload{
		LobbyID:             joined.ID,
		Players:             joined.Players,
		PlayerID:            client.playerID,
		GameState:           joined.State,
		SelectedCategory:    joined.SelectedCategory,
		AvailableCategories: h.bank.Categories(),
		IsPaused:            joined.IsPaused,
	}
	if joined.IsPaused && joined.RemainingOnPause != nil {
		remaining := joined.RemainingOnPause.Seconds()
		reply.RemainingTime = &remaining
	}
	h.hub.SendTo(client.playerID, model.NewEvent(model.EventJoinedLobby, reply))
}

func (h *Handler) handleSelectCategory(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload selectCategoryPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}
	if err := h.games.SelectCategory(ctx, payload.LobbyID, client.playerID, payload.Category); err != nil {
		h.sendError(client, model.EventLobbyError, err.Error())
	}
}

func (h *Handler) handleStartGame(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload startGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventStartGameError, "invalid payload")
		return
	}
	if err := h.games.StartGame(ctx, payload.LobbyID, client.playerID, payload.Category); err != nil {
		h.sendError(client, model.EventStartGameError, err.Error())
	}
}

func (h *Handler) handleSubmitAnswer(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload submitAnswerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}
	if err := h.games.SubmitAnswer(ctx, payload.LobbyID, client.playerID, payload.QuestionIndex, payload.Answer); err != nil {
		h.logger.Error("answer submission failed",
			slog.String("player_id", string(client.playerID)),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) handleTogglePause(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload lobbyOnlyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}
	if err := h.games.TogglePause(ctx, payload.LobbyID, client.playerID); err != nil {
		h.sendError(client, model.EventLobbyError, err.Error())
	}
}

func (h *Handler) handleSkipToEnd(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload lobbyOnlyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventSkipToEndError, "invalid payload")
		return
	}
	if err := h.games.SkipToEnd(ctx, payload.LobbyID, client.playerID); err != nil {
		h.sendError(client, model.EventSkipToEndError, err.Error())
	}
}

func (h *Handler) handlePlayAgain(ctx context.Context, client *Client, raw json.RawMessage) {
	var payload lobbyOnlyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(client, model.EventLobbyError, "invalid payload")
		return
	}
	if err := h.games.PlayAgain(ctx, payload.LobbyID, client.playerID, h.bank.Categories()); err != nil {
		h.sendError(client, model.EventLobbyError, err.Error())
	}
}

// leavePrevious removes the client from the lobby it was in before
// switching to another one. A session belongs to one lobby at a time;
// without this a switch would strand a ghost roster entry.
func (h *Handler) leavePrevious(ctx context.Context, client *Client, next model.LobbyID) {
	prev := client.currentLobby
	if prev == "" || prev == next {
		return
	}
	if err := h.lobbies.LeaveLobby(ctx, prev, client.playerID); err != nil {
		h.logger.Error("leave previous lobby failed",
			slog.String("player_id", string(client.playerID)),
			slog.String("lobby_id", string(prev)),
			slog.String("error", err.Error()),
		)
	}
	h.hub.LeaveLobby(prev, client.playerID)
}

func (h *Handler) sendError(client *Client, eventType model.EventType, message string) {
	h.hub.SendTo(client.playerID, model.NewEvent(eventType, model.ErrorPayload{Message: message}))
}

// disconnect tears the session down: the player leaves their lobby as
// if they had sent an explicit leave
func (h *Handler) disconnect(client *Client) {
	if client.currentLobby != "" {
		if err := h.lobbies.LeaveLobby(context.Background(), client.currentLobby, client.playerID); err != nil {
			h.logger.Error("leave on disconnect failed",
				slog.String("player_id", string(client.playerID)),
				slog.String("lobby_id", string(client.currentLobby)),
				slog.String("error", err.Error()),
			)
		}
		h.hub.LeaveLobby(client.currentLobby, client.playerID)
	}
	h.hub.Unregister(client.playerID)
	client.close()
	h.logger.Info("client disconnected", slog.String("player_id", string(client.playerID)))
}
