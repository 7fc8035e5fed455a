package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quizhaus/quizhaus/internal/dependencies/clock"
	"github.com/quizhaus/quizhaus/internal/dependencies/random"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/services/game"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
	"github.com/quizhaus/quizhaus/internal/storage"
)

const (
	// MaxPlayers caps the roster size of a single lobby
	MaxPlayers = 8

	lobbyCodeLength   = 6
	lobbyCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds collision retries during code generation
	maxCodeAttempts = 32
)

// Controller manages lobby lifecycle and the player roster: creation,
// joins, leaves and host migration. It shares the reactor lock with the
// game controller so roster changes and timer callbacks never interleave.
type Controller struct {
	mu       *sync.Mutex // reactor lock, shared with the game controller
	storage  storage.Storage
	game     *game.Controller
	bank     *questionbank.Service
	notifier game.Notifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new lobby controller
func NewController(
	mu *sync.Mutex,
	store storage.Storage,
	gameController *game.Controller,
	bank *questionbank.Service,
	notifier game.Notifier,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		mu:       mu,
		storage:  store,
		game:     gameController,
		bank:     bank,
		notifier: notifier,
		clock:    clk,
		random:   rnd,
		logger:   logger,
	}
}

// CreateLobby creates a new lobby with the creator as host and returns it
func (c *Controller) CreateLobby(ctx context.Context, playerID model.PlayerID, playerName string) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.generateCodeLocked(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	lobby := &model.Lobby{
		ID: id,
		Players: []model.LobbyPlayer{{
			ID:       playerID,
			Name:     displayName(playerID, playerName),
			IsHost:   true,
			JoinedAt: now,
		}},
		CurrentQuestion: -1,
		State:           model.GameStateWaiting,
		Answers:         make(map[int]map[model.PlayerID]model.AnswerRecord),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created",
		slog.String("lobby_id", string(id)),
		slog.String("host_id", string(playerID)),
	)
	return lobby, nil
}

// JoinLobby adds a player to an existing lobby, or refreshes their name
// if they are already on the roster (a reconnect). Joining mid-game is
// allowed; only finished lobbies reject joins.
func (c *Controller) JoinLobby(ctx context.Context, lobbyID model.LobbyID, playerID model.PlayerID, playerName string) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.State == model.GameStateFinished {
		return nil, model.ErrGameFinished
	}

	name := displayName(playerID, playerName)

	if existing := lobby.GetPlayer(playerID); existing != nil {
		existing.Name = name
		lobby.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveLobby(ctx, lobby); err != nil {
			return nil, err
		}
		c.logger.Info("player rejoined lobby",
			slog.String("lobby_id", string(lobbyID)),
			slog.String("player_id", string(playerID)),
		)
		c.broadcastJoinedLocked(lobby, playerID, name)
		return lobby, nil
	}

	if len(lobby.Players) >= MaxPlayers {
		return nil, model.ErrLobbyFull
	}

	lobby.Players = append(lobby.Players, model.LobbyPlayer{
		ID:       playerID,
		Name:     name,
		JoinedAt: c.clock.Now(),
	})
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("player joined lobby",
		slog.String("lobby_id", string(lobbyID)),
		slog.String("player_id", string(playerID)),
		slog.Int("players", len(lobby.Players)),
	)
	c.broadcastJoinedLocked(lobby, playerID, name)
	return lobby, nil
}

// LeaveLobby removes a player from a lobby. The last player leaving
// deletes the lobby and cancels its timers; a leaving host hands the
// role to the earliest remaining joiner. Unknown lobbies and players
// are ignored so disconnect cleanup is idempotent.
func (c *Controller) LeaveLobby(ctx context.Context, lobbyID model.LobbyID, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil
	}

	idx := -1
	for i := range lobby.Players {
		if lobby.Players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	leaving := lobby.Players[idx]
	lobby.Players = append(lobby.Players[:idx], lobby.Players[idx+1:]...)

	if len(lobby.Players) == 0 {
		c.game.CancelTimersLocked(lobbyID)
		if err := c.storage.DeleteLobby(ctx, lobbyID); err != nil {
			return err
		}
		c.logger.Info("empty lobby deleted", slog.String("lobby_id", string(lobbyID)))
		return nil
	}

	hostMigrated := false
	if leaving.IsHost {
		lobby.Players[0].IsHost = true
		hostMigrated = true
	}

	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("player left lobby",
		slog.String("lobby_id", string(lobbyID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("host_migrated", hostMigrated),
		slog.Int("players", len(lobby.Players)),
	)

	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventPlayerLeft, model.PlayerLeftPayload{
		Players:                lobby.Players,
		DisconnectedPlayerName: leaving.Name,
		DisconnectedPlayerID:   leaving.ID,
		SelectedCategory:       lobby.SelectedCategory,
	}))
	if hostMigrated {
		c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventHostChanged, model.HostChangedPayload{
			NewHostID:           lobby.Players[0].ID,
			Players:             lobby.Players,
			AvailableCategories: c.bank.Categories(),
			SelectedCategory:    lobby.SelectedCategory,
		}))
	}

	// A leaver may have been the last player still on the clock
	return c.game.CompleteQuestionIfAllAnsweredLocked(ctx, lobby)
}

func (c *Controller) broadcastJoinedLocked(lobby *model.Lobby, playerID model.PlayerID, name string) {
	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventPlayerJoined, model.PlayerJoinedPayload{
		Players:             lobby.Players,
		JoinedPlayerID:      playerID,
		JoinedPlayerName:    name,
		AvailableCategories: c.bank.Categories(),
		SelectedCategory:    lobby.SelectedCategory,
	}))
}

func (c *Controller) generateCodeLocked(ctx context.Context) (model.LobbyID, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		id := model.LobbyID(c.random.String(lobbyCodeLength, lobbyCodeAlphabet))
		exists, err := c.storage.LobbyExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a free lobby code after %d attempts", maxCodeAttempts)
}

// displayName falls back to a generated name when the client sent none
func displayName(playerID model.PlayerID, name string) string {
	if name != "" {
		return name
	}
	suffix := string(playerID)
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return "Spieler " + suffix
}
