package storage

import (
	"context"

	"github.com/quizhaus/quizhaus/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Lobby operations
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error)
	DeleteLobby(ctx context.Context, id model.LobbyID) error
	LobbyExists(ctx context.Context, id model.LobbyID) (bool, error)

	// Question set operations
	SaveQuestionSets(ctx context.Context, sets map[model.CategoryKey]model.QuestionSet) error
	GetQuestionSets(ctx context.Context) (map[model.CategoryKey]model.QuestionSet, error)

	// Hall-of-fame operations
	SaveScore(ctx context.Context, record *model.ScoreRecord) error
	TopScores(ctx context.Context, questionSet string, limit int) ([]model.ScoreRecord, error)
}
