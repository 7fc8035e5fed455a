package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizhaus/quizhaus/internal/dependencies/clock"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// Service resolves player identities. Guests get a throwaway id per
// session; registered players authenticate with username and password
// so their hall-of-fame entries carry a stable identity.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new auth service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// CreateGuest creates a transient guest player
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	s.logger.Info("guest created", slog.String("player_id", string(player.ID)))
	return player, nil
}

// Register creates a registered player with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*model.Player, error) {
	_, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)
	return player, nil
}

// Login verifies credentials and returns the player. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Player, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.storage.GetPlayer(ctx, rp.PlayerID)
}
