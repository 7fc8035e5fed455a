package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	lobbies           map[model.LobbyID]*model.Lobby
	questionSets      map[model.CategoryKey]model.QuestionSet
	scores            []model.ScoreRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		lobbies:           make(map[model.LobbyID]*model.Lobby),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.ID] = lobby
	return nil
}

func (s *Storage) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[id]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, id model.LobbyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, id)
	return nil
}

func (s *Storage) LobbyExists(ctx context.Context, id model.LobbyID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lobbies[id]
	return ok, nil
}

// Question set operations

func (s *Storage) SaveQuestionSets(ctx context.Context, sets map[model.CategoryKey]model.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionSets = make(map[model.CategoryKey]model.QuestionSet, len(sets))
	for key, set := range sets {
		copied := make(model.QuestionSet, len(set))
		copy(copied, set)
		s.questionSets[key] = copied
	}
	return nil
}

func (s *Storage) GetQuestionSets(ctx context.Context) (map[model.CategoryKey]model.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.questionSets == nil {
		return nil, model.ErrQuestionsMissing
	}
	result := make(map[model.CategoryKey]model.QuestionSet, len(s.questionSets))
	for key, set := range s.questionSets {
		copied := make(model.QuestionSet, len(set))
		copy(copied, set)
		result[key] = copied
	}
	return result, nil
}

// Hall-of-fame operations

func (s *Storage) SaveScore(ctx context.Context, record *model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, *record)
	return nil
}

func (s *Storage) TopScores(ctx context.Context, questionSet string, limit int) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.ScoreRecord
	for _, record := range s.scores {
		if record.QuestionSet == questionSet {
			matched = append(matched, record)
		}
	}

	// Score descending, earliest submission wins ties
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].SubmittedAt.Before(matched[j].SubmittedAt)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
