package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Lobby state is still owned by the in-process game engine; Redis only
// provides durable lookups for identities and the hall of fame, plus
// lobby snapshots for single-process restarts of non-game data.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerID))
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, lobbyKey(lobby.ID), data, s.cfg.LobbyTTL).Err()
}

func (s *Storage) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	data, err := s.client.Get(ctx, lobbyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLobbyNotFound
		}
		return nil, err
	}

	var lobby model.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, id model.LobbyID) error {
	return s.client.Del(ctx, lobbyKey(id)).Err()
}

func (s *Storage) LobbyExists(ctx context.Context, id model.LobbyID) (bool, error) {
	count, err := s.client.Exists(ctx, lobbyKey(id)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Question set operations

func (s *Storage) SaveQuestionSets(ctx context.Context, sets map[model.CategoryKey]model.QuestionSet) error {
	data, err := json.Marshal(sets)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, questionSetsKey(), data, 0).Err()
}

func (s *Storage) GetQuestionSets(ctx context.Context) (map[model.CategoryKey]model.QuestionSet, error) {
	data, err := s.client.Get(ctx, questionSetsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuestionsMissing
		}
		return nil, err
	}

	var sets map[model.CategoryKey]model.QuestionSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// Hall-of-fame operations

func (s *Storage) SaveScore(ctx context.Context, record *model.ScoreRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, scoreKey(record.ID), data, 0)
	pipe.ZAdd(ctx, scoreboardKey(record.QuestionSet), redis.Z{
		Score:  float64(record.Score),
		Member: record.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) TopScores(ctx context.Context, questionSet string, limit int) ([]model.ScoreRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	ids, err := s.client.ZRevRange(ctx, scoreboardKey(questionSet), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = scoreKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.ScoreRecord, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue // record expired between ZREVRANGE and MGET
		}
		var record model.ScoreRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	// The sorted set orders equal scores by member id; re-sort so ties
	// go to the earliest submission, matching the leaderboard contract.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].SubmittedAt.Before(records[j].SubmittedAt)
	})

	return records, nil
}
