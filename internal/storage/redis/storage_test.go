package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/quizhaus/quizhaus/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.LobbyTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Anna",
		IsGuest:     false,
		CreatedAt:   time.Now().UTC(),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, got.ID)
	s.Equal(player.DisplayName, got.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerGetsTTL() {
	guest := &model.Player{ID: "guest-1", IsGuest: true}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, guest))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredPlayerHasNoTTL() {
	player := &model.Player{ID: "player-1", IsGuest: false}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.NoError(err)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestRegisteredPlayerUsernameLookup() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "anna",
		PasswordHash: "$2a$10$hash",
	}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "anna")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)
	s.Equal(rp.PasswordHash, got.PasswordHash)
}

func (s *StorageSuite) TestRegisteredPlayerUnknownUsername() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Lobby tests

func (s *StorageSuite) TestSaveAndGetLobby() {
	remaining := 40 * time.Second
	lobby := &model.Lobby{
		ID: "ABC123",
		Players: []model.LobbyPlayer{
			{ID: "p1", Name: "Anna", IsHost: true, Score: 150, Streak: 2},
		},
		CurrentQuestion:  1,
		SelectedCategory: "Musik",
		State:            model.GameStateActive,
		IsPaused:         true,
		RemainingOnPause: &remaining,
		Epoch:            7,
		Answers: map[int]map[model.PlayerID]model.AnswerRecord{
			0: {"p1": {Answer: "4", IsCorrect: true, PointsEarned: 150, TimeTaken: 12.5}},
		},
	}

	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	got, err := s.storage.GetLobby(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(lobby.Players, got.Players)
	s.Equal(1, got.CurrentQuestion)
	s.True(got.IsPaused)
	s.Require().NotNil(got.RemainingOnPause)
	s.Equal(remaining, *got.RemainingOnPause)
	s.Equal(uint64(7), got.Epoch)
	s.Equal(lobby.Answers, got.Answers)
}

func (s *StorageSuite) TestLobbyExists() {
	exists, err := s.storage.LobbyExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "ABC123"}))

	exists, err = s.storage.LobbyExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteLobby() {
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "ABC123"}))
	s.Require().NoError(s.storage.DeleteLobby(s.ctx, "ABC123"))

	_, err := s.storage.GetLobby(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Question set tests

func (s *StorageSuite) TestQuestionSetsRoundTrip() {
	sets := map[model.CategoryKey]model.QuestionSet{
		"Musik": {
			{Question: "Wie viele Saiten hat eine Violine?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
		},
	}
	s.Require().NoError(s.storage.SaveQuestionSets(s.ctx, sets))

	got, err := s.storage.GetQuestionSets(s.ctx)
	s.Require().NoError(err)
	s.Equal(sets, got)
}

func (s *StorageSuite) TestQuestionSetsMissing() {
	_, err := s.storage.GetQuestionSets(s.ctx)
	s.ErrorIs(err, model.ErrQuestionsMissing)
}

// Hall-of-fame tests

func (s *StorageSuite) saveScore(id, name string, set string, score int, at time.Time) {
	s.Require().NoError(s.storage.SaveScore(s.ctx, &model.ScoreRecord{
		ID:          id,
		PlayerName:  name,
		QuestionSet: set,
		Score:       score,
		SubmittedAt: at,
	}))
}

func (s *StorageSuite) TestTopScoresOrdering() {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.saveScore("s1", "Anna", "Musik", 200, base)
	s.saveScore("s2", "Ben", "Musik", 300, base.Add(time.Minute))
	s.saveScore("s3", "Cem", "Musik", 200, base.Add(2*time.Minute))

	top, err := s.storage.TopScores(s.ctx, "Musik", 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("Ben", top[0].PlayerName)
	s.Equal("Anna", top[1].PlayerName)
	s.Equal("Cem", top[2].PlayerName)
}

func (s *StorageSuite) TestTopScoresLimit() {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.saveScore(
			string(rune('a'+i)), "Anna", "Musik", 100+i, base.Add(time.Duration(i)*time.Second),
		)
	}

	top, err := s.storage.TopScores(s.ctx, "Musik", 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal(104, top[0].Score)
	s.Equal(102, top[2].Score)
}

func (s *StorageSuite) TestTopScoresEmptyBoard() {
	top, err := s.storage.TopScores(s.ctx, "Musik", 10)
	s.Require().NoError(err)
	s.Empty(top)
}
