package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizhaus/quizhaus/internal/model"
)

// IntegrationSuite drives a full game through the wired controllers,
// the way the websocket layer would
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.QuestionBank.LoadSets(s.ctx, map[model.CategoryKey]model.QuestionSet{
		"Musik": {
			{Question: "Wie viele Saiten hat eine Violine?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
		},
	}))
}

func (s *IntegrationSuite) TestFullGameArchivesScores() {
	s.app.MockRandom.QueueString("ABC123")
	created, err := s.app.LobbyController.CreateLobby(s.ctx, "p1", "Anna")
	s.Require().NoError(err)

	_, err = s.app.LobbyController.JoinLobby(s.ctx, created.ID, "p2", "Ben")
	s.Require().NoError(err)

	s.Require().NoError(s.app.GameController.StartGame(s.ctx, created.ID, "p1", "Musik"))

	s.app.MockClock.Advance(10 * time.Second)
	s.Require().NoError(s.app.GameController.SubmitAnswer(s.ctx, created.ID, "p1", 0, "4"))
	s.Require().NoError(s.app.GameController.SubmitAnswer(s.ctx, created.ID, "p2", 0, "3"))

	// Everyone answered the only question; the display delay callback
	// then ends the game
	fired := 0
	for _, call := range s.app.MockScheduler.Pending() {
		call.Fn()
		fired++
	}
	s.Require().Positive(fired)

	lobby, err := s.app.Storage.GetLobby(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateFinished, lobby.State)

	s.Eventually(func() bool {
		top, err := s.app.HallOfFame.Top(s.ctx, "Musik", 10)
		return err == nil && len(top) == 2
	}, time.Second, 5*time.Millisecond)

	top, err := s.app.HallOfFame.Top(s.ctx, "Musik", 10)
	s.Require().NoError(err)
	s.Equal("Anna", top[0].PlayerName)
	s.Equal("Ben", top[1].PlayerName)
	s.Greater(top[0].Score, top[1].Score)
}

func (s *IntegrationSuite) TestHostDisconnectMigratesAndGameContinues() {
	s.app.MockRandom.QueueString("ABC123")
	created, err := s.app.LobbyController.CreateLobby(s.ctx, "p1", "Anna")
	s.Require().NoError(err)
	_, err = s.app.LobbyController.JoinLobby(s.ctx, created.ID, "p2", "Ben")
	s.Require().NoError(err)

	s.Require().NoError(s.app.GameController.StartGame(s.ctx, created.ID, "p1", "Musik"))
	s.Require().NoError(s.app.LobbyController.LeaveLobby(s.ctx, created.ID, "p1"))

	lobby, err := s.app.Storage.GetLobby(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Len(lobby.Players, 1)
	s.True(lobby.Players[0].IsHost)
	s.Equal(model.GameStateActive, lobby.State)

	// The new host can use host powers right away
	s.Require().NoError(s.app.GameController.TogglePause(s.ctx, created.ID, "p2"))
}
