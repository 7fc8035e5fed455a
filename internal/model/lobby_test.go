package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func waitingLobby(players ...LobbyPlayer) *Lobby {
	return &Lobby{
		ID:              "ABC123",
		Players:         players,
		CurrentQuestion: -1,
		State:           GameStateWaiting,
	}
}

func TestHostReturnsFlaggedPlayer(t *testing.T) {
	lobby := waitingLobby(
		LobbyPlayer{ID: "p1", IsHost: true},
		LobbyPlayer{ID: "p2"},
	)
	host := lobby.Host()
	assert.NotNil(t, host)
	assert.Equal(t, PlayerID("p1"), host.ID)

	assert.Nil(t, waitingLobby().Host())
}

func TestIsHost(t *testing.T) {
	lobby := waitingLobby(
		LobbyPlayer{ID: "p1", IsHost: true},
		LobbyPlayer{ID: "p2"},
	)
	assert.True(t, lobby.IsHost("p1"))
	assert.False(t, lobby.IsHost("p2"))
	assert.False(t, lobby.IsHost("ghost"))
}

func TestGetPlayerReturnsMutableEntry(t *testing.T) {
	lobby := waitingLobby(LobbyPlayer{ID: "p1"})

	lobby.GetPlayer("p1").Score = 150
	assert.Equal(t, 150, lobby.Players[0].Score)

	assert.Nil(t, lobby.GetPlayer("ghost"))
}

func TestAllAnswered(t *testing.T) {
	assert.False(t, waitingLobby().AllAnswered(), "empty roster never counts as all answered")

	lobby := waitingLobby(
		LobbyPlayer{ID: "p1", HasAnswered: true},
		LobbyPlayer{ID: "p2"},
	)
	assert.False(t, lobby.AllAnswered())

	lobby.Players[1].HasAnswered = true
	assert.True(t, lobby.AllAnswered())
}

func TestCurrentQuestionData(t *testing.T) {
	lobby := waitingLobby()
	lobby.Questions = QuestionSet{{Question: "Q1", Answer: "a"}}

	assert.Nil(t, lobby.CurrentQuestionData(), "index -1 before the game starts")

	lobby.CurrentQuestion = 0
	q := lobby.CurrentQuestionData()
	assert.NotNil(t, q)
	assert.Equal(t, "Q1", q.Question)

	lobby.CurrentQuestion = 1
	assert.Nil(t, lobby.CurrentQuestionData())
}

func TestRecordAnswerInitializesMaps(t *testing.T) {
	lobby := waitingLobby(LobbyPlayer{ID: "p1"})
	lobby.Answers = nil

	lobby.RecordAnswer(0, "p1", AnswerRecord{Answer: "a", IsCorrect: true})
	assert.True(t, lobby.Answers[0]["p1"].IsCorrect)
}

func TestScoreSnapshotKeepsJoinOrder(t *testing.T) {
	lobby := waitingLobby(
		LobbyPlayer{ID: "p1", Name: "Anna", Score: 100},
		LobbyPlayer{ID: "p2", Name: "Ben", Score: 300},
	)
	snapshot := lobby.ScoreSnapshot()
	assert.Equal(t, PlayerID("p1"), snapshot[0].ID)
	assert.Equal(t, PlayerID("p2"), snapshot[1].ID)
	assert.Equal(t, 300, snapshot[1].Score)
}
