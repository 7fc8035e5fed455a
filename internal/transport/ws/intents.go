package ws

import (
	"encoding/json"

	"github.com/quizhaus/quizhaus/internal/model"
)

// IntentType identifies an inbound client message
type IntentType string

const (
	IntentCreateLobby    IntentType = "createLobby"
	IntentJoinLobby      IntentType = "joinLobby"
	IntentSelectCategory IntentType = "hostSelectedCategory"
	IntentStartGame      IntentType = "startGame"
	IntentSubmitAnswer   IntentType = "submitAnswer"
	IntentTogglePause    IntentType = "hostTogglePause"
	IntentSkipToEnd      IntentType = "hostSkipToEnd"
	IntentPlayAgain      IntentType = "playAgain"
)

// Intent is the envelope for every inbound message. The payload stays
// raw until the type is known.
type Intent struct {
	Type    IntentType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createLobbyPayload struct {
	PlayerName string `json:"playerName"`
}

type joinLobbyPayload struct {
	LobbyID    model.LobbyID `json:"lobbyId"`
	PlayerName string        `json:"playerName"`
}

type selectCategoryPayload struct {
	LobbyID  model.LobbyID     `json:"lobbyId"`
	Category model.CategoryKey `json:"category"`
}

type startGamePayload struct {
	LobbyID  model.LobbyID     `json:"lobbyId"`
	Category model.CategoryKey `json:"category"`
}

type submitAnswerPayload struct {
	LobbyID       model.LobbyID `json:"lobbyId"`
	QuestionIndex int           `json:"questionIndex"`
	Answer        string        `json:"answer"`
}

type lobbyOnlyPayload struct {
	LobbyID model.LobbyID `json:"lobbyId"`
}
