package model

// EventType identifies the type of an outbound event
type EventType string

const (
	// Direct replies to the originating connection
	EventLobbyCreated   EventType = "lobbyCreated"
	EventJoinedLobby    EventType = "joinedLobby"
	EventAnswerResult   EventType = "answerResult"
	EventLobbyError     EventType = "lobbyError"
	EventStartGameError EventType = "startGameError"
	EventSkipToEndError EventType = "skipToEndError"

	// Broadcasts to every lobby member
	EventPlayerJoined     EventType = "playerJoined"
	EventPlayerLeft       EventType = "playerLeft"
	EventHostChanged      EventType = "hostChanged"
	EventCategoryUpdated  EventType = "categoryUpdatedByHost"
	EventGameStarted      EventType = "gameStarted"
	EventNewQuestion      EventType = "newQuestion"
	EventUpdateScores     EventType = "updateScores"
	EventTimerUpdate      EventType = "timerUpdate"
	EventQuestionOver     EventType = "questionOver"
	EventGameOver         EventType = "gameOver"
	EventGamePaused       EventType = "gamePaused"
	EventGameResumed      EventType = "gameResumed"
	EventLobbyReset       EventType = "lobbyResetForPlayAgain"
)

// Event is the envelope for everything pushed to clients
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// NewEvent builds an event envelope
func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}

// LobbyCreatedPayload answers a createLobby intent
type LobbyCreatedPayload struct {
	LobbyID             LobbyID       `json:"lobbyId"`
	Players             []LobbyPlayer `json:"players"`
	PlayerID            PlayerID      `json:"playerId"`
	AvailableCategories []CategoryKey `json:"availableCategories"`
}

// JoinedLobbyPayload answers a joinLobby intent
type JoinedLobbyPayload struct {
	LobbyID             LobbyID       `json:"lobbyId"`
	Players             []LobbyPlayer `json:"players"`
	PlayerID            PlayerID      `json:"playerId"`
	GameState           GameState     `json:"gameState"`
	SelectedCategory    CategoryKey   `json:"selectedCategory"`
	AvailableCategories []CategoryKey `json:"allCategoriesForLobby"`
	IsPaused            bool          `json:"isPaused"`
	RemainingTime       *float64      `json:"remainingTime,omitempty"`
}

// PlayerJoinedPayload is broadcast when a player joins
type PlayerJoinedPayload struct {
	Players             []LobbyPlayer `json:"players"`
	JoinedPlayerID      PlayerID      `json:"joinedPlayerId"`
	JoinedPlayerName    string        `json:"joinedPlayerName"`
	AvailableCategories []CategoryKey `json:"allCategoriesForLobby"`
	SelectedCategory    CategoryKey   `json:"selectedCategory"`
}

// PlayerLeftPayload is broadcast when a player leaves or disconnects
type PlayerLeftPayload struct {
	Players                []LobbyPlayer `json:"players"`
	DisconnectedPlayerName string        `json:"disconnectedPlayerName"`
	DisconnectedPlayerID   PlayerID      `json:"disconnectedPlayerId"`
	SelectedCategory       CategoryKey   `json:"selectedCategory"`
}

// HostChangedPayload is broadcast after host migration
type HostChangedPayload struct {
	NewHostID           PlayerID      `json:"newHostId"`
	Players             []LobbyPlayer `json:"players"`
	AvailableCategories []CategoryKey `json:"availableCategories"`
	SelectedCategory    CategoryKey   `json:"selectedCategory"`
}

// GameStartedPayload is broadcast when the host starts the game
type GameStartedPayload struct {
	LobbyID  LobbyID       `json:"lobbyId"`
	Players  []LobbyPlayer `json:"players"`
	Category CategoryKey   `json:"category"`
}

// NewQuestionPayload is broadcast for each question. The canonical
// answer is deliberately absent.
type NewQuestionPayload struct {
	Question       string      `json:"question"`
	Options        []string    `json:"options"`
	QuestionIndex  int         `json:"questionIndex"`
	TotalQuestions int         `json:"totalQuestions"`
	TimeLimit      int         `json:"timeLimit"`
	Category       CategoryKey `json:"category"`
}

// AnswerResultPayload is sent only to the answering connection.
// Broadcasting it would leak the canonical answer mid-question.
type AnswerResultPayload struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
	Streak        int    `json:"streak"`
	PointsEarned  int    `json:"pointsEarned"`
}

// QuestionOverPayload reveals the canonical answer to the whole lobby
type QuestionOverPayload struct {
	CorrectAnswer string       `json:"correctAnswer"`
	Scores        []ScoreEntry `json:"scores"`
}

// GameOverPayload carries the final standings, score-descending
type GameOverPayload struct {
	FinalScores []FinalScore `json:"finalScores"`
}

// GamePausedPayload carries the frozen remaining time in seconds
type GamePausedPayload struct {
	RemainingTime float64 `json:"remainingTime"`
}

// LobbyResetPayload is broadcast when the host restarts from finished
type LobbyResetPayload struct {
	LobbyID             LobbyID       `json:"lobbyId"`
	Players             []LobbyPlayer `json:"players"`
	GameState           GameState     `json:"gameState"`
	AvailableCategories []CategoryKey `json:"availableCategories"`
	SelectedCategory    CategoryKey   `json:"selectedCategory"`
}

// ErrorPayload is the body of lobbyError/startGameError replies
type ErrorPayload struct {
	Message string `json:"message"`
}
