package model

import "time"

// LobbyID is a human-typeable code for joining lobbies
type LobbyID string

// GameState represents the top-level phase of a lobby's game.
// Pause is an orthogonal flag on the lobby, not a state of its own.
type GameState string

const (
	GameStateWaiting  GameState = "waiting"  // Lobby open, no game running
	GameStateActive   GameState = "active"   // Questions flowing
	GameStateFinished GameState = "finished" // Terminal until playAgain
)

// Lobby is an isolated game session: a roster of players plus quiz
// progress state. Timer handles are deliberately NOT part of the model;
// they live in the game controller keyed by lobby id so that scheduled
// callbacks never hold a reference to a possibly-deleted lobby.
type Lobby struct {
	ID      LobbyID       `json:"id"`
	Players []LobbyPlayer `json:"players"` // insertion order = join order

	// Questions is a shuffled copy of the selected category's set,
	// materialized on game start and discarded on reset.
	Questions        QuestionSet `json:"questions"`
	CurrentQuestion  int         `json:"currentQuestionIndex"` // -1 before first question
	SelectedCategory CategoryKey `json:"selectedCategory"`     // empty until the host chooses

	State    GameState `json:"gameState"`
	IsPaused bool      `json:"isPaused"` // valid only while State is active

	// RemainingOnPause is set when the host pauses and consumed on
	// resume. Nil whenever the lobby is not paused.
	RemainingOnPause *time.Duration `json:"remainingTimeOnPause,omitempty"`

	// QuestionStartedAt marks when the current question's clock began.
	// Recomputed on resume so elapsed time is preserved.
	QuestionStartedAt time.Time `json:"questionStartTime"`

	// Answers maps question index -> player id -> answer audit record
	Answers map[int]map[PlayerID]AnswerRecord `json:"playerAnswers"`

	// Epoch increments on every state transition that invalidates
	// pending timer callbacks (question start/end, pause, resume,
	// skip, reset). A callback whose captured epoch no longer matches
	// must act as a no-op.
	Epoch uint64 `json:"epoch"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Host returns the current host, or nil if the roster is empty
func (l *Lobby) Host() *LobbyPlayer {
	for i := range l.Players {
		if l.Players[i].IsHost {
			return &l.Players[i]
		}
	}
	return nil
}

// GetPlayer returns the roster entry for the given id, or nil
func (l *Lobby) GetPlayer(id PlayerID) *LobbyPlayer {
	for i := range l.Players {
		if l.Players[i].ID == id {
			return &l.Players[i]
		}
	}
	return nil
}

// IsHost reports whether the given player is the current host
func (l *Lobby) IsHost(id PlayerID) bool {
	p := l.GetPlayer(id)
	return p != nil && p.IsHost
}

// AllAnswered reports whether every current player has answered.
// False for an empty roster.
func (l *Lobby) AllAnswered() bool {
	if len(l.Players) == 0 {
		return false
	}
	for i := range l.Players {
		if !l.Players[i].HasAnswered {
			return false
		}
	}
	return true
}

// CurrentQuestionData returns the in-flight question, or nil if the
// index is out of range
func (l *Lobby) CurrentQuestionData() *Question {
	if l.CurrentQuestion < 0 || l.CurrentQuestion >= len(l.Questions) {
		return nil
	}
	return &l.Questions[l.CurrentQuestion]
}

// ScoreSnapshot returns the roster's scores in join order for broadcasts
func (l *Lobby) ScoreSnapshot() []ScoreEntry {
	entries := make([]ScoreEntry, len(l.Players))
	for i, p := range l.Players {
		entries[i] = ScoreEntry{ID: p.ID, Name: p.Name, Score: p.Score, Streak: p.Streak}
	}
	return entries
}

// RecordAnswer stores an answer audit entry for the given question index
func (l *Lobby) RecordAnswer(questionIndex int, playerID PlayerID, record AnswerRecord) {
	if l.Answers == nil {
		l.Answers = make(map[int]map[PlayerID]AnswerRecord)
	}
	if l.Answers[questionIndex] == nil {
		l.Answers[questionIndex] = make(map[PlayerID]AnswerRecord)
	}
	l.Answers[questionIndex][playerID] = record
}
