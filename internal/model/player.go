package model

import "time"

// PlayerID uniquely identifies a player across the system.
// For lobby members it is scoped to the transport session and stays
// stable for the lifetime of the connection.
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LobbyPlayer is a player's per-lobby game state. The roster keeps
// players in join order; the earliest remaining joiner becomes host
// when the current host leaves.
type LobbyPlayer struct {
	ID          PlayerID  `json:"id"`
	Name        string    `json:"name"`
	Score       int       `json:"score"`
	Streak      int       `json:"streak"`
	IsHost      bool      `json:"isHost"`
	HasAnswered bool      `json:"hasAnswered"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// ScoreEntry is the wire form of a player's score in scoreboard broadcasts
type ScoreEntry struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	Score  int      `json:"score"`
	Streak int      `json:"streak"`
}

// FinalScore is a single row of the end-of-game standings
type FinalScore struct {
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	OriginalID PlayerID `json:"originalId"`
}
