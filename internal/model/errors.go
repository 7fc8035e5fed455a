package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Lobby errors
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrLobbyFull           = errors.New("lobby is full")
	ErrNotInLobby          = errors.New("player is not in lobby")
	ErrNotHost             = errors.New("player is not the host")
	ErrGameFinished        = errors.New("game in this lobby is already finished")
	ErrGameNotActive       = errors.New("no game in progress")
	ErrGamePaused          = errors.New("game is paused")
	ErrGameNotPaused       = errors.New("game is not paused")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrGameNotFinished     = errors.New("game is still in progress")

	// Question bank errors
	ErrUnknownCategory  = errors.New("unknown question category")
	ErrEmptyCategory    = errors.New("category contains no questions")
	ErrQuestionsMissing = errors.New("question sets not loaded")

	// Score errors
	ErrInvalidScore = errors.New("invalid score submission")
)
