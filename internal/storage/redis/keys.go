package redis

import (
	"fmt"

	"github.com/quizhaus/quizhaus/internal/model"
)

// Key prefix for all quiz-related data
const keyPrefix = "quizhaus"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// lobbyKey returns the Redis key for a Lobby
func lobbyKey(id model.LobbyID) string {
	return fmt.Sprintf("%s:lobby:%s", keyPrefix, id)
}

// questionSetsKey returns the Redis key for the loaded question sets
func questionSetsKey() string {
	return fmt.Sprintf("%s:question_sets", keyPrefix)
}

// scoreKey returns the Redis key for a single hall-of-fame record
func scoreKey(id string) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, id)
}

// scoreboardKey returns the Redis key for the per-question-set
// sorted set indexing score records by score
func scoreboardKey(questionSet string) string {
	return fmt.Sprintf("%s:idx:scoreboard:%s", keyPrefix, questionSet)
}
