package model

import "time"

// MaxPlayerNameLength bounds the name accepted by the hall of fame
const MaxPlayerNameLength = 50

// ScoreRecord is a hall-of-fame entry: one player's final score for
// one question set. UserID is empty for guest and anonymous players.
type ScoreRecord struct {
	ID          string    `json:"id"`
	PlayerName  string    `json:"playerName"`
	QuestionSet string    `json:"questionSet"`
	Score       int       `json:"score"`
	UserID      PlayerID  `json:"userId,omitempty"`
	SubmittedAt time.Time `json:"timestamp"`
}

// Validate checks the hall-of-fame submission contract: non-empty
// bounded strings and a non-negative score
func (r ScoreRecord) Validate() error {
	if r.PlayerName == "" || len(r.PlayerName) > MaxPlayerNameLength {
		return ErrInvalidScore
	}
	if r.QuestionSet == "" {
		return ErrInvalidScore
	}
	if r.Score < 0 {
		return ErrInvalidScore
	}
	return nil
}
