package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/quizhaus/quizhaus/internal/model"
)

// Config holds the scoring policy. These are policy values, not
// protocol invariants, so they are configurable rather than constants.
type Config struct {
	BasePoints      int
	MaxTimeBonus    int
	StreakBonusStep int
}

// DefaultConfig returns the default scoring policy
func DefaultConfig() Config {
	return Config{
		BasePoints:      100,
		MaxTimeBonus:    50,
		StreakBonusStep: 10,
	}
}

// Service computes points for answers and final standings
type Service struct {
	cfg Config
}

// New creates a new scoring service
func New(cfg Config) *Service {
	if cfg.BasePoints == 0 && cfg.MaxTimeBonus == 0 && cfg.StreakBonusStep == 0 {
		cfg = DefaultConfig()
	}
	return &Service{cfg: cfg}
}

// Points returns the points earned for a correct answer.
// streak is the player's streak including this answer. Faster answers
// never score less than slower ones at equal streak: the time bonus is
// floor(remaining/limit * MaxTimeBonus) and remaining is clamped at 0.
func (s *Service) Points(timeTaken, timeLimit time.Duration, streak int) int {
	remaining := timeLimit - timeTaken
	if remaining < 0 {
		remaining = 0
	}

	timeBonus := 0
	if timeLimit > 0 {
		timeBonus = int(math.Floor(remaining.Seconds() / timeLimit.Seconds() * float64(s.cfg.MaxTimeBonus)))
	}

	return s.cfg.BasePoints + timeBonus + streak*s.cfg.StreakBonusStep
}

// FinalStandings returns the end-of-game leaderboard, score
// descending. The sort is stable so equal scores keep join order.
func (s *Service) FinalStandings(players []model.LobbyPlayer) []model.FinalScore {
	standings := make([]model.FinalScore, len(players))
	for i, p := range players {
		standings[i] = model.FinalScore{Name: p.Name, Score: p.Score, OriginalID: p.ID}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}
