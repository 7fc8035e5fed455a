package halloffame

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/quizhaus/quizhaus/internal/dependencies/clock"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// DefaultTopLimit is the leaderboard size when a query gives no limit
const DefaultTopLimit = 20

// Service is the hall of fame: validated score archival plus per
// question-set leaderboards. An optional remote archive receives a
// copy of every accepted score.
type Service struct {
	storage storage.Storage
	remote  *Client // nil when no remote archive is configured
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new hall-of-fame service. remote may be nil.
func New(store storage.Storage, remote *Client, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		remote:  remote,
		clock:   clk,
		logger:  logger.With(slog.String("component", "halloffame")),
	}
}

// Submit validates and archives a final score. Remote archive failures
// are logged but do not fail the submission; the local record is the
// source of truth for leaderboards.
func (s *Service) Submit(ctx context.Context, record *model.ScoreRecord) error {
	record.PlayerName = strings.TrimSpace(record.PlayerName)
	record.QuestionSet = strings.TrimSpace(record.QuestionSet)
	if err := record.Validate(); err != nil {
		s.logger.Warn("score submission rejected",
			slog.String("player", record.PlayerName),
			slog.String("question_set", record.QuestionSet),
			slog.Int("score", record.Score),
		)
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = s.clock.Now()
	}

	if err := s.storage.SaveScore(ctx, record); err != nil {
		return err
	}
	s.logger.Info("score archived",
		slog.String("player", record.PlayerName),
		slog.String("question_set", record.QuestionSet),
		slog.Int("score", record.Score),
	)

	if s.remote != nil {
		if err := s.remote.SubmitScore(ctx, record); err != nil {
			s.logger.Warn("remote score archive failed",
				slog.String("player", record.PlayerName),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// Top returns up to limit leaderboard entries for a question set,
// score descending with ties going to the earliest submission
func (s *Service) Top(ctx context.Context, questionSet string, limit int) ([]model.ScoreRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultTopLimit
	}
	return s.storage.TopScores(ctx, questionSet, limit)
}
