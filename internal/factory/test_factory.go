package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/quizhaus/quizhaus/internal/dependencies/mocks"
	"github.com/quizhaus/quizhaus/internal/services/game"
	"github.com/quizhaus/quizhaus/internal/services/scoring"
	"github.com/quizhaus/quizhaus/internal/storage/memory"
)

// TestApp bundles an App with the mocks behind it so tests can steer
// time and randomness
type TestApp struct {
	*App
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockScheduler *mocks.MockScheduler
}

// NewTestApp creates a fully wired App over in-memory storage and
// mocked clock, randomness and scheduling
func NewTestApp() *TestApp {
	clk := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	scheduler := mocks.NewMockScheduler()

	app := newWithDependencies(dependencies{
		store:      memory.New(),
		clock:      clk,
		random:     rnd,
		scheduler:  scheduler,
		gameCfg:    game.DefaultConfig(),
		scoringCfg: scoring.DefaultConfig(),
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})

	return &TestApp{
		App:           app,
		MockClock:     clk,
		MockRandom:    rnd,
		MockScheduler: scheduler,
	}
}
