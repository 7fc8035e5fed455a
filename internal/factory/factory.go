package factory

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/quizhaus/quizhaus/internal/config"
	"github.com/quizhaus/quizhaus/internal/dependencies/clock"
	"github.com/quizhaus/quizhaus/internal/dependencies/random"
	"github.com/quizhaus/quizhaus/internal/dependencies/sched"
	"github.com/quizhaus/quizhaus/internal/services/auth"
	"github.com/quizhaus/quizhaus/internal/services/game"
	"github.com/quizhaus/quizhaus/internal/services/halloffame"
	"github.com/quizhaus/quizhaus/internal/services/lobby"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
	"github.com/quizhaus/quizhaus/internal/services/scoring"
	"github.com/quizhaus/quizhaus/internal/storage"
	"github.com/quizhaus/quizhaus/internal/storage/memory"
	redisstorage "github.com/quizhaus/quizhaus/internal/storage/redis"
	"github.com/quizhaus/quizhaus/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler sched.Scheduler

	// Services
	QuestionBank    *questionbank.Service
	ScoringService  *scoring.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	AuthService     *auth.Service
	HallOfFame      *halloffame.Service
	Hub             *ws.Hub
	SocketHandler   *ws.Handler
}

// New creates a new application with all dependencies wired from the
// given configuration
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.Storage.Type {
	case StorageTypeMemory, "":
		store = memory.New()
	case StorageTypeRedis:
		redisStore, err := redisstorage.New(redisstorage.Config{
			URL:            cfg.Storage.Redis.URL,
			PoolSize:       cfg.Storage.Redis.PoolSize,
			MinIdleConns:   cfg.Storage.Redis.MinIdleConns,
			GuestPlayerTTL: cfg.Storage.Redis.GuestPlayerTTL,
			LobbyTTL:       cfg.Storage.Redis.LobbyTTL,
		})
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid storage type: must be 'memory' or 'redis'")
	}

	var remote *halloffame.Client
	if cfg.HallOfFame.RemoteURL != "" {
		remote = halloffame.NewClient(cfg.HallOfFame.RemoteURL)
	}

	return newWithDependencies(dependencies{
		store:     store,
		clock:     clock.New(),
		random:    random.New(),
		scheduler: sched.New(),
		remote:    remote,
		gameCfg: game.Config{
			QuestionTimeLimit:  cfg.Game.QuestionTimeLimit,
			AnswerDisplayDelay: cfg.Game.AnswerDisplayDelay,
		},
		scoringCfg: scoring.Config{
			BasePoints:      cfg.Game.BasePoints,
			MaxTimeBonus:    cfg.Game.MaxTimeBonus,
			StreakBonusStep: cfg.Game.StreakBonusStep,
		},
		logger: logger,
	}), nil
}

// dependencies are the swappable pieces under the wiring. Tests build
// an App over mocks through the same path as production.
type dependencies struct {
	store      storage.Storage
	clock      clock.Clock
	random     random.Random
	scheduler  sched.Scheduler
	remote     *halloffame.Client
	gameCfg    game.Config
	scoringCfg scoring.Config
	logger     *slog.Logger
}

func newWithDependencies(deps dependencies) *App {
	logger := deps.logger

	// One mutex serializes every lobby mutation, whether it comes from
	// a client intent or a timer callback. The lobby and game
	// controllers share it.
	reactorMu := &sync.Mutex{}

	hub := ws.NewHub(logger)
	bank := questionbank.New(deps.store, deps.random, logger)
	scoringService := scoring.New(deps.scoringCfg)
	hofService := halloffame.New(deps.store, deps.remote, deps.clock, logger)
	gameController := game.NewController(
		reactorMu, deps.store, bank, scoringService, hub, hofService,
		deps.clock, deps.scheduler, deps.gameCfg, logger,
	)
	lobbyController := lobby.NewController(
		reactorMu, deps.store, gameController, bank, hub,
		deps.clock, deps.random, logger,
	)
	authService := auth.New(deps.store, deps.clock, logger)
	socketHandler := ws.NewHandler(hub, lobbyController, gameController, bank, logger)

	return &App{
		Storage:         deps.store,
		Clock:           deps.clock,
		Random:          deps.random,
		Scheduler:       deps.scheduler,
		QuestionBank:    bank,
		ScoringService:  scoringService,
		GameController:  gameController,
		LobbyController: lobbyController,
		AuthService:     authService,
		HallOfFame:      hofService,
		Hub:             hub,
		SocketHandler:   socketHandler,
	}
}
