package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quizhaus/quizhaus/internal/dependencies/clock"
	"github.com/quizhaus/quizhaus/internal/dependencies/sched"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
	"github.com/quizhaus/quizhaus/internal/services/scoring"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// Notifier pushes events to connected clients. Broadcast reaches every
// member of a lobby; SendTo reaches exactly one player's connection.
type Notifier interface {
	Broadcast(lobbyID model.LobbyID, event model.Event)
	SendTo(playerID model.PlayerID, event model.Event)
}

// ScoreSink receives final scores after a game ends (the hall of fame).
// Implementations must validate the submission contract themselves.
type ScoreSink interface {
	Submit(ctx context.Context, record *model.ScoreRecord) error
}

// Config holds game flow settings
type Config struct {
	// QuestionTimeLimit is the per-question answer window
	QuestionTimeLimit time.Duration
	// AnswerDisplayDelay is how long the correct answer is shown
	// before the next question starts
	AnswerDisplayDelay time.Duration
}

// DefaultConfig returns the default game flow settings
func DefaultConfig() Config {
	return Config{
		QuestionTimeLimit:  60 * time.Second,
		AnswerDisplayDelay: 3 * time.Second,
	}
}

// timeoutBuffer pads the hard timeout past the nominal duration so the
// final interval tick always lands first
const timeoutBuffer = 100 * time.Millisecond

// Controller drives the per-lobby game loop: question advancement,
// answer aggregation, scoring, pause/resume and skip.
//
// All public methods take the reactor lock shared with the lobby
// controller; methods with the Locked suffix require the caller to
// hold it already. Timer callbacks capture only the lobby id and the
// lobby's epoch at scheduling time and re-fetch the lobby at fire
// time, so a callback can never touch a deleted or reset lobby.
type Controller struct {
	mu       *sync.Mutex // reactor lock, shared with the lobby controller
	storage  storage.Storage
	bank     *questionbank.Service
	scoring  *scoring.Service
	notifier Notifier
	scores   ScoreSink // optional
	clock    clock.Clock
	sched    sched.Scheduler
	logger   *slog.Logger
	cfg      Config

	timers map[model.LobbyID]*questionTimer
}

// NewController creates a new game controller
func NewController(
	mu *sync.Mutex,
	store storage.Storage,
	bank *questionbank.Service,
	scoringService *scoring.Service,
	notifier Notifier,
	scores ScoreSink,
	clk clock.Clock,
	scheduler sched.Scheduler,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.QuestionTimeLimit == 0 {
		cfg = DefaultConfig()
	}
	return &Controller{
		mu:       mu,
		storage:  store,
		bank:     bank,
		scoring:  scoringService,
		notifier: notifier,
		scores:   scores,
		clock:    clk,
		sched:    scheduler,
		logger:   logger,
		cfg:      cfg,
		timers:   make(map[model.LobbyID]*questionTimer),
	}
}

// TimeLimitSeconds returns the per-question time limit in whole seconds
func (c *Controller) TimeLimitSeconds() int {
	return int(c.cfg.QuestionTimeLimit / time.Second)
}

// SelectCategory updates the lobby's selected category. Host only; the
// key must be a known category or empty (explicit "none").
func (c *Controller) SelectCategory(ctx context.Context, lobbyID model.LobbyID, requesterID model.PlayerID, category model.CategoryKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if !lobby.IsHost(requesterID) {
		return model.ErrNotHost
	}
	if category != "" && !c.bank.Has(category) {
		return model.ErrUnknownCategory
	}

	lobby.SelectedCategory = category
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("category selected",
		slog.String("lobby_id", string(lobbyID)),
		slog.String("category", string(category)),
	)
	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventCategoryUpdated, category))
	return nil
}

// StartGame begins the quiz. Host only; requires at least one player
// and a category with at least one question. Starting with a category
// different from the currently selected one re-selects it first.
func (c *Controller) StartGame(ctx context.Context, lobbyID model.LobbyID, requesterID model.PlayerID, category model.CategoryKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if !lobby.IsHost(requesterID) {
		return model.ErrNotHost
	}
	if len(lobby.Players) < 1 {
		return model.ErrInsufficientPlayers
	}

	if lobby.SelectedCategory != category {
		if !c.bank.Has(category) {
			return model.ErrUnknownCategory
		}
		lobby.SelectedCategory = category
		c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventCategoryUpdated, category))
	}

	questions, err := c.bank.ShuffledQuestions(lobby.SelectedCategory)
	if err != nil {
		// Deselect so the lobby is not stuck on a dead category
		lobby.SelectedCategory = ""
		_ = c.storage.SaveLobby(ctx, lobby)
		c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventCategoryUpdated, model.CategoryKey("")))
		return err
	}

	lobby.Questions = questions
	lobby.State = model.GameStateActive
	lobby.IsPaused = false
	lobby.RemainingOnPause = nil
	lobby.CurrentQuestion = -1
	lobby.Answers = make(map[int]map[model.PlayerID]model.AnswerRecord)
	for i := range lobby.Players {
		lobby.Players[i].Score = 0
		lobby.Players[i].Streak = 0
		lobby.Players[i].HasAnswered = false
	}
	lobby.Epoch++
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("game started",
		slog.String("lobby_id", string(lobbyID)),
		slog.String("category", string(lobby.SelectedCategory)),
		slog.Int("questions", len(questions)),
		slog.Int("players", len(lobby.Players)),
	)
	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventGameStarted, model.GameStartedPayload{
		LobbyID:  lobbyID,
		Players:  lobby.Players,
		Category: lobby.SelectedCategory,
	}))

	return c.advanceQuestionLocked(ctx, lobby)
}

// SubmitAnswer records a player's answer for the current question.
// Stale or duplicate submissions (wrong state, paused, index mismatch,
// unknown player, already answered) are logged and dropped without a
// reply: they are expected client races, not errors.
func (c *Controller) SubmitAnswer(ctx context.Context, lobbyID model.LobbyID, playerID model.PlayerID, questionIndex int, answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		c.logger.Info("answer for unknown lobby dropped", slog.String("lobby_id", string(lobbyID)))
		return nil
	}
	if lobby.State != model.GameStateActive || lobby.IsPaused || lobby.CurrentQuestion != questionIndex {
		c.logger.Info("stale answer dropped",
			slog.String("lobby_id", string(lobbyID)),
			slog.String("player_id", string(playerID)),
			slog.String("state", string(lobby.State)),
			slog.Bool("paused", lobby.IsPaused),
			slog.Int("client_index", questionIndex),
			slog.Int("server_index", lobby.CurrentQuestion),
		)
		return nil
	}

	player := lobby.GetPlayer(playerID)
	if player == nil || player.HasAnswered {
		c.logger.Info("duplicate or unknown answer dropped",
			slog.String("lobby_id", string(lobbyID)),
			slog.String("player_id", string(playerID)),
		)
		return nil
	}

	question := lobby.CurrentQuestionData()
	if question == nil {
		c.logger.Error("current question out of range",
			slog.String("lobby_id", string(lobbyID)),
			slog.Int("index", lobby.CurrentQuestion),
		)
		return nil
	}

	player.HasAnswered = true
	timeTaken := c.clock.Now().Sub(lobby.QuestionStartedAt)
	isCorrect := question.Answer == answer

	pointsEarned := 0
	if isCorrect {
		player.Streak++
		pointsEarned = c.scoring.Points(timeTaken, c.cfg.QuestionTimeLimit, player.Streak)
	} else {
		player.Streak = 0
	}
	player.Score += pointsEarned
	if player.Score < 0 {
		player.Score = 0
	}

	lobby.RecordAnswer(questionIndex, playerID, model.AnswerRecord{
		Answer:       answer,
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
		TimeTaken:    timeTaken.Seconds(),
	})
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	// Direct reply only: broadcasting would leak the answer to
	// players still on the clock.
	c.notifier.SendTo(playerID, model.NewEvent(model.EventAnswerResult, model.AnswerResultPayload{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.Answer,
		Score:         player.Score,
		Streak:        player.Streak,
		PointsEarned:  pointsEarned,
	}))

	if lobby.AllAnswered() && !lobby.IsPaused {
		return c.processQuestionEndLocked(ctx, lobby)
	}
	return nil
}

// TogglePause pauses or resumes the game. Host only, active games only.
func (c *Controller) TogglePause(ctx context.Context, lobbyID model.LobbyID, requesterID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if !lobby.IsHost(requesterID) {
		return model.ErrNotHost
	}
	if lobby.State != model.GameStateActive {
		return model.ErrGameNotActive
	}

	if lobby.IsPaused {
		return c.resumeLocked(ctx, lobby)
	}
	return c.pauseLocked(ctx, lobby)
}

func (c *Controller) pauseLocked(ctx context.Context, lobby *model.Lobby) error {
	timer := c.timers[lobby.ID]
	c.stopTimersLocked(lobby.ID)

	lobby.IsPaused = true
	lobby.Epoch++

	remaining := time.Duration(0)
	if timer == nil || !timer.revealed {
		elapsed := c.clock.Now().Sub(lobby.QuestionStartedAt)
		remaining = c.cfg.QuestionTimeLimit - elapsed
		if remaining < 0 {
			remaining = 0
		}
		lobby.RemainingOnPause = &remaining
	}

	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("game paused",
		slog.String("lobby_id", string(lobby.ID)),
		slog.Duration("remaining", remaining),
	)
	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventGamePaused, model.GamePausedPayload{
		RemainingTime: remaining.Seconds(),
	}))
	return nil
}

func (c *Controller) resumeLocked(ctx context.Context, lobby *model.Lobby) error {
	lobby.IsPaused = false
	lobby.Epoch++

	timer := c.timers[lobby.ID]
	revealed := timer != nil && timer.revealed

	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventGameResumed, nil))

	if revealed {
		// Paused during the answer-display gap: the question is
		// already over, so just reschedule the advance.
		lobby.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveLobby(ctx, lobby); err != nil {
			return err
		}
		c.scheduleAdvanceLocked(lobby)
		c.logger.Info("game resumed during answer display", slog.String("lobby_id", string(lobby.ID)))
		return nil
	}

	remaining := c.cfg.QuestionTimeLimit
	if lobby.RemainingOnPause != nil {
		remaining = *lobby.RemainingOnPause
	} else {
		c.logger.Warn("resume without captured remaining time, using full duration",
			slog.String("lobby_id", string(lobby.ID)))
	}
	lobby.RemainingOnPause = nil

	// Recompute the question clock so elapsed-before-pause is kept
	elapsedBeforePause := c.cfg.QuestionTimeLimit - remaining
	lobby.QuestionStartedAt = c.clock.Now().Add(-elapsedBeforePause)
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("game resumed",
		slog.String("lobby_id", string(lobby.ID)),
		slog.Duration("remaining", remaining),
	)
	c.startTimerLocked(lobby, remaining)
	return nil
}

// SkipToEnd forces the finished state immediately. Host only, active
// and unpaused games only.
func (c *Controller) SkipToEnd(ctx context.Context, lobbyID model.LobbyID, requesterID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if !lobby.IsHost(requesterID) {
		return model.ErrNotHost
	}
	if lobby.State != model.GameStateActive {
		return model.ErrGameNotActive
	}
	if lobby.IsPaused {
		return model.ErrGamePaused
	}

	c.logger.Info("host skipped to end", slog.String("lobby_id", string(lobbyID)))
	return c.endGameLocked(ctx, lobby)
}

// PlayAgain resets a finished (or still waiting) lobby back to the
// waiting state with a fresh scoreboard. Host only.
func (c *Controller) PlayAgain(ctx context.Context, lobbyID model.LobbyID, requesterID model.PlayerID, categories []model.CategoryKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	if !lobby.IsHost(requesterID) {
		return model.ErrNotHost
	}
	if lobby.State != model.GameStateFinished && lobby.State != model.GameStateWaiting {
		return model.ErrGameNotFinished
	}

	c.stopTimersLocked(lobbyID)
	delete(c.timers, lobbyID)

	for i := range lobby.Players {
		lobby.Players[i].Score = 0
		lobby.Players[i].Streak = 0
		lobby.Players[i].HasAnswered = false
	}
	lobby.CurrentQuestion = -1
	lobby.Questions = nil
	lobby.State = model.GameStateWaiting
	lobby.IsPaused = false
	lobby.RemainingOnPause = nil
	lobby.Answers = make(map[int]map[model.PlayerID]model.AnswerRecord)
	lobby.Epoch++
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("lobby reset for new game", slog.String("lobby_id", string(lobbyID)))
	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventLobbyReset, model.LobbyResetPayload{
		LobbyID:             lobby.ID,
		Players:             lobby.Players,
		GameState:           lobby.State,
		AvailableCategories: categories,
		SelectedCategory:    lobby.SelectedCategory,
	}))
	return nil
}

// CancelTimersLocked stops and forgets all timers for a lobby. The
// lobby controller calls this before deleting an emptied lobby.
// Caller must hold the reactor lock.
func (c *Controller) CancelTimersLocked(lobbyID model.LobbyID) {
	c.stopTimersLocked(lobbyID)
	delete(c.timers, lobbyID)
}

// CompleteQuestionIfAllAnsweredLocked ends the current question when a
// roster change leaves every remaining player answered, so a
// disconnect never stalls the round. Caller must hold the reactor lock.
func (c *Controller) CompleteQuestionIfAllAnsweredLocked(ctx context.Context, lobby *model.Lobby) error {
	if lobby.State != model.GameStateActive || lobby.IsPaused || !lobby.AllAnswered() {
		return nil
	}
	c.logger.Info("all remaining players answered after roster change",
		slog.String("lobby_id", string(lobby.ID)))
	return c.processQuestionEndLocked(ctx, lobby)
}

// advanceQuestionLocked moves the lobby to the next question or ends
// the game when the set is exhausted
func (c *Controller) advanceQuestionLocked(ctx context.Context, lobby *model.Lobby) error {
	if lobby.State != model.GameStateActive || lobby.IsPaused {
		c.logger.Info("question advance suppressed",
			slog.String("lobby_id", string(lobby.ID)),
			slog.String("state", string(lobby.State)),
			slog.Bool("paused", lobby.IsPaused),
		)
		return nil
	}

	for i := range lobby.Players {
		lobby.Players[i].HasAnswered = false
	}
	lobby.CurrentQuestion++

	if lobby.CurrentQuestion >= len(lobby.Questions) {
		return c.endGameLocked(ctx, lobby)
	}

	question := lobby.Questions[lobby.CurrentQuestion]
	lobby.QuestionStartedAt = c.clock.Now()
	lobby.RemainingOnPause = nil
	lobby.Epoch++
	lobby.UpdatedAt = c.clock.Now()

	if timer := c.timers[lobby.ID]; timer != nil {
		timer.revealed = false
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventNewQuestion, model.NewQuestionPayload{
		Question:       question.Question,
		Options:        question.Options,
		QuestionIndex:  lobby.CurrentQuestion,
		TotalQuestions: len(lobby.Questions),
		TimeLimit:      c.TimeLimitSeconds(),
		Category:       lobby.SelectedCategory,
	}))
	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventUpdateScores, lobby.ScoreSnapshot()))

	c.logger.Info("question sent",
		slog.String("lobby_id", string(lobby.ID)),
		slog.Int("index", lobby.CurrentQuestion),
		slog.Int("total", len(lobby.Questions)),
	)

	c.startTimerLocked(lobby, c.cfg.QuestionTimeLimit)
	return nil
}

// processQuestionEndLocked reveals the answer and schedules the next
// question. Idempotent per question: the reveal flag makes a repeat
// call for the same index a no-op, and the epoch bump disarms any
// still-queued timer.
func (c *Controller) processQuestionEndLocked(ctx context.Context, lobby *model.Lobby) error {
	if lobby.State != model.GameStateActive || lobby.IsPaused {
		c.logger.Info("question end suppressed",
			slog.String("lobby_id", string(lobby.ID)),
			slog.String("state", string(lobby.State)),
			slog.Bool("paused", lobby.IsPaused),
		)
		return nil
	}
	if timer := c.timers[lobby.ID]; timer != nil && timer.revealed {
		// Already ended for this index; the advance is pending. A leave
		// during the answer display must not re-reveal the question.
		return nil
	}

	c.stopTimersLocked(lobby.ID)
	lobby.Epoch++
	lobby.UpdatedAt = c.clock.Now()

	question := lobby.CurrentQuestionData()
	if question == nil {
		c.logger.Error("question end with no current question",
			slog.String("lobby_id", string(lobby.ID)),
			slog.Int("index", lobby.CurrentQuestion),
		)
		return c.advanceQuestionLocked(ctx, lobby)
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventQuestionOver, model.QuestionOverPayload{
		CorrectAnswer: question.Answer,
		Scores:        lobby.ScoreSnapshot(),
	}))
	c.logger.Info("question over",
		slog.String("lobby_id", string(lobby.ID)),
		slog.Int("index", lobby.CurrentQuestion),
	)

	timer := c.ensureTimerLocked(lobby.ID)
	timer.revealed = true
	c.scheduleAdvanceLocked(lobby)
	return nil
}

// endGameLocked transitions to finished and broadcasts final standings
func (c *Controller) endGameLocked(ctx context.Context, lobby *model.Lobby) error {
	c.stopTimersLocked(lobby.ID)
	delete(c.timers, lobby.ID)

	lobby.State = model.GameStateFinished
	lobby.IsPaused = false
	lobby.RemainingOnPause = nil
	lobby.Epoch++
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	standings := c.scoring.FinalStandings(lobby.Players)
	c.notifier.Broadcast(lobby.ID, model.NewEvent(model.EventGameOver, model.GameOverPayload{
		FinalScores: standings,
	}))
	c.logger.Info("game ended",
		slog.String("lobby_id", string(lobby.ID)),
		slog.Int("players", len(lobby.Players)),
	)

	c.submitScoresLocked(lobby)
	return nil
}

// submitScoresLocked hands final scores to the hall of fame. Failures
// are logged, never surfaced: the game outcome does not depend on the
// archive being reachable.
func (c *Controller) submitScoresLocked(lobby *model.Lobby) {
	if c.scores == nil || lobby.SelectedCategory == "" {
		return
	}

	now := c.clock.Now()
	records := make([]*model.ScoreRecord, 0, len(lobby.Players))
	for _, p := range lobby.Players {
		records = append(records, &model.ScoreRecord{
			PlayerName:  p.Name,
			QuestionSet: string(lobby.SelectedCategory),
			Score:       p.Score,
			SubmittedAt: now,
		})
	}

	lobbyID := lobby.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, record := range records {
			if err := c.scores.Submit(ctx, record); err != nil {
				c.logger.Warn("score submission failed",
					slog.String("lobby_id", string(lobbyID)),
					slog.String("player", record.PlayerName),
					slog.String("error", err.Error()),
				)
			}
		}
	}()
}
