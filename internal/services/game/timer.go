package game

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/quizhaus/quizhaus/internal/dependencies/sched"
	"github.com/quizhaus/quizhaus/internal/model"
)

// questionTimer holds the scheduled work for one lobby's current
// question. Handles live here rather than on the lobby so that a
// serialized lobby never carries live timers.
type questionTimer struct {
	interval sched.Handle // one-second countdown broadcast
	timeout  sched.Handle // hard end of the answer window
	advance  sched.Handle // answer-display gap before the next question

	secondsLeft int
	epoch       uint64 // lobby epoch the handles were scheduled against
	revealed    bool   // true between questionOver and the next question
}

func (t *questionTimer) stop() {
	if t.interval != nil {
		t.interval.Stop()
		t.interval = nil
	}
	if t.timeout != nil {
		t.timeout.Stop()
		t.timeout = nil
	}
	if t.advance != nil {
		t.advance.Stop()
		t.advance = nil
	}
}

func (c *Controller) ensureTimerLocked(lobbyID model.LobbyID) *questionTimer {
	timer := c.timers[lobbyID]
	if timer == nil {
		timer = &questionTimer{}
		c.timers[lobbyID] = timer
	}
	return timer
}

// stopTimersLocked stops all scheduled work for a lobby without
// forgetting the timer bookkeeping (pause needs the revealed flag to
// survive). Caller must hold the reactor lock.
func (c *Controller) stopTimersLocked(lobbyID model.LobbyID) {
	if timer := c.timers[lobbyID]; timer != nil {
		timer.stop()
	}
}

// startTimerLocked arms the countdown and the hard timeout for the
// current question with the given remaining window. Caller must hold
// the reactor lock and have already bumped the lobby epoch.
func (c *Controller) startTimerLocked(lobby *model.Lobby, remaining time.Duration) {
	timer := c.ensureTimerLocked(lobby.ID)
	timer.stop()
	timer.epoch = lobby.Epoch
	timer.revealed = false
	timer.secondsLeft = int(math.Ceil(remaining.Seconds()))

	lobbyID := lobby.ID
	epoch := lobby.Epoch

	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventTimerUpdate, timer.secondsLeft))

	timer.interval = c.sched.Every(time.Second, func() {
		c.onTick(lobbyID, epoch)
	})
	// Buffer past the nominal window so the zero tick is broadcast
	// before the question is force-ended
	timer.timeout = c.sched.AfterFunc(remaining+timeoutBuffer, func() {
		c.onTimeout(lobbyID, epoch)
	})
}

// scheduleAdvanceLocked arms the answer-display gap after which the
// next question starts. Caller must hold the reactor lock.
func (c *Controller) scheduleAdvanceLocked(lobby *model.Lobby) {
	timer := c.ensureTimerLocked(lobby.ID)
	timer.epoch = lobby.Epoch

	lobbyID := lobby.ID
	epoch := lobby.Epoch
	timer.advance = c.sched.AfterFunc(c.cfg.AnswerDisplayDelay, func() {
		c.onAdvance(lobbyID, epoch)
	})
}

// onTick fires once per second while a question is open
func (c *Controller) onTick(lobbyID model.LobbyID, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := c.timers[lobbyID]
	if timer == nil || timer.epoch != epoch {
		return
	}
	lobby, err := c.storage.GetLobby(context.Background(), lobbyID)
	if err != nil || lobby.State != model.GameStateActive || lobby.IsPaused || lobby.Epoch != epoch {
		return
	}

	timer.secondsLeft--
	if timer.secondsLeft < 0 {
		timer.secondsLeft = 0
	}
	c.notifier.Broadcast(lobbyID, model.NewEvent(model.EventTimerUpdate, timer.secondsLeft))

	if timer.secondsLeft == 0 && timer.interval != nil {
		timer.interval.Stop()
		timer.interval = nil
	}
}

// onTimeout force-ends the question when the answer window closes
func (c *Controller) onTimeout(lobbyID model.LobbyID, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := c.timers[lobbyID]
	if timer == nil || timer.epoch != epoch {
		return
	}
	ctx := context.Background()
	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil || lobby.State != model.GameStateActive || lobby.IsPaused || lobby.Epoch != epoch {
		return
	}

	c.logger.Info("question timed out",
		slog.String("lobby_id", string(lobbyID)),
		slog.Int("index", lobby.CurrentQuestion),
	)
	if err := c.processQuestionEndLocked(ctx, lobby); err != nil {
		c.logger.Error("question end after timeout failed",
			slog.String("lobby_id", string(lobbyID)),
			slog.String("error", err.Error()),
		)
	}
}

// onAdvance fires after the answer-display gap and starts the next
// question
func (c *Controller) onAdvance(lobbyID model.LobbyID, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := c.timers[lobbyID]
	if timer == nil || timer.epoch != epoch {
		return
	}
	ctx := context.Background()
	lobby, err := c.storage.GetLobby(ctx, lobbyID)
	if err != nil || lobby.State != model.GameStateActive || lobby.IsPaused || lobby.Epoch != epoch {
		return
	}

	if err := c.advanceQuestionLocked(ctx, lobby); err != nil {
		c.logger.Error("question advance failed",
			slog.String("lobby_id", string(lobbyID)),
			slog.String("error", err.Error()),
		)
	}
}
