package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/events"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
)

// GameManager runs an Engine on its own goroutine. Input is queued and
// applied by the loop, so the engine is never touched concurrently.
type GameManager struct {
	engine       *Engine
	commandQueue queue.Queue
	stateManager state.StateManager
	eventBus     *events.Bus
	logger       *log.Logger
	wake         chan struct{}
	timer        *time.Timer
	// interval is the duration the timer was last armed with
	interval time.Duration
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Engine       *Engine
	CommandQueue queue.Queue
	StateManager state.StateManager
	// EventBus is optional
	EventBus *events.Bus
	// Logger defaults to the package logger
	Logger *log.Logger
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &GameManager{
		engine:       opts.Engine,
		commandQueue: opts.CommandQueue,
		stateManager: opts.StateManager,
		eventBus:     opts.EventBus,
		logger:       logger,
		wake:         make(chan struct{}, 1),
	}
}

// Start runs the game loop until ctx is cancelled.
func (gm *GameManager) Start(ctx context.Context) error {
	gm.interval = gm.engine.Speed()
	gm.timer = time.NewTimer(gm.interval)
	defer gm.stopTimer()

	if err := gm.publishState(ctx); err != nil {
		return fmt.Errorf("failed to publish initial state: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gm.wake:
			if _, err := gm.processCommands(ctx); err != nil {
				gm.logger.Error("Failed to process commands: %v", err)
			}
		case <-gm.timer.C:
			if err := gm.gameTick(ctx); err != nil {
				gm.logger.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick applies pending input, advances the engine and schedules the
// next tick with the speed that resulted from this one. A reset in the
// pending input has already re-armed the timer, so the new game waits a
// full interval before its first move.
func (gm *GameManager) gameTick(ctx context.Context) error {
	reset, err := gm.processCommands(ctx)
	if err != nil {
		gm.logger.Error("Failed to process commands: %v", err)
	}
	if reset {
		return nil
	}

	result := gm.engine.Tick()
	switch result.Outcome {
	case TickAte:
		s := gm.engine.State()
		gm.logger.Debug("Food eaten, score %d, speed %v", s.Score, s.Speed)
		gm.publishEvent(&types.FoodEatenEvent{Score: s.Score, Food: s.Food})
	case TickCollided:
		s := gm.engine.State()
		gm.logger.Info("Game over with score %d after %s collision", s.Score, result.Collision)
		gm.publishEvent(&types.GameOverEvent{Score: s.Score, Collision: result.Collision})
	}

	if result.Outcome != TickSkipped {
		if err := gm.publishState(ctx); err != nil {
			return fmt.Errorf("failed to publish state: %v", err)
		}
	}

	if gm.engine.IsGameOver() {
		gm.stopTimer()
		return nil
	}
	gm.resetTimer(gm.engine.Speed())
	return nil
}

// processCommands drains the command queue in order and reports whether
// the batch reset the game.
func (gm *GameManager) processCommands(ctx context.Context) (bool, error) {
	pending, err := gm.commandQueue.ReadAllMessages()
	if err != nil {
		return false, fmt.Errorf("failed to read commands: %v", err)
	}
	if len(pending) == 0 {
		return false, nil
	}

	reset := false
	for _, item := range pending {
		switch command := item.(type) {
		case *types.SetDirectionCommand:
			gm.logger.Trace("Direction set to %s", command.Direction)
			gm.engine.SetDirection(command.Direction)
		case *types.TogglePauseCommand:
			gm.engine.TogglePause()
			paused := gm.engine.IsPaused()
			gm.logger.Debug("Paused: %t", paused)
			gm.publishEvent(&types.PauseToggledEvent{Paused: paused})
		case *types.ResetCommand:
			gm.logger.Debug("Resetting game")
			gm.engine.Reset()
			gm.resetTimer(gm.engine.Speed())
			gm.publishEvent(&types.ResetEvent{})
			reset = true
		default:
			gm.logger.Warn("Unhandled command type: %T", item)
		}
	}

	return reset, gm.publishState(ctx)
}

func (gm *GameManager) publishState(ctx context.Context) error {
	s := gm.engine.State()
	if err := gm.stateManager.Set(ctx, s); err != nil {
		return fmt.Errorf("failed to set state: %v", err)
	}
	gm.publishEvent(&types.StateUpdatedEvent{State: s})
	return nil
}

func (gm *GameManager) publishEvent(event interface{}) {
	if gm.eventBus == nil {
		return
	}
	gm.eventBus.Publish(event)
}

// resetTimer re-arms the timer, discarding a pending fire.
func (gm *GameManager) resetTimer(d time.Duration) {
	if gm.timer == nil {
		return
	}
	gm.stopTimer()
	gm.interval = d
	gm.timer.Reset(d)
}

func (gm *GameManager) stopTimer() {
	if gm.timer == nil {
		return
	}
	if !gm.timer.Stop() {
		select {
		case <-gm.timer.C:
		default:
		}
	}
}

func (gm *GameManager) SetDirection(d types.Direction) error {
	return gm.enqueue(&types.SetDirectionCommand{Direction: d})
}

func (gm *GameManager) TogglePause() error {
	return gm.enqueue(&types.TogglePauseCommand{})
}

func (gm *GameManager) Reset() error {
	return gm.enqueue(&types.ResetCommand{})
}

func (gm *GameManager) enqueue(command interface{}) error {
	if err := gm.commandQueue.Enqueue(command); err != nil {
		return fmt.Errorf("failed to enqueue %T: %v", command, err)
	}
	select {
	case gm.wake <- struct{}{}:
	default:
	}
	return nil
}

// State returns the last published snapshot.
func (gm *GameManager) State(ctx context.Context) (*types.GameState, error) {
	return gm.stateManager.Get(ctx)
}

func (gm *GameManager) Config() Config {
	return gm.engine.Config()
}
