package game

import (
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/game/types"
)

type TickOutcome uint8

const (
	// TickSkipped means the game is paused or over and nothing changed
	TickSkipped TickOutcome = iota
	TickMoved
	TickAte
	TickCollided
)

func (o TickOutcome) String() string {
	switch o {
	case TickSkipped:
		return "skipped"
	case TickMoved:
		return "moved"
	case TickAte:
		return "ate"
	case TickCollided:
		return "collided"
	default:
		return "unknown"
	}
}

type TickResult struct {
	Outcome   TickOutcome
	Collision types.CollisionType
}

// Engine owns a single game state and applies the movement rules to it.
// It is not safe for concurrent use; GameManager serializes access.
type Engine struct {
	config     Config
	foodSource FoodSource
	state      *types.GameState
	body       *BodySpace
}

type NewEngineOptions struct {
	Config     Config
	FoodSource FoodSource
}

func NewEngine(opts NewEngineOptions) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	if opts.FoodSource == nil {
		opts.FoodSource = NewRandomFoodSource(uint64(time.Now().UnixNano()))
	}

	e := &Engine{
		config:     opts.Config,
		foodSource: opts.FoodSource,
	}
	e.Reset()
	return e, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// SetDirection replaces the direction used by the next tick.
// Reversing into the neck is allowed and ends the game on that tick.
func (e *Engine) SetDirection(d types.Direction) {
	e.state.Direction = d
}

// TogglePause flips the paused flag. It has no effect once the game is over.
func (e *Engine) TogglePause() {
	if e.state.GameOver {
		return
	}
	e.state.Paused = !e.state.Paused
}

// Tick advances the snake by one cell.
func (e *Engine) Tick() TickResult {
	if e.state.GameOver || e.state.Paused {
		return TickResult{Outcome: TickSkipped}
	}

	newHead := e.state.Head().Offset(e.state.Direction)
	if collision := e.checkCollision(newHead); collision != types.CollisionNone {
		e.state.GameOver = true
		e.state.Collision = collision
		return TickResult{Outcome: TickCollided, Collision: collision}
	}

	outcome := TickMoved
	if newHead == e.state.Food {
		e.state.Score++
		e.state.Food = e.foodSource.Next(e.config.Cols, e.config.Rows)
		e.state.Speed = e.nextSpeed()
		outcome = TickAte
	} else {
		e.state.Snake = e.state.Snake[:len(e.state.Snake)-1]
		e.body.PopTail()
	}

	e.state.Snake = append([]types.Coordinate{newHead}, e.state.Snake...)
	e.body.PushHead(newHead)
	e.state.Ticks++

	return TickResult{Outcome: outcome}
}

// checkCollision tests the candidate head against the walls and against
// every segment of the body as it was before the move.
func (e *Engine) checkCollision(head types.Coordinate) types.CollisionType {
	if !head.InBounds(e.config.Cols, e.config.Rows) {
		return types.CollisionWall
	}
	if e.body.Occupied(head) {
		return types.CollisionSelf
	}
	return types.CollisionNone
}

func (e *Engine) nextSpeed() time.Duration {
	speed := e.state.Speed - e.config.SpeedDecrement
	if speed < e.config.MinSpeed {
		return e.config.MinSpeed
	}
	return speed
}

// Reset discards the current game and starts a new one.
func (e *Engine) Reset() {
	e.load(&types.GameState{
		Snake:     []types.Coordinate{e.config.Origin},
		Food:      e.foodSource.Next(e.config.Cols, e.config.Rows),
		Direction: types.DirectionRight,
		Speed:     e.config.InitialSpeed,
	})
}

// load replaces the state and rebuilds the collision space around it.
func (e *Engine) load(state *types.GameState) {
	e.state = state
	e.body = NewBodySpace(e.config.Cols, e.config.Rows, state.Snake)
}

// State returns a copy of the current game state.
func (e *Engine) State() *types.GameState {
	return e.state.Copy()
}

// Speed returns the interval to wait before the next tick.
func (e *Engine) Speed() time.Duration {
	return e.state.Speed
}

func (e *Engine) IsGameOver() bool {
	return e.state.GameOver
}

func (e *Engine) IsPaused() bool {
	return e.state.Paused
}
