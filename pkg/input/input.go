package input

import (
	"fmt"
	"math"

	"github.com/cbodonnell/snake/pkg/game/types"
)

type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPause
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionPause:
		return "pause"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Direction returns the direction a movement action selects.
func (a Action) Direction() (types.Direction, bool) {
	switch a {
	case ActionUp:
		return types.DirectionUp, true
	case ActionDown:
		return types.DirectionDown, true
	case ActionLeft:
		return types.DirectionLeft, true
	case ActionRight:
		return types.DirectionRight, true
	default:
		return 0, false
	}
}

// ActionFromDirection is the inverse of Action.Direction.
func ActionFromDirection(d types.Direction) Action {
	switch d {
	case types.DirectionUp:
		return ActionUp
	case types.DirectionDown:
		return ActionDown
	case types.DirectionLeft:
		return ActionLeft
	case types.DirectionRight:
		return ActionRight
	default:
		return ActionNone
	}
}

// ActionFromKey maps a KeyboardEvent.key value to an action.
// Keys without a binding report false.
func ActionFromKey(key string) (Action, bool) {
	switch key {
	case "ArrowUp":
		return ActionUp, true
	case "ArrowDown":
		return ActionDown, true
	case "ArrowLeft":
		return ActionLeft, true
	case "ArrowRight":
		return ActionRight, true
	case "p":
		return ActionPause, true
	default:
		return ActionNone, false
	}
}

// DirectionFromSwipe picks the direction of the dominant axis of a swipe.
// Screen coordinates grow downward. Equal axes resolve horizontally, and
// swipes shorter than threshold report false.
func DirectionFromSwipe(dx, dy, threshold float64) (types.Direction, bool) {
	if math.Abs(dx) >= math.Abs(dy) {
		if math.Abs(dx) < threshold || dx == 0 {
			return 0, false
		}
		if dx > 0 {
			return types.DirectionRight, true
		}
		return types.DirectionLeft, true
	}
	if math.Abs(dy) < threshold {
		return 0, false
	}
	if dy > 0 {
		return types.DirectionDown, true
	}
	return types.DirectionUp, true
}

// Controller receives the requests produced by input sources.
type Controller interface {
	SetDirection(d types.Direction) error
	TogglePause() error
	Reset() error
}

func Dispatch(c Controller, a Action) error {
	if d, ok := a.Direction(); ok {
		return c.SetDirection(d)
	}
	switch a {
	case ActionPause:
		return c.TogglePause()
	case ActionReset:
		return c.Reset()
	case ActionNone:
		return nil
	default:
		return fmt.Errorf("unknown action: %d", a)
	}
}
