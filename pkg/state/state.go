package state

import (
	"context"
	"errors"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
)

// ErrNoState is returned by Get before any state has been set.
var ErrNoState = errors.New("no game state")

// StateManager provides shared access to the latest game state snapshot.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current game state.
	Get(ctx context.Context) (*gametypes.GameState, error)
	// Set sets the current game state.
	Set(ctx context.Context, gameState *gametypes.GameState) error
}
