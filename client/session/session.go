package session

import (
	"errors"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
)

var ErrClosed = errors.New("session closed")

// Session is a running game the client renders and steers.
type Session interface {
	input.Controller
	// Snapshot returns the latest known state, or nil before the first one arrives.
	Snapshot() *types.GameState
	Config() game.Config
	// Latency is the smoothed round trip to the game, zero when it runs in-process.
	Latency() time.Duration
	// Err reports why the session stopped, if it has.
	Err() error
	Close() error
}
