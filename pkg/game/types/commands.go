package types

// Commands are queued by input sources and applied by the game loop
// before the next tick.

type SetDirectionCommand struct {
	Direction Direction
}

type TogglePauseCommand struct{}

type ResetCommand struct{}
