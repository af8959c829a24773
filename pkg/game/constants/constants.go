package constants

import "time"

const (
	// Cols is the number of columns on the board
	Cols int = 40
	// Rows is the number of rows on the board
	Rows int = 40
	// CellSize is the rendered size of one cell in pixels
	CellSize int = 20

	// InitialSpeed is the interval between ticks at the start of a game
	InitialSpeed time.Duration = 800 * time.Millisecond
	// SpeedDecrement is subtracted from the interval each time food is eaten
	SpeedDecrement time.Duration = 5 * time.Millisecond
	// MinSpeed is the shortest interval the speed ramp can reach
	MinSpeed time.Duration = 50 * time.Millisecond

	// OriginX is the starting column of the snake
	OriginX int = 10
	// OriginY is the starting row of the snake
	OriginY int = 10

	// CommandQueueSize bounds the number of input commands waiting for the game loop
	CommandQueueSize int = 64
	// EventBufferSize is the channel capacity of each event subscription
	EventBufferSize int = 32
	// SwipeThreshold is the minimum swipe distance in pixels
	SwipeThreshold float64 = 30
)
