package game

import (
	"flag"
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/types"
)

// Config holds the board geometry and the speed ramp of a game.
type Config struct {
	Cols           int
	Rows           int
	CellSize       int
	InitialSpeed   time.Duration
	MinSpeed       time.Duration
	SpeedDecrement time.Duration
	Origin         types.Coordinate
}

func DefaultConfig() Config {
	return Config{
		Cols:           constants.Cols,
		Rows:           constants.Rows,
		CellSize:       constants.CellSize,
		InitialSpeed:   constants.InitialSpeed,
		MinSpeed:       constants.MinSpeed,
		SpeedDecrement: constants.SpeedDecrement,
		Origin:         types.Coordinate{X: constants.OriginX, Y: constants.OriginY},
	}
}

func (c Config) Validate() error {
	if c.Cols <= 0 || c.Rows <= 0 {
		return fmt.Errorf("board must have positive dimensions, got %dx%d", c.Cols, c.Rows)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", c.CellSize)
	}
	if !c.Origin.InBounds(c.Cols, c.Rows) {
		return fmt.Errorf("origin %s is outside the %dx%d board", c.Origin, c.Cols, c.Rows)
	}
	if c.InitialSpeed <= 0 || c.MinSpeed <= 0 {
		return fmt.Errorf("speeds must be positive, got initial %v and minimum %v", c.InitialSpeed, c.MinSpeed)
	}
	if c.MinSpeed > c.InitialSpeed {
		return fmt.Errorf("minimum speed %v exceeds initial speed %v", c.MinSpeed, c.InitialSpeed)
	}
	if c.SpeedDecrement < 0 {
		return fmt.Errorf("speed decrement must not be negative, got %v", c.SpeedDecrement)
	}
	// snapshots carry speeds in whole milliseconds
	for _, d := range []time.Duration{c.InitialSpeed, c.MinSpeed, c.SpeedDecrement} {
		if d%time.Millisecond != 0 {
			return fmt.Errorf("speeds must be whole milliseconds, got %v", d)
		}
	}
	return nil
}

// BindFlags registers command line flags that override the fields of c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Cols, "cols", c.Cols, "Number of board columns")
	fs.IntVar(&c.Rows, "rows", c.Rows, "Number of board rows")
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "Size of a cell in pixels")
	fs.DurationVar(&c.InitialSpeed, "initial-speed", c.InitialSpeed, "Interval between ticks at the start of a game")
	fs.DurationVar(&c.MinSpeed, "min-speed", c.MinSpeed, "Shortest interval between ticks")
	fs.DurationVar(&c.SpeedDecrement, "speed-decrement", c.SpeedDecrement, "Amount the interval shrinks per food eaten")
	fs.IntVar(&c.Origin.X, "origin-x", c.Origin.X, "Starting column of the snake")
	fs.IntVar(&c.Origin.Y, "origin-y", c.Origin.Y, "Starting row of the snake")
}
