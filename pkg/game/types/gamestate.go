package types

import "time"

type GameState struct {
	// Snake is ordered head first and always has at least one segment
	Snake     []Coordinate  `json:"snake"`
	Food      Coordinate    `json:"food"`
	Direction Direction     `json:"direction"`
	Score     int           `json:"score"`
	// Speed is the interval between ticks
	Speed     time.Duration `json:"speed"`
	Paused    bool          `json:"paused"`
	GameOver  bool          `json:"gameOver"`
	Collision CollisionType `json:"collision"`
	// Ticks counts the ticks that moved the snake
	Ticks     uint64        `json:"ticks"`
}

type Status string

const (
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "game_over"
)

func (gs *GameState) Status() Status {
	switch {
	case gs.GameOver:
		return StatusGameOver
	case gs.Paused:
		return StatusPaused
	default:
		return StatusRunning
	}
}

func (gs *GameState) Head() Coordinate {
	return gs.Snake[0]
}

// Copy returns a deep copy of the game state.
func (gs *GameState) Copy() *GameState {
	snake := make([]Coordinate, len(gs.Snake))
	copy(snake, gs.Snake)
	return &GameState{
		Snake:     snake,
		Food:      gs.Food,
		Direction: gs.Direction,
		Score:     gs.Score,
		Speed:     gs.Speed,
		Paused:    gs.Paused,
		GameOver:  gs.GameOver,
		Collision: gs.Collision,
		Ticks:     gs.Ticks,
	}
}
