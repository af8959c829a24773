package types

// StateUpdatedEvent carries a snapshot taken after the state changed.
type StateUpdatedEvent struct {
	State *GameState
}

type FoodEatenEvent struct {
	Score int
	// Food is the replacement food position
	Food Coordinate
}

type GameOverEvent struct {
	Score     int
	Collision CollisionType
}

type PauseToggledEvent struct {
	Paused bool
}

type ResetEvent struct{}
