package game

import (
	"testing"
	"time"

	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedFoodSource struct {
	food  types.Coordinate
	calls int
}

func (s *fixedFoodSource) Next(cols, rows int) types.Coordinate {
	s.calls++
	return s.food
}

func testConfig() Config {
	return Config{
		Cols:           20,
		Rows:           20,
		CellSize:       20,
		InitialSpeed:   400 * time.Millisecond,
		MinSpeed:       50 * time.Millisecond,
		SpeedDecrement: 5 * time.Millisecond,
		Origin:         types.Coordinate{X: 10, Y: 10},
	}
}

func newTestEngine(t *testing.T, state *types.GameState, food types.Coordinate) *Engine {
	t.Helper()
	e, err := NewEngine(NewEngineOptions{
		Config:     testConfig(),
		FoodSource: &fixedFoodSource{food: food},
	})
	require.NoError(t, err)
	if state != nil {
		e.load(state)
	}
	return e
}

func TestNewEngine_invalidConfig(t *testing.T) {
	config := testConfig()
	config.Origin = types.Coordinate{X: 20, Y: 0}

	_, err := NewEngine(NewEngineOptions{Config: config})
	assert.Error(t, err)
}

func TestNewEngine_initialState(t *testing.T) {
	e := newTestEngine(t, nil, types.Coordinate{X: 3, Y: 4})

	got := e.State()
	assert.Equal(t, []types.Coordinate{{X: 10, Y: 10}}, got.Snake)
	assert.Equal(t, types.Coordinate{X: 3, Y: 4}, got.Food)
	assert.Equal(t, types.DirectionRight, got.Direction)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, 400*time.Millisecond, got.Speed)
	assert.False(t, got.Paused)
	assert.False(t, got.GameOver)
	assert.Equal(t, types.StatusRunning, got.Status())
}

func TestEngine_Tick(t *testing.T) {
	tests := []struct {
		name          string
		state         *types.GameState
		wantOutcome   TickOutcome
		wantCollision types.CollisionType
		wantSnake     []types.Coordinate
		wantScore     int
		wantSpeed     time.Duration
		wantGameOver  bool
	}{
		{
			name: "move without food drops the tail",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}},
				Food:      types.Coordinate{X: 0, Y: 0},
				Direction: types.DirectionDown,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome: TickMoved,
			wantSnake:   []types.Coordinate{{X: 5, Y: 6}, {X: 5, Y: 5}, {X: 4, Y: 5}},
			wantSpeed:   400 * time.Millisecond,
		},
		{
			name: "eating food grows the snake",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 10, Y: 10}},
				Food:      types.Coordinate{X: 11, Y: 10},
				Direction: types.DirectionRight,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome: TickAte,
			wantSnake:   []types.Coordinate{{X: 11, Y: 10}, {X: 10, Y: 10}},
			wantScore:   1,
			wantSpeed:   395 * time.Millisecond,
		},
		{
			name: "speed is floored at the minimum",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 10, Y: 10}},
				Food:      types.Coordinate{X: 10, Y: 9},
				Direction: types.DirectionUp,
				Score:     70,
				Speed:     52 * time.Millisecond,
			},
			wantOutcome: TickAte,
			wantSnake:   []types.Coordinate{{X: 10, Y: 9}, {X: 10, Y: 10}},
			wantScore:   71,
			wantSpeed:   50 * time.Millisecond,
		},
		{
			name: "left wall",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 0, Y: 5}, {X: 1, Y: 5}},
				Food:      types.Coordinate{X: 9, Y: 9},
				Direction: types.DirectionLeft,
				Score:     3,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome:   TickCollided,
			wantCollision: types.CollisionWall,
			wantSnake:     []types.Coordinate{{X: 0, Y: 5}, {X: 1, Y: 5}},
			wantScore:     3,
			wantSpeed:     400 * time.Millisecond,
			wantGameOver:  true,
		},
		{
			name: "bottom wall",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 4, Y: 19}},
				Food:      types.Coordinate{X: 9, Y: 9},
				Direction: types.DirectionDown,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome:   TickCollided,
			wantCollision: types.CollisionWall,
			wantSnake:     []types.Coordinate{{X: 4, Y: 19}},
			wantSpeed:     400 * time.Millisecond,
			wantGameOver:  true,
		},
		{
			name: "self collision",
			state: &types.GameState{
				Snake: []types.Coordinate{
					{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}, {X: 4, Y: 7}, {X: 4, Y: 6}, {X: 4, Y: 5},
				},
				Food:      types.Coordinate{X: 9, Y: 9},
				Direction: types.DirectionLeft,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome:   TickCollided,
			wantCollision: types.CollisionSelf,
			wantSnake: []types.Coordinate{
				{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}, {X: 4, Y: 7}, {X: 4, Y: 6}, {X: 4, Y: 5},
			},
			wantSpeed:    400 * time.Millisecond,
			wantGameOver: true,
		},
		{
			name: "reversing into the neck collides",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 5, Y: 5}, {X: 4, Y: 5}},
				Food:      types.Coordinate{X: 9, Y: 9},
				Direction: types.DirectionLeft,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome:   TickCollided,
			wantCollision: types.CollisionSelf,
			wantSnake:     []types.Coordinate{{X: 5, Y: 5}, {X: 4, Y: 5}},
			wantSpeed:     400 * time.Millisecond,
			wantGameOver:  true,
		},
		{
			name: "moving into the current tail collides",
			state: &types.GameState{
				Snake:     []types.Coordinate{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}},
				Food:      types.Coordinate{X: 9, Y: 9},
				Direction: types.DirectionDown,
				Speed:     400 * time.Millisecond,
			},
			wantOutcome:   TickCollided,
			wantCollision: types.CollisionSelf,
			wantSnake:     []types.Coordinate{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}},
			wantSpeed:     400 * time.Millisecond,
			wantGameOver:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.state, types.Coordinate{X: 1, Y: 1})

			result := e.Tick()

			got := e.State()
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantCollision, result.Collision)
			assert.Equal(t, tt.wantCollision, got.Collision)
			assert.Equal(t, tt.wantSnake, got.Snake)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantSpeed, got.Speed)
			assert.Equal(t, tt.wantGameOver, got.GameOver)
		})
	}
}

func TestEngine_Tick_replacesFood(t *testing.T) {
	e := newTestEngine(t, &types.GameState{
		Snake:     []types.Coordinate{{X: 10, Y: 10}},
		Food:      types.Coordinate{X: 11, Y: 10},
		Direction: types.DirectionRight,
		Speed:     400 * time.Millisecond,
	}, types.Coordinate{X: 2, Y: 17})

	e.Tick()

	got := e.State()
	assert.Equal(t, types.Coordinate{X: 2, Y: 17}, got.Food)
	assert.True(t, got.Food.InBounds(20, 20))
}

func TestEngine_Tick_noMutationAfterGameOver(t *testing.T) {
	e := newTestEngine(t, &types.GameState{
		Snake:     []types.Coordinate{{X: 0, Y: 5}, {X: 1, Y: 5}},
		Food:      types.Coordinate{X: 9, Y: 9},
		Direction: types.DirectionLeft,
		Speed:     400 * time.Millisecond,
	}, types.Coordinate{X: 1, Y: 1})

	require.Equal(t, TickCollided, e.Tick().Outcome)
	before := e.State()

	for i := 0; i < 5; i++ {
		assert.Equal(t, TickSkipped, e.Tick().Outcome)
	}
	e.TogglePause()
	e.SetDirection(types.DirectionRight)
	e.Tick()

	after := e.State()
	assert.Equal(t, before.Snake, after.Snake)
	assert.Equal(t, before.Score, after.Score)
	assert.False(t, after.Paused)
	assert.Equal(t, types.StatusGameOver, after.Status())
}

func TestEngine_TogglePause(t *testing.T) {
	e := newTestEngine(t, nil, types.Coordinate{X: 0, Y: 0})
	before := e.State()

	e.TogglePause()
	assert.Equal(t, types.StatusPaused, e.State().Status())
	for i := 0; i < 10; i++ {
		assert.Equal(t, TickSkipped, e.Tick().Outcome)
	}
	assert.Equal(t, before.Snake, e.State().Snake)

	e.TogglePause()
	assert.Equal(t, TickMoved, e.Tick().Outcome)
	assert.Equal(t, []types.Coordinate{{X: 11, Y: 10}}, e.State().Snake)
}

func TestEngine_SetDirection(t *testing.T) {
	e := newTestEngine(t, nil, types.Coordinate{X: 0, Y: 0})

	e.SetDirection(types.DirectionUp)
	e.SetDirection(types.DirectionLeft)
	assert.Equal(t, []types.Coordinate{{X: 10, Y: 10}}, e.State().Snake, "setting a direction must not move the snake")

	e.Tick()
	assert.Equal(t, []types.Coordinate{{X: 9, Y: 10}}, e.State().Snake)
}

func TestEngine_Reset(t *testing.T) {
	e := newTestEngine(t, &types.GameState{
		Snake:     []types.Coordinate{{X: 0, Y: 5}, {X: 1, Y: 5}},
		Food:      types.Coordinate{X: 9, Y: 9},
		Direction: types.DirectionLeft,
		Score:     12,
		Speed:     200 * time.Millisecond,
		Paused:    true,
	}, types.Coordinate{X: 7, Y: 7})

	e.Reset()
	first := e.State()
	e.Reset()
	second := e.State()

	assert.Equal(t, first, second)
	assert.Equal(t, []types.Coordinate{{X: 10, Y: 10}}, second.Snake)
	assert.Equal(t, types.Coordinate{X: 7, Y: 7}, second.Food)
	assert.Equal(t, types.DirectionRight, second.Direction)
	assert.Equal(t, 0, second.Score)
	assert.Equal(t, 400*time.Millisecond, second.Speed)
	assert.False(t, second.Paused)
	assert.False(t, second.GameOver)
	assert.Equal(t, types.CollisionNone, second.Collision)
}

func TestEngine_collisionSpaceFollowsBody(t *testing.T) {
	e := newTestEngine(t, nil, types.Coordinate{X: 0, Y: 0})

	// the snake leaves (10,10) on the first tick, so heading back into it is safe
	e.Tick()
	e.SetDirection(types.DirectionDown)
	e.Tick()
	e.SetDirection(types.DirectionLeft)
	e.Tick()
	e.SetDirection(types.DirectionUp)
	result := e.Tick()

	assert.Equal(t, TickMoved, result.Outcome)
	assert.Equal(t, []types.Coordinate{{X: 10, Y: 10}}, e.State().Snake)
	assert.Equal(t, 1, e.body.Len())
}

func TestEngine_State_isCopy(t *testing.T) {
	e := newTestEngine(t, nil, types.Coordinate{X: 0, Y: 0})

	snapshot := e.State()
	snapshot.Snake[0] = types.Coordinate{X: 0, Y: 0}
	snapshot.Score = 99

	got := e.State()
	assert.Equal(t, types.Coordinate{X: 10, Y: 10}, got.Head())
	assert.Equal(t, 0, got.Score)
}

func TestEngine_randomFoodInBounds(t *testing.T) {
	config := testConfig()
	e, err := NewEngine(NewEngineOptions{
		Config:     config,
		FoodSource: NewRandomFoodSource(42),
	})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		e.Reset()
		assert.True(t, e.State().Food.InBounds(config.Cols, config.Rows))
	}
}
