package input

import (
	"errors"
	"sort"
	"testing"

	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) SetDirection(d types.Direction) error {
	return m.Called(d).Error(0)
}

func (m *mockController) TogglePause() error {
	return m.Called().Error(0)
}

func (m *mockController) Reset() error {
	return m.Called().Error(0)
}

func TestActionFromKey(t *testing.T) {
	tests := []struct {
		key    string
		want   Action
		wantOK bool
	}{
		{key: "ArrowUp", want: ActionUp, wantOK: true},
		{key: "ArrowDown", want: ActionDown, wantOK: true},
		{key: "ArrowLeft", want: ActionLeft, wantOK: true},
		{key: "ArrowRight", want: ActionRight, wantOK: true},
		{key: "p", want: ActionPause, wantOK: true},
		{key: "P", want: ActionNone},
		{key: "w", want: ActionNone},
		{key: "Enter", want: ActionNone},
		{key: "", want: ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ActionFromKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectionFromSwipe(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   types.Direction
		wantOK bool
	}{
		{name: "right", dx: 80, dy: 10, want: types.DirectionRight, wantOK: true},
		{name: "left", dx: -80, dy: -30, want: types.DirectionLeft, wantOK: true},
		{name: "down", dx: 5, dy: 60, want: types.DirectionDown, wantOK: true},
		{name: "up", dx: -40, dy: -41, want: types.DirectionUp, wantOK: true},
		{name: "diagonal resolves horizontally", dx: -50, dy: 50, want: types.DirectionLeft, wantOK: true},
		{name: "too short", dx: 10, dy: 5},
		{name: "too short vertical", dx: 0, dy: -29},
		{name: "tap", dx: 0, dy: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DirectionFromSwipe(tt.dx, tt.dy, 30)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAction_Direction(t *testing.T) {
	for _, d := range []types.Direction{types.DirectionUp, types.DirectionDown, types.DirectionLeft, types.DirectionRight} {
		got, ok := ActionFromDirection(d).Direction()
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ActionPause.Direction()
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	c := &mockController{}
	c.On("SetDirection", types.DirectionLeft).Return(nil).Once()
	c.On("TogglePause").Return(nil).Once()
	c.On("Reset").Return(errors.New("queue is full")).Once()

	assert.NoError(t, Dispatch(c, ActionLeft))
	assert.NoError(t, Dispatch(c, ActionPause))
	assert.Error(t, Dispatch(c, ActionReset))
	assert.NoError(t, Dispatch(c, ActionNone))
	assert.Error(t, Dispatch(c, Action(99)))

	c.AssertExpectations(t)
}

func TestSwipeTracker(t *testing.T) {
	s := NewSwipeTracker(30)

	s.Begin(1, 100, 100)
	s.Begin(2, 10, 10)
	s.Move(1, 100, 150)
	s.Move(2, 12, 11)
	s.Move(3, 500, 500)

	ids := s.Active()
	sort.Ints(ids)
	assert.Equal(t, []int{1, 2}, ids)

	d, ok := s.End(1)
	assert.True(t, ok)
	assert.Equal(t, types.DirectionDown, d)

	_, ok = s.End(2)
	assert.False(t, ok)

	_, ok = s.End(1)
	assert.False(t, ok)
	assert.Empty(t, s.Active())
}
