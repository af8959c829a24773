package input

import (
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyNames gives the KeyboardEvent.key value of each key we listen for.
var keyNames = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyArrowUp, "ArrowUp"},
	{ebiten.KeyArrowDown, "ArrowDown"},
	{ebiten.KeyArrowLeft, "ArrowLeft"},
	{ebiten.KeyArrowRight, "ArrowRight"},
	{ebiten.KeyP, "p"},
}

// Reader collects the actions requested since the previous frame from the
// keyboard and from touch swipes.
type Reader struct {
	swipes   *input.SwipeTracker
	touchIDs []ebiten.TouchID
	actions  []input.Action
}

func NewReader() *Reader {
	return &Reader{
		swipes: input.NewSwipeTracker(constants.SwipeThreshold),
	}
}

// Actions must be called once per Update.
func (r *Reader) Actions() []input.Action {
	r.actions = r.actions[:0]

	for _, k := range keyNames {
		if !inpututil.IsKeyJustPressed(k.key) {
			continue
		}
		if action, ok := input.ActionFromKey(k.name); ok {
			r.actions = append(r.actions, action)
		}
	}

	r.touchIDs = inpututil.AppendJustPressedTouchIDs(r.touchIDs[:0])
	for _, id := range r.touchIDs {
		x, y := ebiten.TouchPosition(id)
		r.swipes.Begin(int(id), float64(x), float64(y))
	}

	for _, id := range r.swipes.Active() {
		touchID := ebiten.TouchID(id)
		if !inpututil.IsTouchJustReleased(touchID) {
			x, y := ebiten.TouchPosition(touchID)
			r.swipes.Move(id, float64(x), float64(y))
			continue
		}
		if d, ok := r.swipes.End(id); ok {
			r.actions = append(r.actions, input.ActionFromDirection(d))
		}
	}

	return r.actions
}
