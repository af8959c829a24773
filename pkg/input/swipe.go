package input

import (
	"sync"

	"github.com/cbodonnell/snake/pkg/game/types"
)

type point struct {
	x, y float64
}

type touch struct {
	start point
	last  point
}

// SwipeTracker follows touches from press to release and turns each into
// at most one direction.
type SwipeTracker struct {
	lock      sync.Mutex
	threshold float64
	touches   map[int]*touch
}

func NewSwipeTracker(threshold float64) *SwipeTracker {
	return &SwipeTracker{
		threshold: threshold,
		touches:   make(map[int]*touch),
	}
}

func (s *SwipeTracker) Begin(id int, x, y float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p := point{x: x, y: y}
	s.touches[id] = &touch{start: p, last: p}
}

// Move records the latest position of an active touch. Unknown ids are ignored.
func (s *SwipeTracker) Move(id int, x, y float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if t, ok := s.touches[id]; ok {
		t.last = point{x: x, y: y}
	}
}

// End finishes a touch and returns the swipe direction, if any.
func (s *SwipeTracker) End(id int) (types.Direction, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.touches[id]
	if !ok {
		return 0, false
	}
	delete(s.touches, id)
	return DirectionFromSwipe(t.last.x-t.start.x, t.last.y-t.start.y, s.threshold)
}

// Active returns the ids of touches that have begun and not ended.
func (s *SwipeTracker) Active() []int {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]int, 0, len(s.touches))
	for id := range s.touches {
		ids = append(ids, id)
	}
	return ids
}
