package game

import (
	"github.com/cbodonnell/snake/pkg/game/types"
	"golang.org/x/exp/rand"
)

// FoodSource picks the next food position on a cols x rows board.
type FoodSource interface {
	Next(cols, rows int) types.Coordinate
}

// RandomFoodSource picks cells uniformly at random. It does not avoid the
// snake, so food can appear under the body.
// It is not safe for concurrent use.
type RandomFoodSource struct {
	rng *rand.Rand
}

func NewRandomFoodSource(seed uint64) *RandomFoodSource {
	return &RandomFoodSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *RandomFoodSource) Next(cols, rows int) types.Coordinate {
	return types.Coordinate{
		X: s.rng.Intn(cols),
		Y: s.rng.Intn(rows),
	}
}
