package game

import (
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagSegment = "segment"
	CollisionSpaceTagProbe   = "probe"

	// collisionCellSize is the size of a board cell in space units
	collisionCellSize = 16
)

// BodySpace mirrors the snake body in a resolv space with one space cell
// per board cell, so occupancy lookups only touch the probed cell.
type BodySpace struct {
	space    *resolv.Space
	cellSize float64
	// segments is ordered head first, like the snake
	segments []*resolv.Object
	probe    *resolv.Object
}

func NewBodySpace(cols, rows int, body []types.Coordinate) *BodySpace {
	b := &BodySpace{
		space:    resolv.NewSpace(cols*collisionCellSize, rows*collisionCellSize, collisionCellSize, collisionCellSize),
		cellSize: collisionCellSize,
	}
	// the probe is shrunk by one unit so it never spills into neighbouring cells
	size := b.cellSize - 2
	b.probe = resolv.NewObject(1, 1, size, size, CollisionSpaceTagProbe)
	b.space.Add(b.probe)

	b.segments = make([]*resolv.Object, 0, len(body))
	for _, c := range body {
		obj := b.newSegment(c)
		b.space.Add(obj)
		b.segments = append(b.segments, obj)
	}
	return b
}

func (b *BodySpace) newSegment(c types.Coordinate) *resolv.Object {
	size := b.cellSize - 2
	return resolv.NewObject(float64(c.X)*b.cellSize+1, float64(c.Y)*b.cellSize+1, size, size, CollisionSpaceTagSegment)
}

// PushHead adds a segment in front of the current head.
func (b *BodySpace) PushHead(c types.Coordinate) {
	obj := b.newSegment(c)
	b.space.Add(obj)
	b.segments = append([]*resolv.Object{obj}, b.segments...)
}

// PopTail removes the last segment.
func (b *BodySpace) PopTail() {
	if len(b.segments) == 0 {
		return
	}
	last := len(b.segments) - 1
	b.space.Remove(b.segments[last])
	b.segments[last] = nil
	b.segments = b.segments[:last]
}

func (b *BodySpace) Len() int {
	return len(b.segments)
}

// Occupied reports whether any segment covers the cell at c.
// Cells outside the board are never occupied.
func (b *BodySpace) Occupied(c types.Coordinate) bool {
	b.probe.Position.X = float64(c.X)*b.cellSize + 1
	b.probe.Position.Y = float64(c.Y)*b.cellSize + 1
	b.probe.Update()
	return b.probe.Check(0, 0, CollisionSpaceTagSegment) != nil
}
