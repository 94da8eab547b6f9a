package course

import (
	"math"

	"github.com/mcoot/minigolf-go/internal/model"
)

// Hole is a circular cup on the course
type Hole struct {
	Position model.Position
	Radius   float64
}

// DefaultHole is the single hole of the course
func DefaultHole() Hole {
	return Hole{
		Position: model.Position{X: 750, Y: 100},
		Radius:   25,
	}
}

// Contains reports whether a ball resting at p is in the hole. A ball exactly
// on the rim is not.
func (h Hole) Contains(p model.Position) bool {
	return Distance(h.Position, p) < h.Radius
}

// Distance is the Euclidean distance between two points
func Distance(a, b model.Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
