// Package gesture classifies pointer paths into a fixed vocabulary of
// directional gestures.
//
// The pipeline runs in four stages: Simplify reduces the raw path to its
// corners, Directions turns segments into direction tokens, Consolidate
// merges and sanity-checks the token sequence, and Match scores it against
// the Vocabulary. Recognizer wires the stages together and Path tracks a
// single press-drag-release interaction.
package gesture

import (
	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/vec"
)

// Point is a pointer sample in screen coordinates. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func pointFromOrb(o orb.Point) Point {
	return Point{X: o.X(), Y: o.Y()}
}

// vectorTo returns the displacement from p to q.
func (p Point) vectorTo(q Point) vec.Vec2 {
	return vec.Vec2{X: q.X - p.X, Y: q.Y - p.Y}
}

func lineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = p.orb()
	}
	return ls
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
