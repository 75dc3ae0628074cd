package gesture

import (
	"math"
)

// Segments is the direction token stream derived from a simplified path.
type Segments struct {
	Tokens    []Direction // one token per non-diagonal segment
	Distances []int       // rounded length of each token's segment
	Total     float64     // summed length of every segment, tokenized or not
}

// Directions converts consecutive simplified points into direction tokens.
//
// A segment gets a token when one axis dominates the other by
// AngleThreshold, horizontal first. Diagonal segments inside the dead zone
// and zero-length segments are skipped but still count toward Total.
func Directions(cfg Config, points []Point) Segments {
	var s Segments
	for i := 1; i < len(points); i++ {
		v := points[i-1].vectorTo(points[i])
		d := v.Length()
		s.Total += d

		dx, dy := abs(v.X), abs(v.Y)
		var dir Direction
		switch {
		case dx > dy*cfg.AngleThreshold:
			dir = Right
			if v.X < 0 {
				dir = Left
			}
		case dy > dx*cfg.AngleThreshold:
			dir = Down
			if v.Y < 0 {
				dir = Up
			}
		default:
			continue
		}
		s.Tokens = append(s.Tokens, dir)
		s.Distances = append(s.Distances, int(math.Round(d)))
	}
	return s
}
