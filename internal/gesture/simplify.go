package gesture

import (
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Scribble detection constants.
const (
	scribbleMinPoints     = 15  // paths with this many points or fewer are never scribbles
	scribbleAnalysisMin   = 10  // below this the shape analysis is skipped
	scribbleLengthRatio   = 3.5 // path length must exceed the endpoint span by this factor
	scribbleMaxSpan       = 120 // scribbles stay within this endpoint span
	scribbleTurnCos       = 0.5 // cosine below which a turn counts as a sharp change
	scribbleStraightCos   = 0.9 // cosine above which a turn counts as consistent
	repetitiveMinSpan     = 80
	repetitiveMinChanges  = 2
	repetitiveMaxChanges  = 8
	sparseMinSpan         = 40
	sparseMaxDensity      = 0.4 // points per pixel of span
	consistentRunsDivisor = 5
	zigzagMinTokens       = 4
)

// SimplifyResult is the outcome of Simplify: either Simplified or Scribble.
type SimplifyResult interface {
	// Points returns the points that downstream stages should classify.
	Points() []Point
	isSimplifyResult()
}

// Simplified is a path reduced to its significant corners.
type Simplified struct {
	Path []Point
}

func (s Simplified) Points() []Point { return s.Path }
func (Simplified) isSimplifyResult() {}

// Scribble marks an aimless path. Only its endpoints are kept.
type Scribble struct {
	First Point
	Last  Point
}

func (s Scribble) Points() []Point { return []Point{s.First, s.Last} }
func (Scribble) isSimplifyResult() {}

// Simplify reduces points to the corners that matter for classification.
// Long aimless paths come back as a Scribble so callers can reject them
// without further analysis. The input is not modified.
func Simplify(cfg Config, points []Point) SimplifyResult {
	if len(points) <= 2 {
		return Simplified{Path: clonePoints(points)}
	}

	long := len(points) > scribbleMinPoints
	if long && AnalyzeShape(points).Scribble {
		return Scribble{First: points[0], Last: points[len(points)-1]}
	}

	ls := simplify.DouglasPeucker(cfg.MinDirectionSegmentLength / 2).LineString(lineString(points))
	out := make([]Point, len(ls))
	for i, p := range ls {
		out[i] = pointFromOrb(p)
	}

	// The shape test counts points, so thinning a dense path can turn it
	// into a scribble. Judge the corners too, or a second pass would
	// collapse what the first one kept.
	if long && AnalyzeShape(out).Scribble {
		return Scribble{First: points[0], Last: points[len(points)-1]}
	}
	return Simplified{Path: out}
}

// ShapeStats summarises the geometry the scribble test looks at.
type ShapeStats struct {
	Length         float64 `json:"length"`
	Span           float64 `json:"span"`
	SharpTurns     int     `json:"sharp_turns"`
	ConsistentRuns int     `json:"consistent_runs"`
	Repetitive     bool    `json:"repetitive"`
	Scribble       bool    `json:"scribble"`
}

// AnalyzeShape measures points for scribble detection.
func AnalyzeShape(points []Point) ShapeStats {
	var a ShapeStats
	n := len(points)
	if n < 2 {
		return a
	}

	ls := lineString(points)
	a.Length = planar.Length(ls)
	a.Span = planar.Distance(ls[0], ls[n-1])
	if n < scribbleAnalysisMin {
		return a
	}

	for i := 2; i < n; i++ {
		v1 := points[i-2].vectorTo(points[i-1])
		v2 := points[i-1].vectorTo(points[i])
		l1, l2 := v1.Length(), v2.Length()
		if l1 == 0 || l2 == 0 {
			continue
		}
		cos := v1.Dot(v2) / (l1 * l2)
		if cos < scribbleTurnCos {
			a.SharpTurns++
		} else if cos > scribbleStraightCos {
			a.ConsistentRuns++
		}
	}

	switch {
	case a.Span > repetitiveMinSpan && a.SharpTurns >= repetitiveMinChanges && a.SharpTurns <= repetitiveMaxChanges:
		a.Repetitive = true
	case a.Span > sparseMinSpan && float64(n)/a.Span < sparseMaxDensity:
		a.Repetitive = true
	case float64(a.ConsistentRuns) > float64(n)/consistentRunsDivisor:
		a.Repetitive = true
	default:
		_, a.Repetitive = zigzag(coarseDirections(points))
	}

	a.Scribble = a.Length > a.Span*scribbleLengthRatio && a.Span < scribbleMaxSpan && !a.Repetitive
	return a
}

// coarseDirections labels every non-zero raw segment by its dominant axis.
func coarseDirections(points []Point) []Direction {
	dirs := make([]Direction, 0, len(points))
	for i := 1; i < len(points); i++ {
		v := points[i-1].vectorTo(points[i])
		if v.X == 0 && v.Y == 0 {
			continue
		}
		dirs = append(dirs, dominant(v.X, v.Y))
	}
	return dirs
}

func dominant(dx, dy float64) Direction {
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return Left
		}
		return Right
	}
	if dy < 0 {
		return Up
	}
	return Down
}

// zigzag reports whether more than half of the aligned token pairs
// follow one canonical two-direction cycle.
func zigzag(dirs []Direction) ([2]Direction, bool) {
	if len(dirs) < zigzagMinTokens {
		return [2]Direction{}, false
	}
	for _, c := range canonicalCycles {
		pairs, hits := 0, 0
		for i := 0; i+1 < len(dirs); i += 2 {
			pairs++
			if dirs[i] == c[0] && dirs[i+1] == c[1] {
				hits++
			}
		}
		if hits*2 > pairs {
			return c, true
		}
	}
	return [2]Direction{}, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
