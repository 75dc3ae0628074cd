package gesture

// Path tracks the points of one press-drag-release interaction and
// classifies them. A Path is not safe for concurrent use; give each
// pointer its own.
type Path struct {
	rec     *Recognizer
	origin  Point
	active  bool
	started bool
	points  []Point

	live    MatchResult
	liveLen int
}

// NewPath returns an idle Path bound to r.
func (r *Recognizer) NewPath() *Path {
	return &Path{rec: r}
}

// Press starts a new interaction at pt, discarding any previous one.
func (p *Path) Press(pt Point) {
	p.reset()
	p.origin = pt
	p.active = true
}

// Feed adds a pointer-move sample and returns the live classification.
// Samples are ignored until the pointer has moved MinMovementToStart away
// from the press point. Feeding an idle Path presses it.
func (p *Path) Feed(pt Point) MatchResult {
	if !p.active {
		p.Press(pt)
		return MatchResult{}
	}
	if !p.started {
		if p.origin.vectorTo(pt).Length() < p.rec.cfg.MinMovementToStart {
			return MatchResult{}
		}
		p.started = true
		p.points = append(p.points, p.origin)
	}
	p.points = append(p.points, pt)

	if len(p.points) != p.liveLen {
		p.live, _ = p.rec.Recognize(p.points)
		p.liveLen = len(p.points)
	}
	return p.live
}

// Finish ends the interaction and returns its final classification.
func (p *Path) Finish() (MatchResult, *Diagnostics) {
	points := p.points
	p.reset()
	return p.rec.Recognize(points)
}

// Abort discards the interaction without classifying it.
func (p *Path) Abort() {
	p.reset()
}

// Active reports whether a press is in progress.
func (p *Path) Active() bool {
	return p.active
}

// Points returns a copy of the recorded samples.
func (p *Path) Points() []Point {
	return clonePoints(p.points)
}

func (p *Path) reset() {
	p.origin = Point{}
	p.active = false
	p.started = false
	p.points = nil
	p.live = MatchResult{}
	p.liveLen = 0
}
