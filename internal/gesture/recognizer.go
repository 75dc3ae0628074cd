package gesture

import (
	"fmt"
)

// Recognizer runs the full classification pipeline with a fixed Config.
// It holds no per-interaction state and is safe for concurrent use.
type Recognizer struct {
	cfg Config
}

// NewRecognizer creates a Recognizer after validating cfg.
func NewRecognizer(cfg Config) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}
	return &Recognizer{cfg: cfg}, nil
}

// Config returns the configuration the recognizer was built with.
func (r *Recognizer) Config() Config {
	return r.cfg
}

// Recognize classifies a complete path.
func (r *Recognizer) Recognize(points []Point) (MatchResult, *Diagnostics) {
	diag := &Diagnostics{PointCount: len(points)}
	if len(points) < 2 {
		diag.reject(ReasonTooFewPoints)
		return MatchResult{}, diag
	}
	diag.Shape = AnalyzeShape(points)

	var simplified []Point
	switch res := Simplify(r.cfg, points).(type) {
	case Scribble:
		diag.Simplified = res.Points()
		diag.reject(ReasonScribble)
		return MatchResult{}, diag
	case Simplified:
		simplified = res.Path
	}
	diag.Simplified = simplified
	if len(simplified) < 2 {
		diag.reject(ReasonTooFewPoints)
		return MatchResult{}, diag
	}

	seg := Directions(r.cfg, simplified)
	diag.recordSegments(seg)
	if seg.Total < r.cfg.MinGestureDistance*1.5 {
		diag.reject(ReasonTooShort)
		return MatchResult{}, diag
	}
	if len(seg.Tokens) == 0 {
		diag.reject(ReasonNoDirection)
		return MatchResult{}, diag
	}

	c := Consolidate(r.cfg, seg)
	diag.recordConsolidation(c)

	result, sc := match(r.cfg, c)
	diag.recordMatch(result, sc)
	return result, diag
}
