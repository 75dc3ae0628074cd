package gesture

import (
	"fmt"
)

// Diagnostics records the intermediate values of one recognition.
type Diagnostics struct {
	PointCount    int        `json:"point_count"`
	Simplified    []Point    `json:"simplified"`
	Shape         ShapeStats `json:"shape"`
	Directions    []string   `json:"directions"`
	Distances     []int      `json:"distances"`
	TotalDistance float64    `json:"total_distance"`
	Transitions   int        `json:"transitions"`
	Repetitive    bool       `json:"repetitive"`
	Cycle         string     `json:"cycle,omitempty"`
	Merged        []string   `json:"merged"`
	Outcome       string     `json:"outcome"`
	Candidate     string     `json:"candidate,omitempty"`
	BestScore     float64    `json:"best_score"`
	Threshold     float64    `json:"threshold,omitempty"`
	Token         string     `json:"token"`
	Similarity    float64    `json:"similarity"`
	Reason        Reason     `json:"reason,omitempty"`
}

func (d *Diagnostics) recordSegments(seg Segments) {
	d.Directions = directionNamesOf(seg.Tokens)
	d.Distances = append([]int(nil), seg.Distances...)
	d.TotalDistance = seg.Total
}

func (d *Diagnostics) recordConsolidation(c Consolidation) {
	d.Transitions = c.Transitions
	d.Repetitive = c.Repetitive
	if len(c.Cycle) == 2 {
		d.Cycle = fmt.Sprintf("%s-%s", c.Cycle[0], c.Cycle[1])
	}
	d.Merged = directionNamesOf(c.Merged)
	d.Outcome = c.Outcome.String()
}

func (d *Diagnostics) recordMatch(r MatchResult, sc scoring) {
	d.Candidate = sc.Best
	d.BestScore = sc.BestScore
	d.Threshold = sc.Threshold
	d.Token = r.Token
	d.Similarity = r.Similarity
	d.Reason = sc.Reason
}

func (d *Diagnostics) reject(reason Reason) {
	d.Token = ""
	d.Similarity = 0
	d.Reason = reason
	if d.Outcome == "" {
		d.Outcome = Rejected.String()
	}
}
