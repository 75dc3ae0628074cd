package gesture

// Outcome is the verdict of Consolidate.
type Outcome int

const (
	// Pending means the merged sequence still has to be scored.
	Pending Outcome = iota
	// Confirmed means the merged sequence is accepted as is.
	Confirmed
	// Ambiguous is an up/down pair that failed confirmation. It is scored
	// without the exact-match shortcut.
	Ambiguous
	// Rejected means no gesture is emitted.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Ambiguous:
		return "ambiguous"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Reason explains why a path produced no gesture.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonTooFewPoints      Reason = "too-few-points"
	ReasonScribble          Reason = "scribble"
	ReasonTooShort          Reason = "too-short"
	ReasonNoDirection       Reason = "no-direction"
	ReasonTooComplex        Reason = "too-complex"
	ReasonTooManyDirections Reason = "too-many-directions"
	ReasonCloseTabGuard     Reason = "close-tab-guard"
	ReasonBelowThreshold    Reason = "below-threshold"
	ReasonUnknownToken      Reason = "unknown-token"
)

// Noise filter thresholds for non-repetitive paths.
const (
	complexMinDistance = 200
	complexMaxTokens   = 20
)

// Consolidation is the merged, checked token sequence.
type Consolidation struct {
	Raw         []Direction
	Merged      []Direction
	Total       float64
	Transitions int
	Repetitive  bool
	// Cycle is the canonical two-direction cycle behind a zigzag, if any.
	Cycle   []Direction
	Outcome Outcome
	Reason  Reason
}

// Token renders the merged sequence as a gesture token.
func (c Consolidation) Token() string {
	return JoinToken(c.Merged)
}

// Consolidate merges a token stream, tests it for repetition and rejects
// sequences that look like noise.
func Consolidate(cfg Config, seg Segments) Consolidation {
	tokens := seg.Tokens
	c := Consolidation{
		Raw:   append([]Direction(nil), tokens...),
		Total: seg.Total,
	}
	if len(tokens) == 0 {
		return c.reject(ReasonNoDirection)
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i] != tokens[i-1] {
			c.Transitions++
		}
	}
	c.Repetitive = c.detectRepetition()

	if c.Transitions > cfg.MinGestureComplexity && !c.Repetitive &&
		(seg.Total < complexMinDistance || len(tokens) > complexMaxTokens) {
		return c.reject(ReasonTooComplex)
	}

	if c.Repetitive {
		c.Merged = mergeChanges(tokens)
	} else {
		c.Merged = mergeRuns(tokens, cfg.DirectionChangeThreshold)
	}

	if len(c.Merged) > 2 {
		if !c.Repetitive || !isCanonicalCycle(c.Merged[0], c.Merged[1]) || !alternatesPair(c.Merged) {
			return c.reject(ReasonTooManyDirections)
		}
		c.Merged = c.Merged[:2]
		if c.Cycle == nil {
			c.Cycle = append([]Direction(nil), c.Merged...)
		}
		c.Outcome = Confirmed
	}

	if len(c.Merged) >= 2 && containsCloseTab(c.Merged) && seg.Total < cfg.Scoring.CloseTabMinDistance {
		return c.reject(ReasonCloseTabGuard)
	}

	if c.Outcome == Pending && isUpDown(c.Merged) {
		if c.confirmUpDown(cfg.Scoring, seg.Distances) {
			c.Outcome = Confirmed
		} else {
			c.Outcome = Ambiguous
		}
	}
	return c
}

func (c Consolidation) reject(reason Reason) Consolidation {
	c.Outcome = Rejected
	c.Reason = reason
	return c
}

// detectRepetition looks for an ABAB run, a transition that occurs more
// than once, or a zigzag over the raw tokens.
func (c *Consolidation) detectRepetition() bool {
	tokens := c.Raw
	if cycle, ok := zigzag(tokens); ok {
		c.Cycle = cycle[:]
		return true
	}
	if hasAlternation(tokens) {
		return true
	}

	seen := make(map[[2]Direction]int)
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == tokens[i-1] {
			continue
		}
		pair := [2]Direction{tokens[i-1], tokens[i]}
		seen[pair]++
		if seen[pair] > 1 {
			return true
		}
	}
	return false
}

// hasAlternation reports whether dirs contains A, B, A, B with A != B.
func hasAlternation(dirs []Direction) bool {
	for i := 0; i+3 < len(dirs); i++ {
		if dirs[i] != dirs[i+1] && dirs[i] == dirs[i+2] && dirs[i+1] == dirs[i+3] {
			return true
		}
	}
	return false
}

// alternatesPair reports whether every direction in dirs is one of its first two.
func alternatesPair(dirs []Direction) bool {
	for _, d := range dirs {
		if d != dirs[0] && d != dirs[1] {
			return false
		}
	}
	return true
}

// mergeChanges keeps every direction change.
func mergeChanges(tokens []Direction) []Direction {
	merged := []Direction{tokens[0]}
	for _, t := range tokens[1:] {
		if t != merged[len(merged)-1] {
			merged = append(merged, t)
		}
	}
	return merged
}

// mergeRuns collapses runs of equal tokens. A run shorter than a fraction
// of the longest run seen so far cannot end on a different token, which
// absorbs short jitter into the surrounding direction.
func mergeRuns(tokens []Direction, threshold float64) []Direction {
	var merged []Direction
	current, count, longest := tokens[0], 1, 1
	floor := func() float64 { return float64(longest) * threshold / 2 }

	for _, t := range tokens[1:] {
		if t == current {
			count++
			if count > longest {
				longest = count
			}
			continue
		}
		if float64(count) < floor() {
			continue
		}
		merged = append(merged, current)
		current, count = t, 1
	}
	if float64(count) >= floor() || len(merged) == 0 {
		merged = append(merged, current)
	}
	return merged
}

// confirmUpDown accepts an up/down or down/up pair when the raw tokens
// back it up by position, by count or by distance.
func (c Consolidation) confirmUpDown(s Scoring, distances []int) bool {
	raw := c.Raw
	first, second := c.Merged[0], c.Merged[1]

	change := -1
	changes := 0
	for i := 1; i < len(raw); i++ {
		if raw[i] != raw[i-1] {
			changes++
			if change < 0 {
				change = i
			}
		}
	}
	if change < 0 {
		return true
	}

	if changes == 1 && raw[0] == first && raw[change] == second &&
		float64(change)/float64(len(raw)) >= s.UpPortion {
		return true
	}

	if changes > 1 {
		var nFirst, nSecond int
		for _, d := range raw {
			switch d {
			case first:
				nFirst++
			case second:
				nSecond++
			}
		}
		if float64(nFirst) > float64(nSecond)*s.UpDownRatio {
			return true
		}
	}

	var before, after int
	for i, d := range distances {
		if i < change {
			before += d
		} else {
			after += d
		}
	}
	ratio := s.UpDownRatio
	if first == Down {
		ratio = s.DownUpRatio
	}
	return float64(before) > float64(after)*ratio
}
