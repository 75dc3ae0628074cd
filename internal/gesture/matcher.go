package gesture

// MatchResult is the classification of one path. An empty Token means
// the path was rejected.
type MatchResult struct {
	Token      string  `json:"token"`
	Similarity float64 `json:"similarity"`
}

// Recognized reports whether the result carries a gesture.
func (r MatchResult) Recognized() bool {
	return r.Token != ""
}

// corePatternScore is awarded to long ABAB sequences whose first pair is a gesture.
const corePatternScore = 0.95

// ambiguousMaxScore caps an unconfirmed up/down pair below an exact match.
const ambiguousMaxScore = corePatternScore

// longRepetitiveTokens is the raw token count above which repetitive
// input earns the prefix bonus.
const longRepetitiveTokens = 5

// scoring carries the matcher's working values for diagnostics.
type scoring struct {
	Best      string
	BestScore float64
	Threshold float64
	Reason    Reason
}

// Match scores a consolidated sequence against the vocabulary.
//
// Consolidate never hands over more than two merged tokens, so the
// core-pattern shortcut, the long-sequence threshold and the length part
// of the intricate test only apply to Consolidations built by the caller.
// An Ambiguous up/down pair scores at most 0.95.
func Match(cfg Config, c Consolidation) MatchResult {
	result, _ := match(cfg, c)
	return result
}

func match(cfg Config, c Consolidation) (MatchResult, scoring) {
	var sc scoring
	if c.Outcome == Rejected {
		sc.Reason = c.Reason
		return MatchResult{}, sc
	}
	if len(c.Merged) == 0 {
		sc.Reason = ReasonNoDirection
		return MatchResult{}, sc
	}

	token := c.Token()
	if c.Outcome == Confirmed || (c.Outcome == Pending && IsValid(token)) {
		if !IsValid(token) {
			sc.Reason = ReasonUnknownToken
			return MatchResult{}, sc
		}
		sc.Best, sc.BestScore = token, 1.0
		return MatchResult{Token: token, Similarity: 1.0}, sc
	}

	if len(c.Merged) == 1 {
		sc.Reason = ReasonUnknownToken
		return MatchResult{}, sc
	}

	if len(c.Merged) >= 4 && hasAlternation(c.Merged[:4]) {
		if core := JoinToken(c.Merged[:2]); IsValid(core) {
			sc.Best, sc.BestScore = core, corePatternScore
			return MatchResult{Token: core, Similarity: corePatternScore}, sc
		}
	}

	s := cfg.Scoring
	n := len(c.Merged)
	intricate := hasAlternation(c.Merged) || n > longRepetitiveTokens
	maxScore := float64(n) + 2*(s.EdgeWeight-1)

	var best MatchResult
	for _, candidate := range Vocabulary {
		dirs, _ := SplitToken(candidate)
		if len(dirs) != n {
			continue
		}
		if isUpDown(dirs) && agreement(c.Raw, dirs) < s.UpDownAgreement {
			continue
		}

		var score float64
		for i, d := range dirs {
			if c.Merged[i] != d {
				continue
			}
			if i == 0 || i == n-1 {
				score += s.EdgeWeight
			} else {
				score++
			}
		}
		score /= maxScore

		if c.Repetitive && len(c.Raw) > longRepetitiveTokens && prefixMatches(c.Merged, dirs) {
			score += s.RepetitiveBonus
			if score > 1 {
				score = 1
			}
		}
		if c.Outcome == Ambiguous && score > ambiguousMaxScore {
			score = ambiguousMaxScore
		}

		threshold := s.LongThreshold
		if n <= 2 {
			threshold = s.ShortThreshold
		}
		switch {
		case IsCloseTab(candidate):
			threshold = s.CloseTabThreshold
		case c.Repetitive && intricate:
			threshold = s.ComplexThreshold
		case c.Repetitive:
			threshold = s.RepetitiveThreshold
		}

		if score > sc.BestScore {
			sc.Best, sc.BestScore, sc.Threshold = candidate, score, threshold
		}
		if score > best.Similarity && score >= threshold {
			best = MatchResult{Token: candidate, Similarity: score}
		}
	}

	if !best.Recognized() {
		sc.Reason = ReasonBelowThreshold
		return MatchResult{}, sc
	}
	return best, sc
}

// agreement is the share of raw tokens that lie on either of dirs.
func agreement(raw, dirs []Direction) float64 {
	if len(raw) == 0 {
		return 0
	}
	hits := 0
	for _, d := range raw {
		if d == dirs[0] || d == dirs[1] {
			hits++
		}
	}
	return float64(hits) / float64(len(raw))
}

// prefixMatches reports whether the first one or two directions agree.
func prefixMatches(merged, dirs []Direction) bool {
	if merged[0] != dirs[0] {
		return false
	}
	return len(dirs) < 2 || len(merged) < 2 || merged[1] == dirs[1]
}
