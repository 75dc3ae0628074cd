package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate for out-of-range values.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Config holds the calibration constants for recognition.
type Config struct {
	// MinGestureDistance gates micro-twitches: paths shorter than 1.5 times
	// this value are rejected.
	MinGestureDistance float64 `json:"min_gesture_distance"`
	// MinMovementToStart is how far the pointer must travel from the press
	// point before samples are recorded.
	MinMovementToStart float64 `json:"min_movement_to_start"`
	// AngleThreshold is the dominance ratio one axis needs over the other
	// for a segment to get a direction. Values above 1 leave a diagonal
	// dead zone.
	AngleThreshold float64 `json:"angle_threshold"`
	// DirectionChangeThreshold scales the run-length floor used when
	// merging non-repetitive token runs.
	DirectionChangeThreshold float64 `json:"direction_change_threshold"`
	// MinDirectionSegmentLength is twice the Douglas-Peucker tolerance.
	MinDirectionSegmentLength float64 `json:"min_direction_segment_length"`
	// MinGestureComplexity is the number of direction changes tolerated
	// before a non-repetitive path counts as noise.
	MinGestureComplexity int `json:"min_gesture_complexity"`

	Scoring Scoring `json:"scoring"`
}

// Scoring holds the matcher thresholds and the up/down confirmation ratios.
type Scoring struct {
	ShortThreshold      float64 `json:"short_threshold"`        // gestures of one or two tokens
	LongThreshold       float64 `json:"long_threshold"`         // longer gestures
	CloseTabThreshold   float64 `json:"close_tab_threshold"`    // close-tab family
	RepetitiveThreshold float64 `json:"repetitive_threshold"`   // repetitive input
	ComplexThreshold    float64 `json:"complex_threshold"`      // repetitive and structurally complex input
	RepetitiveBonus     float64 `json:"repetitive_bonus"`       // added for long repetitive input with a matching prefix
	EdgeWeight          float64 `json:"edge_weight"`            // weight of the first and last position
	CloseTabMinDistance float64 `json:"close_tab_min_distance"` // shorter close-tab paths are rejected
	UpDownAgreement     float64 `json:"up_down_agreement"`      // share of raw tokens that must agree with an up/down candidate
	UpPortion           float64 `json:"up_portion"`             // leading share for a single-change up/down
	UpDownRatio         float64 `json:"up_down_ratio"`          // count and distance ratio for up then down
	DownUpRatio         float64 `json:"down_up_ratio"`          // distance ratio for down then up
}

// DefaultConfig returns a Config with the calibrated default values.
func DefaultConfig() Config {
	return Config{
		MinGestureDistance:        10,
		MinMovementToStart:        1,
		AngleThreshold:            1.2,
		DirectionChangeThreshold:  0.35,
		MinDirectionSegmentLength: 5,
		MinGestureComplexity:      3,
		Scoring:                   DefaultScoring(),
	}
}

// DefaultScoring returns the default matcher thresholds.
func DefaultScoring() Scoring {
	return Scoring{
		ShortThreshold:      0.82,
		LongThreshold:       0.65,
		CloseTabThreshold:   0.92,
		RepetitiveThreshold: 0.60,
		ComplexThreshold:    0.55,
		RepetitiveBonus:     0.15,
		EdgeWeight:          1.5,
		CloseTabMinDistance: 120,
		UpDownAgreement:     0.70,
		UpPortion:           0.4,
		UpDownRatio:         0.7,
		DownUpRatio:         0.8,
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	switch {
	case c.MinGestureDistance < 0:
		return fmt.Errorf("%w: min_gesture_distance must not be negative", ErrInvalidConfig)
	case c.MinMovementToStart < 0:
		return fmt.Errorf("%w: min_movement_to_start must not be negative", ErrInvalidConfig)
	case c.AngleThreshold <= 0:
		return fmt.Errorf("%w: angle_threshold must be positive", ErrInvalidConfig)
	case c.DirectionChangeThreshold < 0:
		return fmt.Errorf("%w: direction_change_threshold must not be negative", ErrInvalidConfig)
	case c.MinDirectionSegmentLength < 0:
		return fmt.Errorf("%w: min_direction_segment_length must not be negative", ErrInvalidConfig)
	case c.MinGestureComplexity < 0:
		return fmt.Errorf("%w: min_gesture_complexity must not be negative", ErrInvalidConfig)
	}
	return c.Scoring.validate()
}

func (s Scoring) validate() error {
	unit := map[string]float64{
		"short_threshold":      s.ShortThreshold,
		"long_threshold":       s.LongThreshold,
		"close_tab_threshold":  s.CloseTabThreshold,
		"repetitive_threshold": s.RepetitiveThreshold,
		"complex_threshold":    s.ComplexThreshold,
		"repetitive_bonus":     s.RepetitiveBonus,
		"up_down_agreement":    s.UpDownAgreement,
		"up_portion":           s.UpPortion,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrInvalidConfig, name, v)
		}
	}
	if s.EdgeWeight < 1 {
		return fmt.Errorf("%w: edge_weight must be at least 1", ErrInvalidConfig)
	}
	if s.CloseTabMinDistance < 0 || s.UpDownRatio < 0 || s.DownUpRatio < 0 {
		return fmt.Errorf("%w: distances and ratios must not be negative", ErrInvalidConfig)
	}
	return nil
}
