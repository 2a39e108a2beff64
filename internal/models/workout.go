package models

import "encoding/json"

// ExerciseSpec is the high-level, caller-authored description of one exercise.
//
// Exactly one of Reps and Duration is meaningful, chosen by the resolved
// movement: reps-based movements read Reps, duration-based movements read
// Duration. The other field is ignored.
type ExerciseSpec struct {
	MovementName string   `json:"movementName"`
	Sets         int      `json:"sets"`
	Reps         *int     `json:"reps,omitempty"`
	Duration     *int     `json:"duration,omitempty"` // seconds
	Weight       *float64 `json:"weight,omitempty"`   // percentage, 0-100

	// IsWarmup is accepted for compatibility but never encoded. The platform
	// renders single-set warm-up blocks incorrectly, so every emitted set has
	// WarmUp=false.
	IsWarmup bool `json:"isWarmup,omitempty"`

	// Block groups exercises into one interleaved block. Nil means the
	// exercise gets a block of its own.
	Block *int `json:"block,omitempty"`
}

// SetRecord is one scheduled set in the platform's flat workout format.
type SetRecord struct {
	ID        string `json:"id,omitempty"`
	WorkoutID string `json:"workoutId,omitempty"`

	MovementID       string  `json:"movementId"`
	BlockStart       bool    `json:"blockStart"`
	BlockNumber      int     `json:"blockNumber"`
	SetGroup         int     `json:"setGroup"`
	Round            int     `json:"round"`
	Repetition       int     `json:"repetition"`
	RepetitionTotal  int     `json:"repetitionTotal"`
	WeightPercentage float64 `json:"weightPercentage"`

	PrescribedReps     *int `json:"prescribedReps,omitempty"`
	PrescribedDuration *int `json:"prescribedDuration,omitempty"` // seconds

	Burnout     bool   `json:"burnout"`
	Spotter     bool   `json:"spotter"`
	Eccentric   bool   `json:"eccentric"`
	Chains      bool   `json:"chains"`
	Flex        bool   `json:"flex"`
	WarmUp      bool   `json:"warmUp"`
	DropSet     bool   `json:"dropSet"`
	Description string `json:"description"`
}

// UnmarshalJSON merges the two duration fields the platform uses into
// PrescribedDuration. Some responses carry prescribedDuration, others
// durationBasedRepGoal; when both hold a positive value prescribedDuration
// wins.
func (s *SetRecord) UnmarshalJSON(data []byte) error {
	type plain SetRecord
	var raw struct {
		plain
		DurationBasedRepGoal *int `json:"durationBasedRepGoal,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SetRecord(raw.plain)
	if !positive(s.PrescribedDuration) && positive(raw.DurationBasedRepGoal) {
		s.PrescribedDuration = raw.DurationBasedRepGoal
	}
	return nil
}

func positive(v *int) bool {
	return v != nil && *v > 0
}
