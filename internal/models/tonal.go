package models

import "time"

// Movement is a catalog entry on the training platform.
type Movement struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CountReps    bool     `json:"countReps"`
	MuscleGroups []string `json:"muscleGroups"`
	Description  string   `json:"descriptionHow,omitempty"`
	OnMachine    bool     `json:"onMachine"`
	InFreeLift   bool     `json:"inFreeLift"`
}

// Workout is a user-authored workout as stored on the platform.
type Workout struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"createdAt"`
	Duration      int         `json:"duration"` // seconds
	TargetArea    string      `json:"targetArea"`
	Accessories   []string    `json:"accessories,omitempty"`
	Sets          []SetRecord `json:"sets"`
	CoachID       string      `json:"coachId,omitempty"`
	AssetID       string      `json:"assetId,omitempty"`
	Level         string      `json:"level,omitempty"`
	CreatedSource string      `json:"createdSource,omitempty"`
}

// WorkoutInput is the payload for creating or replacing a workout.
type WorkoutInput struct {
	ID            string      `json:"id,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Sets          []SetRecord `json:"sets"`
	CoachID       string      `json:"coachId,omitempty"`
	AssetID       string      `json:"assetId,omitempty"`
	Level         string      `json:"level,omitempty"`
	CreatedSource string      `json:"createdSource"`
}

// ActivitySummary is one completed workout from the activity history.
type ActivitySummary struct {
	ID              string    `json:"activityId"`
	Name            string    `json:"workoutTitle"`
	Timestamp       time.Time `json:"activityTime"`
	Duration        int       `json:"duration"` // seconds
	TotalVolume     float64   `json:"totalVolume"`
	TotalReps       int       `json:"totalReps"`
	TargetArea      string    `json:"targetArea"`
	IsGuidedWorkout bool      `json:"isGuidedWorkout"`
	IsInProgram     bool      `json:"isInProgram"`
}

// UserInfo is the authenticated user's profile.
type UserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Level     string `json:"level"`
	Location  string `json:"location,omitempty"`
}

// UserStatistics holds lifetime totals.
type UserStatistics struct {
	Workouts struct {
		Total         int `json:"total"`
		TotalDuration int `json:"totalDuration"` // seconds
	} `json:"workouts"`
	Volume struct {
		Total               float64 `json:"total"`
		AvgVolumePerWorkout float64 `json:"avgVolumePerWorkout"`
	} `json:"volume"`
	Movements struct {
		Total int `json:"total"`
	} `json:"movements"`
}

// Streak is the user's current and best workout streak.
type Streak struct {
	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
}

// DailyMetric aggregates one calendar day of training.
type DailyMetric struct {
	Date          string  `json:"date"`
	TotalWorkouts int     `json:"totalWorkouts"`
	TotalVolume   float64 `json:"totalVolume"`
	TotalDuration int     `json:"totalDuration"` // seconds
}

// MuscleReadiness is the current recovery percentage per muscle group.
type MuscleReadiness struct {
	Chest      float64 `json:"Chest"`
	Shoulders  float64 `json:"Shoulders"`
	Back       float64 `json:"Back"`
	Triceps    float64 `json:"Triceps"`
	Biceps     float64 `json:"Biceps"`
	Abs        float64 `json:"Abs"`
	Obliques   float64 `json:"Obliques"`
	Quads      float64 `json:"Quads"`
	Glutes     float64 `json:"Glutes"`
	Hamstrings float64 `json:"Hamstrings"`
	Calves     float64 `json:"Calves"`
}

// MuscleScore is a single muscle's readiness.
type MuscleScore struct {
	Muscle  string
	Percent float64
}

// UpperBody returns the upper-body muscles in display order.
func (r MuscleReadiness) UpperBody() []MuscleScore {
	return []MuscleScore{
		{"Chest", r.Chest},
		{"Shoulders", r.Shoulders},
		{"Back", r.Back},
		{"Triceps", r.Triceps},
		{"Biceps", r.Biceps},
	}
}

// Core returns the core muscles in display order.
func (r MuscleReadiness) Core() []MuscleScore {
	return []MuscleScore{
		{"Abs", r.Abs},
		{"Obliques", r.Obliques},
	}
}

// LowerBody returns the lower-body muscles in display order.
func (r MuscleReadiness) LowerBody() []MuscleScore {
	return []MuscleScore{
		{"Quads", r.Quads},
		{"Glutes", r.Glutes},
		{"Hamstrings", r.Hamstrings},
		{"Calves", r.Calves},
	}
}

// All returns every muscle, upper body first.
func (r MuscleReadiness) All() []MuscleScore {
	all := r.UpperBody()
	all = append(all, r.Core()...)
	return append(all, r.LowerBody()...)
}
