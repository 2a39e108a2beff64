package mcp

import (
	"context"

	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/tonal"
)

// Platform abstracts the training platform for MCP tools. *tonal.Client is
// the production implementation; tests use an in-memory fake.
type Platform interface {
	GetUserInfo(ctx context.Context) (*models.UserInfo, error)
	GetUserStatistics(ctx context.Context) (*models.UserStatistics, error)
	GetCurrentStreak(ctx context.Context) (*models.Streak, error)
	GetDailyMetrics(ctx context.Context, days int) ([]models.DailyMetric, error)
	GetActivitySummaries(ctx context.Context) ([]models.ActivitySummary, error)
	GetMuscleReadiness(ctx context.Context) (*models.MuscleReadiness, error)
	GetMovements(ctx context.Context) ([]models.Movement, error)
	GetUserWorkouts(ctx context.Context, offset, limit int) ([]models.Workout, error)
	GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error)
	CreateWorkout(ctx context.Context, in models.WorkoutInput) (*models.Workout, error)
	UpdateWorkout(ctx context.Context, id string, in models.WorkoutInput) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// Compile-time check: *tonal.Client satisfies Platform.
var _ Platform = (*tonal.Client)(nil)
