// Package storage keeps local snapshots of workouts taken before they are
// overwritten or deleted on the platform.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/claude/tonalmcp/internal/models"
)

// Reasons recorded with a revision.
const (
	ReasonUpdate  = "update"
	ReasonDelete  = "delete"
	ReasonRestore = "restore"
)

var ErrRevisionNotFound = errors.New("revision not found")

// Revision is a workout as it was just before a destructive edit.
type Revision struct {
	ID          uuid.UUID          `json:"id"`
	WorkoutID   string             `json:"workoutId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Sets        []models.SetRecord `json:"sets"`
	Reason      string             `json:"reason"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// RevisionStore persists revisions. List methods return newest first.
type RevisionStore interface {
	// SaveRevision stores rev, filling ID and CreatedAt when they are zero.
	SaveRevision(ctx context.Context, rev *Revision) error
	ListRevisions(ctx context.Context, workoutID string, limit int) ([]Revision, error)
	// ListRevisionsByTitle matches the stored title ignoring case. It finds
	// history for workouts that no longer exist on the platform.
	ListRevisionsByTitle(ctx context.Context, title string, limit int) ([]Revision, error)
	GetRevision(ctx context.Context, id uuid.UUID) (*Revision, error)
	Close() error
}

// Snapshot builds an unsaved revision from a platform workout.
func Snapshot(w *models.Workout, reason string) *Revision {
	sets := make([]models.SetRecord, len(w.Sets))
	copy(sets, w.Sets)
	return &Revision{
		WorkoutID:   w.ID,
		Title:       w.Title,
		Description: w.Description,
		Sets:        sets,
		Reason:      reason,
	}
}

func prepare(rev *Revision) {
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	if rev.Sets == nil {
		rev.Sets = []models.SetRecord{}
	}
}
