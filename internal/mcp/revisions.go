package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/storage"
	"github.com/claude/tonalmcp/internal/tonal"
)

const historyDisabled = "ℹ️ Revision history is disabled. Set storage.driver to sqlite or postgres to keep revisions."

var toolListWorkoutRevisions = mcp.NewTool("list_workout_revisions",
	mcp.WithDescription("Saved versions of a custom workout, newest first. A version is saved before every update, delete and restore."),
	mcp.WithString("workoutName", mcp.Required(), mcp.Description("Workout title (case-insensitive). Works for deleted workouts too.")),
	mcp.WithNumber("limit", mcp.Description("Number of revisions to return (default 10, max 100).")),
)

var toolRestoreWorkoutRevision = mcp.NewTool("restore_workout_revision",
	mcp.WithDescription("Bring back a saved version of a workout. Recreates the workout if it was deleted."),
	mcp.WithString("revisionId", mcp.Required(), mcp.Description("Revision ID from list_workout_revisions")),
)

// saveRevision snapshots w before a destructive change. Failures are logged
// and never block the change; the returned revision is nil then.
func (h *handlers) saveRevision(ctx context.Context, w *models.Workout, reason string) *storage.Revision {
	if h.revs == nil {
		return nil
	}
	rev := storage.Snapshot(w, reason)
	if err := h.revs.SaveRevision(ctx, rev); err != nil {
		h.log.Warn("mcp: saving revision", "workout", w.ID, "reason", reason, "error", err)
		return nil
	}
	return rev
}

func revisionNote(rev *storage.Revision) string {
	if rev == nil {
		return ""
	}
	return fmt.Sprintf("\n🕘 Previous version saved as revision `%s`.\n", rev.ID)
}

// resubmittable copies sets without the ids the platform assigned to them.
func resubmittable(sets []models.SetRecord) []models.SetRecord {
	out := make([]models.SetRecord, len(sets))
	for i, s := range sets {
		s.ID = ""
		s.WorkoutID = ""
		out[i] = s
	}
	return out
}

func (h *handlers) listWorkoutRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "list_workout_revisions"
	name, err := requiredString(req, "workoutName", "Workout name")
	if err != nil {
		return h.fail(tool, err), nil
	}
	limit, err := limitArg(req)
	if err != nil {
		return h.fail(tool, err), nil
	}
	if h.revs == nil {
		return mcp.NewToolResultText(historyDisabled), nil
	}

	all, err := h.p.GetUserWorkouts(ctx, 0, workoutPageSize)
	if err != nil {
		return h.fail(tool, err), nil
	}
	var ids []string
	for _, w := range all {
		if strings.EqualFold(w.Title, name) {
			ids = append(ids, w.ID)
		}
	}

	var revs []storage.Revision
	if len(ids) == 1 {
		revs, err = h.revs.ListRevisions(ctx, ids[0], limit)
	} else {
		revs, err = h.revs.ListRevisionsByTitle(ctx, name, limit)
	}
	if err != nil {
		return h.fail(tool, err), nil
	}
	return mcp.NewToolResultText(revisionsReport(name, revs)), nil
}

func (h *handlers) restoreWorkoutRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "restore_workout_revision"
	raw, err := requiredString(req, "revisionId", "Revision ID")
	if err != nil {
		return h.fail(tool, err), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return h.fail(tool, invalidArg("Revision ID %q is not valid. Use list_workout_revisions to find one.", raw)), nil
	}
	if h.revs == nil {
		return mcp.NewToolResultText(historyDisabled), nil
	}

	rev, err := h.revs.GetRevision(ctx, id)
	if errors.Is(err, storage.ErrRevisionNotFound) {
		return h.fail(tool, &toolError{code: codeNotFound, msg: fmt.Sprintf("No revision with ID %s", id)}), nil
	}
	if err != nil {
		return h.fail(tool, err), nil
	}

	in := models.WorkoutInput{
		Title:         rev.Title,
		Description:   rev.Description,
		Sets:          resubmittable(rev.Sets),
		CreatedSource: createdSource,
	}

	var (
		saved     *models.Workout
		recreated bool
		backup    *storage.Revision
	)
	current, err := h.p.GetWorkoutByID(ctx, rev.WorkoutID)
	switch {
	case errors.Is(err, tonal.ErrNotFound):
		saved, err = h.p.CreateWorkout(ctx, in)
		recreated = true
	case err != nil:
		return h.fail(tool, err), nil
	default:
		in.CoachID = current.CoachID
		in.AssetID = current.AssetID
		in.Level = current.Level
		backup = h.saveRevision(ctx, current, storage.ReasonRestore)
		saved, err = h.p.UpdateWorkout(ctx, current.ID, in)
	}
	if err != nil {
		return h.fail(tool, err), nil
	}
	h.log.Info("mcp: revision restored", "revision", rev.ID, "workout", saved.ID, "recreated", recreated)

	heading := "✅ Workout Restored"
	if recreated {
		heading = "✅ Deleted Workout Recreated"
	}
	fresh := h.decodeSaved(ctx, nil, saved.Sets)
	text := editableReport(heading, "Restored Structure", saved, fresh) +
		fmt.Sprintf("Restored from revision `%s` saved %s.\n", rev.ID, rev.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST")) +
		revisionNote(backup)
	return mcp.NewToolResultText(text), nil
}
