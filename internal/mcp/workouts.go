package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/storage"
	"github.com/claude/tonalmcp/internal/workout"
)

const (
	workoutPageSize = 100
	createdSource   = "WorkoutBuilder"
)

// exerciseItems is the JSON Schema advertised for one exercise.
var exerciseItems = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"movementName": map[string]any{"type": "string", "description": "Exact movement name from search_movements or get_movements"},
		"sets":         map[string]any{"type": "integer", "minimum": 1, "maximum": workout.MaxSets},
		"reps":         map[string]any{"type": "integer", "minimum": 1, "maximum": 1000, "description": "Reps per set, for rep-counted movements"},
		"duration":     map[string]any{"type": "integer", "minimum": 1, "maximum": 3600, "description": "Seconds per set, for timed movements"},
		"weight":       map[string]any{"type": "number", "minimum": 0, "maximum": 100, "description": "Weight as a percentage (0-100)"},
		"block":        map[string]any{"type": "integer", "description": "Exercises sharing a block alternate round by round (supersets, circuits)"},
		"isWarmup":     map[string]any{"type": "boolean", "description": "Accepted but ignored; sets are always saved as working sets"},
	},
	"required": []string{"movementName", "sets"},
}

// --- Tool definitions ---

var toolListCustomWorkouts = mcp.NewTool("list_custom_workouts",
	mcp.WithDescription("Custom workouts saved on the account, newest first."),
)

var toolGetCustomWorkoutDetails = mcp.NewTool("get_custom_workout_details",
	mcp.WithDescription("Set-by-set breakdown of one custom workout."),
	mcp.WithString("workoutName", mcp.Required(), mcp.Description("Exact workout title (case-insensitive)")),
)

var toolDeleteCustomWorkout = mcp.NewTool("delete_custom_workout",
	mcp.WithDescription("Delete a custom workout. A revision is saved first when history is enabled."),
	mcp.WithString("workoutName", mcp.Required(), mcp.Description("Exact workout title (case-insensitive)")),
)

var toolCreateCustomWorkout = mcp.NewTool("create_custom_workout",
	mcp.WithDescription("Create a custom workout from a list of exercises."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Workout title")),
	mcp.WithString("description", mcp.Description("Workout description")),
	mcp.WithArray("exercises", mcp.Required(), mcp.Description("Exercises in order"), mcp.Items(exerciseItems)),
)

var toolGetWorkoutForEditing = mcp.NewTool("get_workout_for_editing",
	mcp.WithDescription("Fetch a custom workout as an editable exercise list. Edit the JSON and pass it to update_workout."),
	mcp.WithString("workoutName", mcp.Required(), mcp.Description("Exact workout title (case-insensitive)")),
)

var toolUpdateWorkout = mcp.NewTool("update_workout",
	mcp.WithDescription("Replace a custom workout's exercises, and optionally its title and description. Returns the saved structure."),
	mcp.WithString("workoutName", mcp.Required(), mcp.Description("Current workout title (case-insensitive)")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithArray("exercises", mcp.Required(), mcp.Description("Complete new exercise list"), mcp.Items(exerciseItems)),
)

// --- Helpers ---

// findWorkout returns the one workout titled name, ignoring case. When there
// is not exactly one, the returned result explains why and the workout is nil.
func (h *handlers) findWorkout(ctx context.Context, name string) (*models.Workout, *mcp.CallToolResult, error) {
	all, err := h.p.GetUserWorkouts(ctx, 0, workoutPageSize)
	if err != nil {
		return nil, nil, err
	}
	var matches []models.Workout
	for _, w := range all {
		if strings.EqualFold(w.Title, name) {
			matches = append(matches, w)
		}
	}

	switch len(matches) {
	case 0:
		return nil, mcp.NewToolResultText(fmt.Sprintf(
			"❌ No custom workout found with name %q.\n\nUse the list_custom_workouts tool to see available workouts.", name)), nil
	case 1:
		return &matches[0], nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❌ Multiple workouts found with name %q:\n", name)
	for _, w := range matches {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", w.Title, w.ID)
	}
	b.WriteString("\nPlease rename one of them so the name is unique.")
	return nil, mcp.NewToolResultText(b.String()), nil
}

func (h *handlers) catalog(ctx context.Context) (*workout.Catalog, error) {
	movements, err := h.p.GetMovements(ctx)
	if err != nil {
		return nil, err
	}
	return workout.NewCatalog(movements), nil
}

// decodeSaved decodes sets the platform just accepted. The write has already
// happened, so a catalog failure only costs movement names.
func (h *handlers) decodeSaved(ctx context.Context, catalog *workout.Catalog, sets []models.SetRecord) []models.ExerciseSpec {
	if catalog == nil {
		var err error
		if catalog, err = h.catalog(ctx); err != nil {
			h.log.Warn("mcp: movement catalog unavailable, showing movement ids", "error", err)
		}
	}
	return workout.SetsToExercises(sets, catalog)
}

// --- Tool handlers ---

func (h *handlers) listCustomWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.p.GetUserWorkouts(ctx, 0, workoutPageSize)
	if err != nil {
		return h.fail("list_custom_workouts", err), nil
	}
	return mcp.NewToolResultText(customWorkoutsReport(workouts)), nil
}

func (h *handlers) getCustomWorkoutDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "get_custom_workout_details"
	name, err := requiredString(req, "workoutName", "Workout name")
	if err != nil {
		return h.fail(tool, err), nil
	}
	found, res, err := h.findWorkout(ctx, name)
	if err != nil {
		return h.fail(tool, err), nil
	}
	if res != nil {
		return res, nil
	}

	w, err := h.p.GetWorkoutByID(ctx, found.ID)
	if err != nil {
		return h.fail(tool, err), nil
	}
	catalog, err := h.catalog(ctx)
	if err != nil {
		return h.fail(tool, err), nil
	}
	return mcp.NewToolResultText(workoutDetailsReport(w, catalog)), nil
}

func (h *handlers) deleteCustomWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "delete_custom_workout"
	name, err := requiredString(req, "workoutName", "Workout name")
	if err != nil {
		return h.fail(tool, err), nil
	}
	found, res, err := h.findWorkout(ctx, name)
	if err != nil {
		return h.fail(tool, err), nil
	}
	if res != nil {
		return res, nil
	}

	snapshot := found
	if full, err := h.p.GetWorkoutByID(ctx, found.ID); err == nil {
		snapshot = full
	} else {
		h.log.Warn("mcp: fetching workout before delete", "workout", found.ID, "error", err)
	}
	rev := h.saveRevision(ctx, snapshot, storage.ReasonDelete)

	if err := h.p.DeleteWorkout(ctx, found.ID); err != nil {
		return h.fail(tool, &toolError{code: codeDelete, msg: "Failed to delete workout", err: err}), nil
	}

	text := fmt.Sprintf("✅ Successfully deleted workout: **%s**\n\nID: `%s`\n", found.Title, found.ID)
	return mcp.NewToolResultText(text + revisionNote(rev)), nil
}

func (h *handlers) createCustomWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "create_custom_workout"
	title, err := requiredString(req, "title", "Workout title")
	if err != nil {
		return h.fail(tool, err), nil
	}
	description, _ := optionalString(req, "description")
	exercises, err := exercisesArg(req)
	if err != nil {
		return h.fail(tool, err), nil
	}

	catalog, err := h.catalog(ctx)
	if err != nil {
		return h.fail(tool, err), nil
	}
	sets, err := workout.ExercisesToSets(exercises, catalog)
	if err != nil {
		return h.fail(tool, err), nil
	}

	created, err := h.p.CreateWorkout(ctx, models.WorkoutInput{
		Title:         title,
		Description:   description,
		Sets:          sets,
		CreatedSource: createdSource,
	})
	if err != nil {
		return h.fail(tool, err), nil
	}
	h.log.Info("mcp: workout created", "workout", created.ID, "sets", len(sets))

	fresh := h.decodeSaved(ctx, catalog, created.Sets)
	text := editableReport("✅ Workout Created Successfully", "Structure", created, fresh) +
		warmupNotice(exercises) +
		"\n_Your new workout has been synced to your Tonal!_\n"
	return mcp.NewToolResultText(text), nil
}

func (h *handlers) getWorkoutForEditing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "get_workout_for_editing"
	name, err := requiredString(req, "workoutName", "Workout name")
	if err != nil {
		return h.fail(tool, err), nil
	}
	found, res, err := h.findWorkout(ctx, name)
	if err != nil {
		return h.fail(tool, err), nil
	}
	if res != nil {
		return res, nil
	}

	w, err := h.p.GetWorkoutByID(ctx, found.ID)
	if err != nil {
		return h.fail(tool, err), nil
	}
	catalog, err := h.catalog(ctx)
	if err != nil {
		return h.fail(tool, err), nil
	}
	exercises := workout.SetsToExercises(w.Sets, catalog)

	text := editableReport("🏋️ Workout Ready for Editing", "Current Structure", w, exercises) +
		"_Use update_workout to save changes to this workout._\n"
	return mcp.NewToolResultText(text), nil
}

func (h *handlers) updateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "update_workout"
	name, err := requiredString(req, "workoutName", "Workout name")
	if err != nil {
		return h.fail(tool, err), nil
	}
	exercises, err := exercisesArg(req)
	if err != nil {
		return h.fail(tool, err), nil
	}
	found, res, err := h.findWorkout(ctx, name)
	if err != nil {
		return h.fail(tool, err), nil
	}
	if res != nil {
		return res, nil
	}

	current, err := h.p.GetWorkoutByID(ctx, found.ID)
	if err != nil {
		return h.fail(tool, err), nil
	}
	catalog, err := h.catalog(ctx)
	if err != nil {
		return h.fail(tool, err), nil
	}
	sets, err := workout.ExercisesToSets(exercises, catalog)
	if err != nil {
		return h.fail(tool, err), nil
	}

	in := models.WorkoutInput{
		Title:         current.Title,
		Description:   current.Description,
		Sets:          sets,
		CoachID:       current.CoachID,
		AssetID:       current.AssetID,
		Level:         current.Level,
		CreatedSource: createdSource,
	}
	if title, ok := optionalString(req, "title"); ok && strings.TrimSpace(title) != "" {
		in.Title = strings.TrimSpace(title)
	}
	if description, ok := optionalString(req, "description"); ok {
		in.Description = description
	}

	rev := h.saveRevision(ctx, current, storage.ReasonUpdate)
	updated, err := h.p.UpdateWorkout(ctx, current.ID, in)
	if err != nil {
		return h.fail(tool, err), nil
	}
	h.log.Info("mcp: workout updated", "workout", updated.ID, "sets", len(sets))

	fresh := h.decodeSaved(ctx, catalog, updated.Sets)
	text := editableReport("✅ Workout Updated Successfully", "Updated Structure", updated, fresh) +
		warmupNotice(exercises) +
		revisionNote(rev) +
		"\n_Your changes have been saved and synced to your Tonal!_\n"
	return mcp.NewToolResultText(text), nil
}
