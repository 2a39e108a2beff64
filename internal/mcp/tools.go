package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/claude/tonalmcp/internal/models"
)

// --- Tool definitions ---

var toolGetMuscleReadiness = mcp.NewTool("get_muscle_readiness",
	mcp.WithDescription("Current recovery percentage for each muscle group, with regional averages and the muscles that need rest."),
)

var toolGetUserStats = mcp.NewTool("get_user_stats",
	mcp.WithDescription("Profile, lifetime totals (workouts, volume, time) and the current workout streak."),
)

var toolGetRecentProgress = mcp.NewTool("get_recent_progress",
	mcp.WithDescription("Training consistency over the last 30 days: active days, volume, average duration and the latest activities."),
)

var toolGetRecentWorkouts = mcp.NewTool("get_recent_workouts",
	mcp.WithDescription("Completed workouts, newest first, with duration, volume and reps."),
	mcp.WithNumber("limit", mcp.Description("Number of workouts to return (default 10, max 100).")),
)

var toolGetMovements = mcp.NewTool("get_movements",
	mcp.WithDescription("Movement catalog grouped by primary muscle. Timed movements take a duration instead of reps."),
	mcp.WithArray("muscleGroups",
		mcp.Description("Only movements working any of these muscle groups (partial, case-insensitive, e.g. Chest, Back, Legs)."),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var toolSearchMovements = mcp.NewTool("search_movements",
	mcp.WithDescription("Find movements whose name contains the query. Returns the exact names to use as movementName when authoring workouts."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Part of a movement name, e.g. 'bench' or 'row'.")),
)

// --- Tool handlers ---

func (h *handlers) getMuscleReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := h.p.GetMuscleReadiness(ctx)
	if err != nil {
		return h.fail("get_muscle_readiness", err), nil
	}
	return mcp.NewToolResultText(readinessReport(r)), nil
}

func (h *handlers) getUserStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		info   *models.UserInfo
		stats  *models.UserStatistics
		streak *models.Streak
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = h.p.GetUserInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = h.p.GetUserStatistics(gctx)
		return err
	})
	g.Go(func() (err error) {
		streak, err = h.p.GetCurrentStreak(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return h.fail("get_user_stats", err), nil
	}
	return mcp.NewToolResultText(userStatsReport(info, stats, streak)), nil
}

func (h *handlers) getRecentProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		days       []models.DailyMetric
		activities []models.ActivitySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		days, err = h.p.GetDailyMetrics(gctx, dailyMetricsDays)
		return err
	})
	g.Go(func() (err error) {
		activities, err = h.p.GetActivitySummaries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return h.fail("get_recent_progress", err), nil
	}
	activities = activities[:min(len(activities), recentActivities)]
	return mcp.NewToolResultText(recentProgressReport(days, activities, h.now())), nil
}

func (h *handlers) getRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := limitArg(req)
	if err != nil {
		return h.fail("get_recent_workouts", err), nil
	}
	activities, err := h.p.GetActivitySummaries(ctx)
	if err != nil {
		return h.fail("get_recent_workouts", err), nil
	}
	activities = activities[:min(len(activities), limit)]
	return mcp.NewToolResultText(recentWorkoutsReport(activities, h.now())), nil
}

func (h *handlers) getMovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := stringSliceArg(req, "muscleGroups")
	if err != nil {
		return h.fail("get_movements", err), nil
	}
	movements, err := h.p.GetMovements(ctx)
	if err != nil {
		return h.fail("get_movements", err), nil
	}
	filtered := filterByMuscle(movements, groups)
	return mcp.NewToolResultText(movementsReport(len(movements), filtered, groups)), nil
}

func (h *handlers) searchMovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requiredString(req, "query", "Search query")
	if err != nil {
		return h.fail("search_movements", err), nil
	}
	movements, err := h.p.GetMovements(ctx)
	if err != nil {
		return h.fail("search_movements", err), nil
	}

	needle := strings.ToLower(query)
	var matches []models.Movement
	for _, m := range movements {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			matches = append(matches, m)
		}
	}
	return mcp.NewToolResultText(searchMovementsReport(query, matches, len(movements))), nil
}

// filterByMuscle keeps movements where any muscle group contains any of the
// requested terms, ignoring case. No terms keeps everything.
func filterByMuscle(movements []models.Movement, terms []string) []models.Movement {
	if len(terms) == 0 {
		out := make([]models.Movement, len(movements))
		copy(out, movements)
		return out
	}
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	var out []models.Movement
	for _, m := range movements {
		if worksAny(m, lowered) {
			out = append(out, m)
		}
	}
	return out
}

func worksAny(m models.Movement, terms []string) bool {
	for _, mg := range m.MuscleGroups {
		mg = strings.ToLower(mg)
		for _, t := range terms {
			if strings.Contains(mg, t) {
				return true
			}
		}
	}
	return false
}
