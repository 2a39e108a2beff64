package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/storage"
	"github.com/claude/tonalmcp/internal/workout"
)

const (
	readinessExcellent = 80
	readinessGood      = 60

	dailyMetricsDays   = 30
	recentActivities   = 10
	progressActivities = 5
	movementsPerGroup  = 10
	searchResultsLimit = 50
)

// num formats like a locale-aware number: thousands separators and at most
// three decimals.
func num(f float64) string {
	return humanize.Commaf(math.Round(f*1000) / 1000)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func minutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}

// daysAgo renders how long before now t was, in whole days.
func daysAgo(now, t time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func readinessStatus(pct float64) string {
	switch {
	case pct >= readinessExcellent:
		return "🟢"
	case pct >= readinessGood:
		return "🟡"
	default:
		return "🔴"
	}
}

func average(scores []models.MuscleScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Percent
	}
	return math.Round(sum / float64(len(scores)))
}

func readinessReport(r *models.MuscleReadiness) string {
	var b strings.Builder

	regions := []struct {
		name   string
		scores []models.MuscleScore
	}{
		{"Upper Body", r.UpperBody()},
		{"Core", r.Core()},
		{"Lower Body", r.LowerBody()},
	}

	b.WriteString("# 🎯 Muscle Readiness Report\n\n")
	fmt.Fprintf(&b, "**Overall Readiness: %s%%**\n\n", num(average(r.All())))

	b.WriteString("## Regional Breakdown\n")
	for _, reg := range regions {
		fmt.Fprintf(&b, "- **%s**: %s%% average\n", reg.name, num(average(reg.scores)))
	}
	b.WriteString("\n## Detailed Readiness\n")
	for i, reg := range regions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n", reg.name)
		for _, s := range reg.scores {
			fmt.Fprintf(&b, "- %s: %s%% %s\n", s.Muscle, num(s.Percent), readinessStatus(s.Percent))
		}
	}

	var low []models.MuscleScore
	for _, s := range r.All() {
		if s.Percent < readinessGood {
			low = append(low, s)
		}
	}
	if len(low) > 0 {
		b.WriteString("\n## ⚠️ Recovery Needed\n")
		fmt.Fprintf(&b, "These muscle groups are below %d%% readiness:\n", readinessGood)
		for _, s := range low {
			fmt.Fprintf(&b, "- %s: %s%%\n", s.Muscle, num(s.Percent))
		}
		b.WriteString("\nConsider focusing on other muscle groups or taking a rest day.\n")
	} else {
		b.WriteString("\n## ✅ All Systems Go!\n")
		fmt.Fprintf(&b, "All muscle groups are above %d%% readiness. You're good for a full workout!\n", readinessGood)
	}
	return b.String()
}

func userStatsReport(u *models.UserInfo, s *models.UserStatistics, st *models.Streak) string {
	var b strings.Builder

	b.WriteString("# 📊 Your Fitness Stats\n\n")
	b.WriteString("## Profile\n")
	fmt.Fprintf(&b, "**%s %s** - Level %s\n", u.FirstName, u.LastName, u.Level)
	if u.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", u.Location)
	}

	b.WriteString("\n## Lifetime Stats\n")
	fmt.Fprintf(&b, "- **Total Workouts**: %s\n", humanize.Comma(int64(s.Workouts.Total)))
	fmt.Fprintf(&b, "- **Total Volume**: %s lbs\n", num(s.Volume.Total))
	fmt.Fprintf(&b, "- **Total Time**: %d hours\n", int(math.Round(float64(s.Workouts.TotalDuration)/3600)))
	fmt.Fprintf(&b, "- **Average per Workout**: %s lbs\n", num(s.Volume.AvgVolumePerWorkout))
	fmt.Fprintf(&b, "- **Unique Movements**: %d\n", s.Movements.Total)

	b.WriteString("\n## Current Streak 🔥\n")
	fmt.Fprintf(&b, "- **Current**: %s\n", plural(st.CurrentStreak, "workout"))
	fmt.Fprintf(&b, "- **Personal Best**: %s\n", plural(st.MaxStreak, "workout"))
	if st.CurrentStreak > 0 && st.MaxStreak > 0 {
		progress := math.Round(float64(st.CurrentStreak) / float64(st.MaxStreak) * 100)
		fmt.Fprintf(&b, "- **Progress to PB**: %d%%\n", int(progress))
	}
	b.WriteString("\n")

	switch {
	case st.CurrentStreak == 0:
		b.WriteString("💡 **Ready to start a new streak? Every journey begins with a single workout!**\n")
	case st.CurrentStreak >= st.MaxStreak:
		b.WriteString("🎉 **New personal best! You're crushing it!**\n")
	case st.CurrentStreak >= 5:
		b.WriteString("🚀 **Great momentum! Keep it going!**\n")
	default:
		b.WriteString("💪 **Building momentum! You're on your way!**\n")
	}
	return b.String()
}

func consistencyMessage(frequency float64) string {
	switch {
	case frequency >= 80:
		return "🔥 **Exceptional consistency! You're a fitness machine!**"
	case frequency >= 60:
		return "💪 **Great consistency! Keep up the strong routine!**"
	case frequency >= 40:
		return "📈 **Good progress! Consider adding more workout days for better results.**"
	case frequency >= 20:
		return "🌱 **Building a habit! Try to be more consistent for better momentum.**"
	default:
		return "💡 **Ready to get started? Consistency is key to seeing results!**"
	}
}

func recentProgressReport(days []models.DailyMetric, activities []models.ActivitySummary, now time.Time) string {
	var (
		active        int
		totalVolume   float64
		totalDuration int
	)
	for _, d := range days {
		if d.TotalWorkouts > 0 {
			active++
			totalVolume += d.TotalVolume
			totalDuration += d.TotalDuration
		}
	}
	var frequency, avgMinutes float64
	if len(days) > 0 {
		frequency = float64(active) / float64(len(days)) * 100
	}
	if active > 0 {
		avgMinutes = float64(totalDuration) / float64(active) / 60
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 📈 Recent Progress (%d days)\n\n", dailyMetricsDays)
	b.WriteString("## Monthly Overview\n")
	fmt.Fprintf(&b, "- **Workout Days**: %d out of %d (%.1f%%)\n", active, dailyMetricsDays, frequency)
	fmt.Fprintf(&b, "- **Total Volume**: %s lbs\n", num(totalVolume))
	fmt.Fprintf(&b, "- **Average Workout**: %d minutes\n\n", int(math.Round(avgMinutes)))
	b.WriteString(consistencyMessage(frequency))
	b.WriteString("\n\n## Recent Activity\n")

	if len(activities) == 0 {
		b.WriteString("No recent activities found.\n")
		return b.String()
	}
	for i, a := range activities[:min(len(activities), progressActivities)] {
		fmt.Fprintf(&b, "%d. **%s** (%s)\n", i+1, a.Name, daysAgo(now, a.Timestamp))
		fmt.Fprintf(&b, "   - %s lbs | %d min\n", num(a.TotalVolume), minutes(a.Duration))
	}
	return b.String()
}

func recentWorkoutsReport(activities []models.ActivitySummary, now time.Time) string {
	var b strings.Builder
	b.WriteString("# 🏋️ Recent Workouts\n\n")
	if len(activities) == 0 {
		b.WriteString("No recent workouts found. Time to get moving! 💪\n")
		return b.String()
	}

	var volume float64
	var seconds int
	for _, a := range activities {
		volume += a.TotalVolume
		seconds += a.Duration
	}
	avg := float64(seconds) / float64(len(activities)) / 60

	fmt.Fprintf(&b, "**Summary (last %d workouts):**\n", len(activities))
	fmt.Fprintf(&b, "- Total Volume: %s lbs\n", num(volume))
	fmt.Fprintf(&b, "- Total Time: %d minutes\n", minutes(seconds))
	fmt.Fprintf(&b, "- Average Duration: %d minutes\n\n", int(math.Round(avg)))

	b.WriteString("## Workout History\n\n")
	for _, a := range activities {
		kind := "Free Lift"
		if a.IsGuidedWorkout {
			kind = "Guided"
		}
		fmt.Fprintf(&b, "**%s** (%s)\n", a.Name, daysAgo(now, a.Timestamp))
		fmt.Fprintf(&b, "- Duration: %d min | Volume: %s lbs | Reps: %d\n", minutes(a.Duration), num(a.TotalVolume), a.TotalReps)
		fmt.Fprintf(&b, "- Target: %s | Type: %s\n", a.TargetArea, kind)
		if a.IsInProgram {
			b.WriteString("- Part of Program\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortMovements(ms []models.Movement) {
	sort.SliceStable(ms, func(i, j int) bool {
		return strings.ToLower(ms[i].Name) < strings.ToLower(ms[j].Name)
	})
}

// movementLine renders one movement with its secondary muscles and a marker
// for timed movements, which take a duration instead of reps.
func movementLine(m models.Movement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s**", m.Name)
	if !m.CountReps {
		b.WriteString(" ⏱️ timed")
	}
	if len(m.MuscleGroups) > 1 {
		fmt.Fprintf(&b, " _(also: %s)_", strings.Join(m.MuscleGroups[1:], ", "))
	}
	b.WriteString("\n")
	return b.String()
}

func movementsReport(total int, filtered []models.Movement, filter []string) string {
	var b strings.Builder
	b.WriteString("# 💪 Available Movements\n\n")
	if len(filter) > 0 {
		fmt.Fprintf(&b, "**Filtered by: %s**\n", strings.Join(filter, ", "))
		fmt.Fprintf(&b, "Found %d movements (out of %d total)\n\n", len(filtered), total)
	} else {
		fmt.Fprintf(&b, "**All movements** (%d total)\n\n", total)
	}

	if len(filtered) == 0 {
		b.WriteString("No movements found")
		if len(filter) > 0 {
			fmt.Fprintf(&b, " for %q", strings.Join(filter, ", "))
		}
		b.WriteString(".\nTry terms like: Chest, Back, Legs, Shoulders, Arms, Core\n")
		return b.String()
	}

	groups := make(map[string][]models.Movement)
	for _, m := range filtered {
		primary := "Other"
		if len(m.MuscleGroups) > 0 {
			primary = m.MuscleGroups[0]
		}
		groups[primary] = append(groups[primary], m)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		list := groups[name]
		sortMovements(list)
		fmt.Fprintf(&b, "## %s (%d movements)\n", name, len(list))
		for _, m := range list[:min(len(list), movementsPerGroup)] {
			b.WriteString(movementLine(m))
		}
		if len(list) > movementsPerGroup {
			fmt.Fprintf(&b, "  _(and %d more...)_\n", len(list)-movementsPerGroup)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func searchMovementsReport(query string, matches []models.Movement, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🔎 Movements matching %q\n\n", query)
	if len(matches) == 0 {
		fmt.Fprintf(&b, "No movements out of %d match. Try a shorter term, or get_movements with a muscle group.\n", total)
		return b.String()
	}

	sortMovements(matches)
	fmt.Fprintf(&b, "Found %d of %d movements. Use these names exactly as movementName.\n\n", len(matches), total)
	for _, m := range matches[:min(len(matches), searchResultsLimit)] {
		b.WriteString(movementLine(m))
	}
	if len(matches) > searchResultsLimit {
		fmt.Fprintf(&b, "_(and %d more, refine the query)_\n", len(matches)-searchResultsLimit)
	}
	return b.String()
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func customWorkoutsReport(workouts []models.Workout) string {
	var b strings.Builder
	b.WriteString("# 🏗️ Your Custom Workouts\n\n")
	fmt.Fprintf(&b, "Found %d custom workouts\n\n", len(workouts))
	if len(workouts) == 0 {
		b.WriteString("No custom workouts found. Create one with create_custom_workout!\n")
		return b.String()
	}

	sorted := make([]models.Workout, len(workouts))
	copy(sorted, workouts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	for i, w := range sorted {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, w.Title)
		fmt.Fprintf(&b, "- **Created**: %s\n", w.CreatedAt.Format("Jan 2, 2006"))
		fmt.Fprintf(&b, "- **Duration**: %d minutes\n", minutes(w.Duration))
		fmt.Fprintf(&b, "- **Target**: %s\n", orUnspecified(w.TargetArea))
		fmt.Fprintf(&b, "- **Sets**: %d\n", len(w.Sets))
		if w.Description != "" {
			fmt.Fprintf(&b, "- **Description**: %s\n", w.Description)
		}
		fmt.Fprintf(&b, "- **ID**: `%s`\n\n", w.ID)
	}
	b.WriteString("\n💡 **Tip**: Refer to a workout by its exact title to view, edit or delete it.\n")
	return b.String()
}

func workoutDetailsReport(w *models.Workout, catalog *workout.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 📋 %s\n\n", w.Title)
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- **Created**: %s\n", w.CreatedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "- **Duration**: %d minutes\n", minutes(w.Duration))
	fmt.Fprintf(&b, "- **Target Area**: %s\n", orUnspecified(w.TargetArea))
	fmt.Fprintf(&b, "- **Total Sets**: %d\n", len(w.Sets))
	if w.Description != "" {
		fmt.Fprintf(&b, "- **Description**: %s\n", w.Description)
	}
	if len(w.Accessories) > 0 {
		fmt.Fprintf(&b, "- **Equipment**: %s\n", strings.Join(w.Accessories, ", "))
	}
	b.WriteString("\n")

	if len(w.Sets) > 0 {
		b.WriteString("## Workout Structure\n\n")
		block := -1
		for i, s := range w.Sets {
			if s.BlockNumber != block {
				block = s.BlockNumber
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "### Block %d\n", block)
			}
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, catalog.Name(s.MovementID))
			switch {
			case s.PrescribedReps != nil:
				fmt.Fprintf(&b, "   - Reps: %d", *s.PrescribedReps)
			case s.PrescribedDuration != nil:
				fmt.Fprintf(&b, "   - Duration: %ds", *s.PrescribedDuration)
			default:
				b.WriteString("   - Open set")
			}
			if s.WeightPercentage != 0 {
				fmt.Fprintf(&b, " @ %s%% weight", num(s.WeightPercentage))
			}
			if s.WarmUp {
				b.WriteString(" (Warm-up)")
			}
			if s.DropSet {
				b.WriteString(" (Drop set)")
			}
			if s.Burnout {
				b.WriteString(" (Burnout)")
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n## Workout ID\n`%s`\n", w.ID)
	return b.String()
}

// editableStructure is the JSON a client edits and sends back to
// update_workout.
type editableStructure struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Exercises   []models.ExerciseSpec `json:"exercises"`
}

// editableReport renders a workout as an editable exercise structure plus a
// per-block listing. heading and structureHeading vary between tools.
func editableReport(heading, structureHeading string, w *models.Workout, exercises []models.ExerciseSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "**%s**\n\n", w.Title)
	fmt.Fprintf(&b, "**Workout ID:** %s\n", w.ID)
	fmt.Fprintf(&b, "**Duration:** %d minutes\n", minutes(w.Duration))
	if w.Description != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", w.Description)
	}
	b.WriteString("\n")

	data, err := json.MarshalIndent(editableStructure{
		Title:       w.Title,
		Description: w.Description,
		Exercises:   exercises,
	}, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}
	fmt.Fprintf(&b, "## %s\n\n```json\n%s\n```\n\n", structureHeading, data)

	fmt.Fprintf(&b, "## Exercises (%d total)\n\n", len(exercises))
	var (
		order  []int
		blocks = make(map[int][]models.ExerciseSpec)
	)
	for _, ex := range exercises {
		block := 0
		if ex.Block != nil {
			block = *ex.Block
		}
		if _, seen := blocks[block]; !seen {
			order = append(order, block)
		}
		blocks[block] = append(blocks[block], ex)
	}
	sort.Ints(order)

	for _, block := range order {
		members := blocks[block]
		fmt.Fprintf(&b, "### Block %d\n", block)
		if len(members) > 1 {
			names := make([]string, len(members))
			for i, ex := range members {
				names[i] = ex.MovementName
			}
			fmt.Fprintf(&b, "_(Exercises alternate: %s)_\n\n", strings.Join(names, " → "))
		}
		for _, ex := range members {
			fmt.Fprintf(&b, "- **%s**\n", ex.MovementName)
			fmt.Fprintf(&b, "  - Sets: %d\n", ex.Sets)
			if ex.Reps != nil {
				fmt.Fprintf(&b, "  - Reps: %d\n", *ex.Reps)
			}
			if ex.Duration != nil {
				fmt.Fprintf(&b, "  - Duration: %ds\n", *ex.Duration)
			}
			if ex.Weight != nil {
				fmt.Fprintf(&b, "  - Weight: %s%%\n", num(*ex.Weight))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// warmupNotice explains that warm-up flags were dropped, or returns "".
func warmupNotice(exercises []models.ExerciseSpec) string {
	names := workout.IgnoredWarmups(exercises)
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("\n⚠️ isWarmup was ignored for: %s. Tonal mishandles single-set warm-up blocks, so every set is saved as a working set.\n",
		strings.Join(names, ", "))
}

func revisionsReport(name string, revs []storage.Revision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🕘 Revision History: %s\n\n", name)
	if len(revs) == 0 {
		b.WriteString("No saved revisions. A revision is stored each time a workout is updated, deleted or restored.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Found %s, newest first\n\n", plural(len(revs), "revision"))
	for i, r := range revs {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, r.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(&b, "- **Revision ID**: `%s`\n", r.ID)
		fmt.Fprintf(&b, "- **Saved before**: %s\n", r.Reason)
		fmt.Fprintf(&b, "- **Title**: %s\n", r.Title)
		fmt.Fprintf(&b, "- **Sets**: %d\n", len(r.Sets))
		if r.Description != "" {
			fmt.Fprintf(&b, "- **Description**: %s\n", r.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("💡 **Tip**: Use restore_workout_revision with a Revision ID to bring that version back.\n")
	return b.String()
}
