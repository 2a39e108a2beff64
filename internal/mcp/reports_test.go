package mcp

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/tonalmcp/internal/models"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1,234"},
		{1234567.5, "1,234,567.5"},
		{12.34567, "12.346"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDaysAgo(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{testNow.Add(-time.Hour), "Today"},
		{testNow.Add(time.Hour), "Today"},
		{testNow.Add(-25 * time.Hour), "Yesterday"},
		{testNow.Add(-72 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		if got := daysAgo(testNow, tt.at); got != tt.want {
			t.Errorf("daysAgo(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestReadinessStatus(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "🟢"},
		{80, "🟢"},
		{79.9, "🟡"},
		{60, "🟡"},
		{59, "🔴"},
		{0, "🔴"},
	}
	for _, tt := range tests {
		if got := readinessStatus(tt.pct); got != tt.want {
			t.Errorf("readinessStatus(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestReadinessReportAllReady(t *testing.T) {
	r := models.MuscleReadiness{
		Chest: 90, Shoulders: 90, Back: 90, Triceps: 90, Biceps: 90,
		Abs: 90, Obliques: 90,
		Quads: 90, Glutes: 90, Hamstrings: 90, Calves: 90,
	}
	text := readinessReport(&r)
	mustContain(t, text, "## ✅ All Systems Go!")
	if strings.Contains(text, "Recovery Needed") {
		t.Error("report lists recovery with every muscle ready")
	}
}

func TestConsistencyMessage(t *testing.T) {
	tests := []struct {
		freq float64
		want string
	}{
		{100, "Exceptional consistency"},
		{80, "Exceptional consistency"},
		{65, "Great consistency"},
		{40, "Good progress"},
		{20, "Building a habit"},
		{5, "Ready to get started"},
	}
	for _, tt := range tests {
		if got := consistencyMessage(tt.freq); !strings.Contains(got, tt.want) {
			t.Errorf("consistencyMessage(%v) = %q, want %q", tt.freq, got, tt.want)
		}
	}
}

func TestUserStatsStreakMessages(t *testing.T) {
	info := &models.UserInfo{FirstName: "A", LastName: "B"}
	stats := &models.UserStatistics{}
	tests := []struct {
		streak models.Streak
		want   string
	}{
		{models.Streak{CurrentStreak: 0, MaxStreak: 4}, "Ready to start a new streak?"},
		{models.Streak{CurrentStreak: 4, MaxStreak: 4}, "New personal best!"},
		{models.Streak{CurrentStreak: 6, MaxStreak: 9}, "Great momentum!"},
		{models.Streak{CurrentStreak: 1, MaxStreak: 9}, "Building momentum!"},
	}
	for _, tt := range tests {
		text := userStatsReport(info, stats, &tt.streak)
		if !strings.Contains(text, tt.want) {
			t.Errorf("streak %+v: report missing %q", tt.streak, tt.want)
		}
	}

	text := userStatsReport(info, stats, &models.Streak{CurrentStreak: 1, MaxStreak: 1})
	mustContain(t, text, "**Current**: 1 workout\n", "**Progress to PB**: 100%")
}

func TestRecentProgressNoData(t *testing.T) {
	text := recentProgressReport(nil, nil, testNow)
	mustContain(t, text, "**Workout Days**: 0 out of 30 (0.0%)", "No recent activities found.")
}

func TestRecentWorkoutsReportEmpty(t *testing.T) {
	mustContain(t, recentWorkoutsReport(nil, testNow), "No recent workouts found.")
}

func TestMovementsReportCapsGroups(t *testing.T) {
	var ms []models.Movement
	for _, name := range strings.Split("L K J I H G F E D C B A", " ") {
		ms = append(ms, models.Movement{Name: "Move " + name, CountReps: true, MuscleGroups: []string{"Back"}})
	}
	ms = append(ms, models.Movement{Name: "Mystery", CountReps: true})

	text := movementsReport(len(ms), ms, nil)
	mustContain(t, text, "## Back (12 movements)", "- **Move A**", "- **Move J**", "_(and 2 more...)_", "## Other (1 movements)")
	if strings.Contains(text, "Move K") {
		t.Error("group not capped at 10 movements")
	}
	if strings.Index(text, "## Back") > strings.Index(text, "## Other") {
		t.Error("groups not sorted by name")
	}
}

func TestEditableReportGroupsBlocks(t *testing.T) {
	one, two := 1, 2
	reps := 10
	w := &models.Workout{ID: "w-9", Title: "Circuit", Duration: 1500}
	exercises := []models.ExerciseSpec{
		{MovementName: "Plank", Sets: 1, Duration: &reps, Block: &two},
		{MovementName: "Bench Press", Sets: 3, Reps: &reps, Block: &one},
		{MovementName: "Row", Sets: 3, Reps: &reps, Block: &one},
	}

	text := editableReport("Heading", "Structure", w, exercises)
	mustContain(t, text,
		"# Heading",
		"**Duration:** 25 minutes",
		"## Exercises (3 total)",
		"### Block 1\n_(Exercises alternate: Bench Press → Row)_",
		"### Block 2\n- **Plank**",
		"Duration: 10s",
	)
	if strings.Index(text, "### Block 1") > strings.Index(text, "### Block 2") {
		t.Error("blocks not in ascending order")
	}
}

func TestWarmupNotice(t *testing.T) {
	if got := warmupNotice([]models.ExerciseSpec{{MovementName: "Row"}}); got != "" {
		t.Errorf("warmupNotice without warm-ups = %q, want empty", got)
	}
	got := warmupNotice([]models.ExerciseSpec{
		{MovementName: "Row", IsWarmup: true},
		{MovementName: "Plank"},
		{MovementName: "Squat", IsWarmup: true},
	})
	mustContain(t, got, "isWarmup was ignored for: Row, Squat")
}
