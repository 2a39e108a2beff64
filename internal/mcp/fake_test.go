package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/tonalmcp/internal/models"
	"github.com/claude/tonalmcp/internal/storage"
	"github.com/claude/tonalmcp/internal/tonal"
)

var testNow = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

// fakePlatform is an in-memory Platform. Workouts keep insertion order.
type fakePlatform struct {
	mu sync.Mutex

	movements  []models.Movement
	activities []models.ActivitySummary
	readiness  models.MuscleReadiness
	info       models.UserInfo
	stats      models.UserStatistics
	streak     models.Streak
	days       []models.DailyMetric

	workouts []*models.Workout
	nextID   int

	err       error // returned by every call when set
	deleteErr error

	creates []models.WorkoutInput
	updates []models.WorkoutInput
	deletes []string
}

var _ Platform = (*fakePlatform)(nil)

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		movements: []models.Movement{
			{ID: "m-bench", Name: "Bench Press", CountReps: true, MuscleGroups: []string{"Chest", "Triceps"}},
			{ID: "m-row", Name: "Bent Over Row", CountReps: true, MuscleGroups: []string{"Back", "Biceps"}},
			{ID: "m-squat", Name: "Goblet Squat", CountReps: true, MuscleGroups: []string{"Quads", "Glutes"}},
			{ID: "m-plank", Name: "Plank", CountReps: false, MuscleGroups: []string{"Abs"}},
			{ID: "m-fly", Name: "Chest Fly", CountReps: true, MuscleGroups: []string{"Chest"}},
		},
	}
}

func notFound(path string) error {
	return &tonal.APIError{StatusCode: http.StatusNotFound, Method: http.MethodGet, Path: path, Body: "not found"}
}

// seed stores a workout and returns its id.
func (f *fakePlatform) seed(w models.Workout) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if w.ID == "" {
		w.ID = fmt.Sprintf("w-%d", f.nextID)
	}
	w.Sets = f.assignIDs(w.ID, w.Sets)
	f.workouts = append(f.workouts, &w)
	return w.ID
}

func (f *fakePlatform) assignIDs(workoutID string, sets []models.SetRecord) []models.SetRecord {
	out := make([]models.SetRecord, len(sets))
	for i, s := range sets {
		s.ID = fmt.Sprintf("%s-s%d", workoutID, i+1)
		s.WorkoutID = workoutID
		out[i] = s
	}
	return out
}

func (f *fakePlatform) find(id string) (int, *models.Workout) {
	for i, w := range f.workouts {
		if w.ID == id {
			return i, w
		}
	}
	return -1, nil
}

func (f *fakePlatform) GetUserInfo(ctx context.Context) (*models.UserInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info := f.info
	return &info, nil
}

func (f *fakePlatform) GetUserStatistics(ctx context.Context) (*models.UserStatistics, error) {
	if f.err != nil {
		return nil, f.err
	}
	stats := f.stats
	return &stats, nil
}

func (f *fakePlatform) GetCurrentStreak(ctx context.Context) (*models.Streak, error) {
	if f.err != nil {
		return nil, f.err
	}
	streak := f.streak
	return &streak, nil
}

func (f *fakePlatform) GetDailyMetrics(ctx context.Context, days int) ([]models.DailyMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.days, nil
}

func (f *fakePlatform) GetActivitySummaries(ctx context.Context) ([]models.ActivitySummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activities, nil
}

func (f *fakePlatform) GetMuscleReadiness(ctx context.Context) (*models.MuscleReadiness, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := f.readiness
	return &r, nil
}

func (f *fakePlatform) GetMovements(ctx context.Context) ([]models.Movement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.movements, nil
}

func (f *fakePlatform) GetUserWorkouts(ctx context.Context, offset, limit int) ([]models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Workout, 0, len(f.workouts))
	for _, w := range f.workouts {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakePlatform) GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, w := f.find(id)
	if w == nil {
		return nil, notFound("/v6/user-workouts/" + id)
	}
	cp := *w
	return &cp, nil
}

func (f *fakePlatform) CreateWorkout(ctx context.Context, in models.WorkoutInput) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	f.nextID++
	w := &models.Workout{
		ID:            fmt.Sprintf("w-%d", f.nextID),
		Title:         in.Title,
		Description:   in.Description,
		CreatedAt:     testNow,
		Duration:      20 * 60,
		CreatedSource: in.CreatedSource,
	}
	w.Sets = f.assignIDs(w.ID, in.Sets)
	f.workouts = append(f.workouts, w)
	cp := *w
	return &cp, nil
}

func (f *fakePlatform) UpdateWorkout(ctx context.Context, id string, in models.WorkoutInput) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	_, w := f.find(id)
	if w == nil {
		return nil, notFound("/v6/user-workouts/" + id)
	}
	w.Title = in.Title
	w.Description = in.Description
	w.Sets = f.assignIDs(id, in.Sets)
	w.CoachID, w.AssetID, w.Level = in.CoachID, in.AssetID, in.Level
	w.CreatedSource = in.CreatedSource
	cp := *w
	return &cp, nil
}

func (f *fakePlatform) DeleteWorkout(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	i, w := f.find(id)
	if w == nil {
		return notFound("/v6/user-workouts/" + id)
	}
	f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
	return nil
}

// --- test helpers ---

func newTestHandlers(p Platform, revs storage.RevisionStore) *handlers {
	h := newHandlers(p, revs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return testNow }
	return h
}

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	s, err := storage.OpenSQLite(t.TempDir() + "/revisions.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// jsonArgs decodes tool arguments the way they arrive over the wire, with
// numbers as float64.
func jsonArgs(t *testing.T, js string) map[string]any {
	t.Helper()
	var args map[string]any
	if err := json.Unmarshal([]byte(js), &args); err != nil {
		t.Fatalf("bad test args %s: %v", js, err)
	}
	return args
}

func callTool(t *testing.T, h *handlers, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	handler, ok := h.toolset().Lookup(name)
	if !ok {
		t.Fatalf("tool %q not registered", name)
	}
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("%s returned Go error: %v", name, err)
	}
	if res == nil {
		t.Fatalf("%s returned nil result", name)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			b.WriteString(tc.Text)
		case *mcp.TextContent:
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func mustContain(t *testing.T, text string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q\n--- got ---\n%s", want, text)
		}
	}
}
