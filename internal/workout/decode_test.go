package workout

import (
	"testing"

	"github.com/claude/tonalmcp/internal/models"
)

func repsSet(movement string, block, group, round, total, reps int) models.SetRecord {
	return models.SetRecord{
		MovementID:      movement,
		BlockStart:      group == 1 && round == 1,
		BlockNumber:     block,
		SetGroup:        group,
		Round:           round,
		Repetition:      round,
		RepetitionTotal: total,
		PrescribedReps:  intPtr(reps),
	}
}

func TestSetsToExercisesSuperset(t *testing.T) {
	exercises := []models.ExerciseSpec{
		{MovementName: "Bench Press", Sets: 3, Reps: intPtr(10), Block: intPtr(1)},
		{MovementName: "Row", Sets: 3, Reps: intPtr(10), Block: intPtr(1)},
	}
	sets, err := ExercisesToSets(exercises, testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := SetsToExercises(sets, testCatalog())
	if len(got) != 2 {
		t.Fatalf("got %d exercises, want 2", len(got))
	}
	for i, want := range []string{"Bench Press", "Row"} {
		ex := got[i]
		if ex.MovementName != want {
			t.Errorf("got[%d].MovementName = %q, want %q", i, ex.MovementName, want)
		}
		if ex.Sets != 3 {
			t.Errorf("got[%d].Sets = %d, want 3", i, ex.Sets)
		}
		if ex.Reps == nil || *ex.Reps != 10 {
			t.Errorf("got[%d].Reps = %v, want 10", i, ex.Reps)
		}
		if ex.Block == nil || *ex.Block != 1 {
			t.Errorf("got[%d].Block = %v, want 1", i, ex.Block)
		}
		if ex.Duration != nil {
			t.Errorf("got[%d].Duration = %d, want nil", i, *ex.Duration)
		}
		if ex.Weight != nil {
			t.Errorf("got[%d].Weight = %v, want nil", i, *ex.Weight)
		}
	}
}

// TestSetsToExercisesOrdering verifies output is sorted by block then set
// group regardless of input order.
func TestSetsToExercisesOrdering(t *testing.T) {
	sets := []models.SetRecord{
		repsSet("m-squat", 2, 2, 1, 1, 12),
		repsSet("m-row", 2, 1, 1, 2, 8),
		repsSet("m-bench", 1, 1, 1, 3, 10),
		repsSet("m-row", 2, 1, 2, 2, 8),
	}

	got := SetsToExercises(sets, testCatalog())
	want := []struct {
		name  string
		block int
		sets  int
	}{
		{"Bench Press", 1, 3},
		{"Row", 2, 2},
		{"Goblet Squat", 2, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d exercises, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].MovementName != w.name || *got[i].Block != w.block || got[i].Sets != w.sets {
			t.Errorf("got[%d] = {%s block=%d sets=%d}, want {%s block=%d sets=%d}",
				i, got[i].MovementName, *got[i].Block, got[i].Sets, w.name, w.block, w.sets)
		}
	}
}

func TestSetsToExercisesUnknownMovement(t *testing.T) {
	got := SetsToExercises([]models.SetRecord{repsSet("m-mystery", 1, 1, 1, 1, 5)}, testCatalog())
	if len(got) != 1 {
		t.Fatalf("got %d exercises, want 1", len(got))
	}
	if got[0].MovementName != "m-mystery" {
		t.Errorf("MovementName = %q, want the raw id", got[0].MovementName)
	}
}

func TestSetsToExercisesNilCatalog(t *testing.T) {
	got := SetsToExercises([]models.SetRecord{repsSet("m-bench", 1, 1, 1, 1, 5)}, nil)
	if got[0].MovementName != "m-bench" {
		t.Errorf("MovementName = %q, want m-bench", got[0].MovementName)
	}
}

// TestSetsToExercisesFirstRecordWins pins the lossy decode: fields come from
// the first record seen for a slot, in input order.
func TestSetsToExercisesFirstRecordWins(t *testing.T) {
	sets := []models.SetRecord{
		repsSet("m-bench", 1, 1, 2, 3, 8),
		repsSet("m-bench", 1, 1, 1, 3, 12),
		repsSet("m-bench", 1, 1, 3, 3, 6),
	}
	sets[0].WeightPercentage = 70
	sets[1].WeightPercentage = 50

	got := SetsToExercises(sets, testCatalog())
	if len(got) != 1 {
		t.Fatalf("got %d exercises, want 1", len(got))
	}
	if *got[0].Reps != 8 {
		t.Errorf("Reps = %d, want 8 from the first record seen", *got[0].Reps)
	}
	if got[0].Weight == nil || *got[0].Weight != 70 {
		t.Errorf("Weight = %v, want 70", got[0].Weight)
	}
	if got[0].Sets != 3 {
		t.Errorf("Sets = %d, want 3", got[0].Sets)
	}
}

func TestSetsToExercisesFields(t *testing.T) {
	tests := []struct {
		name         string
		set          models.SetRecord
		wantReps     *int
		wantDuration *int
		wantWeight   *float64
	}{
		{
			name:     "reps only",
			set:      models.SetRecord{MovementID: "m-row", BlockNumber: 1, SetGroup: 1, RepetitionTotal: 2, PrescribedReps: intPtr(10)},
			wantReps: intPtr(10),
		},
		{
			name:         "duration only",
			set:          models.SetRecord{MovementID: "m-plank", BlockNumber: 1, SetGroup: 1, RepetitionTotal: 2, PrescribedDuration: intPtr(45)},
			wantDuration: intPtr(45),
		},
		{
			name: "zero prescriptions are absent",
			set:  models.SetRecord{MovementID: "m-row", BlockNumber: 1, SetGroup: 1, RepetitionTotal: 1, PrescribedReps: intPtr(0), PrescribedDuration: intPtr(0)},
		},
		{
			name:       "nonzero weight",
			set:        models.SetRecord{MovementID: "m-row", BlockNumber: 1, SetGroup: 1, RepetitionTotal: 1, PrescribedReps: intPtr(5), WeightPercentage: 42.5},
			wantReps:   intPtr(5),
			wantWeight: floatPtr(42.5),
		},
		{
			name:     "warm-up flag on record is not decoded",
			set:      models.SetRecord{MovementID: "m-row", BlockNumber: 1, SetGroup: 1, RepetitionTotal: 1, PrescribedReps: intPtr(5), WarmUp: true},
			wantReps: intPtr(5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetsToExercises([]models.SetRecord{tt.set}, testCatalog())
			if len(got) != 1 {
				t.Fatalf("got %d exercises, want 1", len(got))
			}
			ex := got[0]
			if !equalIntPtr(ex.Reps, tt.wantReps) {
				t.Errorf("Reps = %v, want %v", fmtIntPtr(ex.Reps), fmtIntPtr(tt.wantReps))
			}
			if !equalIntPtr(ex.Duration, tt.wantDuration) {
				t.Errorf("Duration = %v, want %v", fmtIntPtr(ex.Duration), fmtIntPtr(tt.wantDuration))
			}
			if (ex.Weight == nil) != (tt.wantWeight == nil) || (ex.Weight != nil && *ex.Weight != *tt.wantWeight) {
				t.Errorf("Weight = %v, want %v", ex.Weight, tt.wantWeight)
			}
			if ex.IsWarmup {
				t.Error("IsWarmup = true, want false")
			}
		})
	}
}

func TestSetsToExercisesEmpty(t *testing.T) {
	got := SetsToExercises(nil, testCatalog())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
