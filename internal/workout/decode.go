package workout

import (
	"sort"

	"github.com/claude/tonalmcp/internal/models"
)

type slotKey struct {
	block    int
	setGroup int
}

// SetsToExercises rebuilds one exercise per (blockNumber, setGroup) pair,
// ordered by block then set group.
//
// The first record seen for a pair is the template for everything else in
// that pair. Sets, reps, duration and weight are read from it alone, so a
// workout whose rounds differ (a pyramid, say) decodes to its first round
// and per-round variation is lost.
//
// Unknown movement ids decode to the id itself. Block is set to the
// platform block number, which is dense and may differ from the block
// values originally passed to ExercisesToSets. IsWarmup is never set.
func SetsToExercises(sets []models.SetRecord, catalog *Catalog) []models.ExerciseSpec {
	if len(sets) == 0 {
		return []models.ExerciseSpec{}
	}

	templates := make(map[slotKey]models.SetRecord)
	var keys []slotKey
	for _, s := range sets {
		k := slotKey{block: s.BlockNumber, setGroup: s.SetGroup}
		if _, seen := templates[k]; seen {
			continue
		}
		templates[k] = s
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].block != keys[j].block {
			return keys[i].block < keys[j].block
		}
		return keys[i].setGroup < keys[j].setGroup
	})

	exercises := make([]models.ExerciseSpec, 0, len(keys))
	for _, k := range keys {
		exercises = append(exercises, fromTemplate(templates[k], catalog))
	}
	return exercises
}

func fromTemplate(t models.SetRecord, catalog *Catalog) models.ExerciseSpec {
	block := t.BlockNumber
	ex := models.ExerciseSpec{
		MovementName: catalog.Name(t.MovementID),
		Sets:         t.RepetitionTotal,
		Block:        &block,
	}
	if t.WeightPercentage != 0 {
		w := t.WeightPercentage
		ex.Weight = &w
	}
	if t.PrescribedReps != nil && *t.PrescribedReps > 0 {
		reps := *t.PrescribedReps
		ex.Reps = &reps
	}
	if t.PrescribedDuration != nil && *t.PrescribedDuration > 0 {
		d := *t.PrescribedDuration
		ex.Duration = &d
	}
	return ex
}
