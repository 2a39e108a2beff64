package workout

import "github.com/claude/tonalmcp/internal/models"

// planned is an exercise that passed validation and has a block assigned.
type planned struct {
	ex       models.ExerciseSpec
	movement models.Movement
	block    int
}

// ExercisesToSets encodes exercises into the platform's set list.
//
// Exercises sharing a Block value form one block; each exercise without a
// Block gets its own. Blocks are numbered 1..n in the order they are first
// seen. Within a block, exercises take set groups 1..k in declaration order
// and their sets are emitted round by round, so a superset of A (3 sets) and
// B (1 set) yields A1 B1 A2 A3. The first set of every block has BlockStart.
//
// The first invalid exercise aborts the whole conversion with a
// *ValidationError; no partial list is returned.
func ExercisesToSets(exercises []models.ExerciseSpec, catalog *Catalog) ([]models.SetRecord, error) {
	plan := make([]planned, 0, len(exercises))
	blockForGroup := make(map[int]int)
	nextBlock := 1
	total := 0

	for i, ex := range exercises {
		m, err := validate(ex, catalog)
		if err != nil {
			return nil, &ValidationError{Index: i, Exercise: ex.MovementName, Err: err}
		}

		var block int
		if ex.Block != nil {
			b, ok := blockForGroup[*ex.Block]
			if !ok {
				b = nextBlock
				blockForGroup[*ex.Block] = b
				nextBlock++
			}
			block = b
		} else {
			block = nextBlock
			nextBlock++
		}

		plan = append(plan, planned{ex: ex, movement: m, block: block})
		total += ex.Sets
	}

	// Block numbers are dense, so a slice indexed by block-1 keeps them in order.
	blocks := make([][]planned, nextBlock-1)
	for _, p := range plan {
		blocks[p.block-1] = append(blocks[p.block-1], p)
	}

	sets := make([]models.SetRecord, 0, total)
	for i, members := range blocks {
		sets = appendBlock(sets, i+1, members)
	}
	return sets, nil
}

func validate(ex models.ExerciseSpec, catalog *Catalog) (models.Movement, error) {
	m, err := catalog.Resolve(ex.MovementName)
	if err != nil {
		return models.Movement{}, err
	}
	if ex.Sets < 1 {
		return models.Movement{}, ErrInvalidSetCount
	}
	if ex.Sets > MaxSets {
		return models.Movement{}, ErrTooManySets
	}
	if ex.Weight != nil && (*ex.Weight < 0 || *ex.Weight > 100) {
		return models.Movement{}, ErrWeightRange
	}
	if m.CountReps {
		if ex.Reps == nil || *ex.Reps < 1 {
			return models.Movement{}, ErrMissingReps
		}
	} else {
		if ex.Duration == nil || *ex.Duration < 1 {
			return models.Movement{}, ErrMissingDuration
		}
	}
	return m, nil
}

// appendBlock emits one block round-robin. Exercises with fewer sets than
// the block's longest simply stop contributing; rounds are not padded.
func appendBlock(sets []models.SetRecord, blockNumber int, members []planned) []models.SetRecord {
	maxRounds := 0
	for _, p := range members {
		maxRounds = max(maxRounds, p.ex.Sets)
	}

	started := false
	for round := 1; round <= maxRounds; round++ {
		for slot, p := range members {
			if round > p.ex.Sets {
				continue
			}
			sets = append(sets, newSet(p, blockNumber, slot+1, round, !started))
			started = true
		}
	}
	return sets
}

func newSet(p planned, blockNumber, setGroup, round int, blockStart bool) models.SetRecord {
	s := models.SetRecord{
		MovementID:      p.movement.ID,
		BlockStart:      blockStart,
		BlockNumber:     blockNumber,
		SetGroup:        setGroup,
		Round:           round,
		Repetition:      round,
		RepetitionTotal: p.ex.Sets,
		// WarmUp stays false even when IsWarmup was requested; see ExerciseSpec.
		WarmUp: false,
	}
	if p.ex.Weight != nil {
		s.WeightPercentage = *p.ex.Weight
	}
	if p.movement.CountReps {
		reps := *p.ex.Reps
		s.PrescribedReps = &reps
	} else {
		d := *p.ex.Duration
		s.PrescribedDuration = &d
	}
	return s
}

// IgnoredWarmups returns the movement names of exercises that asked for a
// warm-up flag. The flag is never encoded; callers use this to warn.
func IgnoredWarmups(exercises []models.ExerciseSpec) []string {
	var names []string
	for _, ex := range exercises {
		if ex.IsWarmup {
			names = append(names, ex.MovementName)
		}
	}
	return names
}
