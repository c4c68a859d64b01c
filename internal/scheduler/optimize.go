package scheduler

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

// IterationResult summarizes one dry-run batch pass within an optimization.
type IterationResult struct {
	Iteration int
	Seed      int64
	Scheduled int
	Failed    int
	MeanQuality float64
}

// OptimizeResult carries the best seed found and the full iteration history.
// Callers re-run AutoSchedule with BestSeed to apply the winning schedule
// for real.
type OptimizeResult struct {
	BestSeed      int64
	BestIteration int
	Best          *BatchResult
	History       []IterationResult
}

// Optimize reruns the batch pass maxIterations times, each in dry-run mode
// with a fresh seed drawn from the scheduler's generator, unscheduling
// everything between iterations. The iteration with the fewest failures
// wins; ties go to the higher mean quality.
func (s *Scheduler) Optimize(matches []*model.Match, maxIterations int) (*OptimizeResult, error) {
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be >= 1", model.ErrValidation)
	}

	var pending []*model.Match
	for _, m := range matches {
		if !m.IsScheduled() {
			pending = append(pending, m)
		}
	}

	result := &OptimizeResult{BestIteration: -1}

	for i := 0; i < maxIterations; i++ {
		seed := s.Rand.Int63()

		// Fresh clones and a clean overlay: each iteration starts from the
		// same unscheduled state and leaves committed storage untouched.
		clones := make([]*model.Match, len(pending))
		for j, m := range pending {
			clones[j] = m.Clone()
		}
		s.Overlay.Clear()

		batch, err := s.AutoSchedule(clones, true, seed)
		if err != nil {
			s.Overlay.Clear()
			return nil, err
		}

		iter := IterationResult{
			Iteration:   i,
			Seed:        seed,
			Scheduled:   batch.Scheduled,
			Failed:      batch.Failed,
			MeanQuality: batch.MeanQuality(),
		}
		result.History = append(result.History, iter)

		better := result.Best == nil ||
			batch.Failed < result.Best.Failed ||
			(batch.Failed == result.Best.Failed && batch.MeanQuality() > result.Best.MeanQuality())
		if better {
			result.Best = batch
			result.BestSeed = seed
			result.BestIteration = i
		}

		s.Log.WithFields(logrus.Fields{
			"iteration": i,
			"seed":      seed,
			"scheduled": batch.Scheduled,
			"failed":    batch.Failed,
			"quality":   iter.MeanQuality,
		}).Debug("optimizer iteration complete")
	}

	s.Overlay.Clear()

	s.Log.WithFields(logrus.Fields{
		"best_seed":      result.BestSeed,
		"best_iteration": result.BestIteration,
		"failed":         result.Best.Failed,
		"quality":        result.Best.MeanQuality(),
	}).Info("optimization complete")
	return result, nil
}
