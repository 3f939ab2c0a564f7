package calculation

import (
	"math/rand"

	"github.com/pensim/plan-comparator/internal/domain"
)

// PathSampler draws bootstrap resamples of the historical observation set.
// The set is read-only for the sampler's lifetime; every draw is uniform
// with replacement, so temporal order in the history is deliberately
// discarded in favor of i.i.d. resampling.
type PathSampler struct {
	observations []domain.EconomicObservation
}

// TrialPaths holds the two independently drawn sequences consumed by one
// trial: one for the working period, one for retirement.
type TrialPaths struct {
	Working    []domain.EconomicObservation
	Retirement []domain.EconomicObservation
}

// NewPathSampler creates a sampler over a non-empty observation set.
func NewPathSampler(observations []domain.EconomicObservation) (*PathSampler, error) {
	if len(observations) == 0 {
		return nil, domain.NewConfigurationError("observations", "historical observation set is empty")
	}
	return &PathSampler{observations: observations}, nil
}

// Size returns the number of historical observations available.
func (ps *PathSampler) Size() int { return len(ps.observations) }

// Sample draws a sequence of the given length, each element drawn uniformly
// at random with replacement from the full historical set. The caller owns
// rng; the sampler never touches shared random state.
func (ps *PathSampler) Sample(rng *rand.Rand, years int) ([]domain.EconomicObservation, error) {
	if years <= 0 {
		return nil, domain.NewConfigurationError("path_length", "requested path length must be positive, got %d", years)
	}
	path := make([]domain.EconomicObservation, years)
	for i := range path {
		path[i] = ps.observations[rng.Intn(len(ps.observations))]
	}
	return path, nil
}

// SampleTrialPaths draws the working and retirement paths for one trial.
// The two draws are independent: each element comes from its own call into
// rng with no shared cursor. A zero retirement horizon yields an empty
// retirement path.
func (ps *PathSampler) SampleTrialPaths(rng *rand.Rand, yearsWorked, yearsRetired int) (TrialPaths, error) {
	working, err := ps.Sample(rng, yearsWorked)
	if err != nil {
		return TrialPaths{}, err
	}
	var retirement []domain.EconomicObservation
	if yearsRetired > 0 {
		retirement, err = ps.Sample(rng, yearsRetired)
		if err != nil {
			return TrialPaths{}, err
		}
	}
	return TrialPaths{Working: working, Retirement: retirement}, nil
}
