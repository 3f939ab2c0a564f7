package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// Engine orchestrates the Monte Carlo batch: N independent trials, each
// combining one freshly sampled path with both plan calculators. Trials
// share only the immutable observation set; each writes to its own private
// outcome slot, so no locking is needed beyond the WaitGroup.
type Engine struct {
	sampler *PathSampler
	config  *domain.Configuration
	db      *DBCalculator
	dc      *DCCalculator
	Logger  Logger
}

// RunResult is the full output handed to the aggregation and reporting
// layers: every successful trial outcome plus batch bookkeeping.
type RunResult struct {
	Outcomes        []domain.TrialOutcome
	RequestedTrials int
	FailedTrials    int
	Seed            int64
	Aggregate       AggregateResult
}

// NewEngine validates the configuration (fail fast: nothing is partially
// computed on a bad config) and wires up the calculators.
func NewEngine(observations []domain.EconomicObservation, cfg *domain.Configuration, logger Logger) (*Engine, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	if err := ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	sampler, err := NewPathSampler(observations)
	if err != nil {
		return nil, err
	}

	db := NewDBCalculator()
	db.AccrualRateAt20 = cfg.Simulation.AccrualRateAt20
	db.COLAMode = cfg.Simulation.COLAMode
	db.LongRunInflation = cfg.Simulation.LongRunInflation
	db.Logger = logger

	dc := NewDCCalculator(cfg.Simulation.WithdrawalRate)
	dc.EmployerRateBasis = cfg.Simulation.EmployerRateBasis
	dc.Logger = logger

	return &Engine{
		sampler: sampler,
		config:  cfg,
		db:      db,
		dc:      dc,
		Logger:  logger,
	}, nil
}

// ValidateConfiguration checks every run-wide invariant. Violations abort
// the batch before any trial runs.
func ValidateConfiguration(cfg *domain.Configuration) error {
	if cfg == nil {
		return domain.NewConfigurationError("", "configuration is nil")
	}
	if err := cfg.Career.Validate(); err != nil {
		return err
	}
	s := cfg.Simulation
	if s.Trials <= 0 {
		return domain.NewConfigurationError("simulation.trials", "must be positive, got %d", s.Trials)
	}
	if s.WithdrawalRate.LessThanOrEqual(decimal.Zero) || s.WithdrawalRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.NewConfigurationError("simulation.withdrawal_rate", "must be in (0, 1], got %s", s.WithdrawalRate)
	}
	switch s.COLAMode {
	case domain.COLAModeFixed, domain.COLAModeBootstrap:
	default:
		return domain.NewConfigurationError("simulation.cola_mode", "must be %q or %q, got %q", domain.COLAModeFixed, domain.COLAModeBootstrap, s.COLAMode)
	}
	switch s.EmployerRateBasis {
	case domain.EmployerRateByTenure, domain.EmployerRateByAge:
	default:
		return domain.NewConfigurationError("simulation.employer_rate_basis", "must be %q or %q, got %q", domain.EmployerRateByTenure, domain.EmployerRateByAge, s.EmployerRateBasis)
	}
	if s.AccrualRateAt20.LessThanOrEqual(decimal.Zero) {
		return domain.NewConfigurationError("simulation.accrual_rate_at_20", "must be positive, got %s", s.AccrualRateAt20)
	}
	if s.LongRunInflation.LessThan(decimal.NewFromFloat(-0.10)) {
		return domain.NewConfigurationError("simulation.long_run_inflation", "cannot be below -10%%")
	}
	if s.MaxWorkers < 0 {
		return domain.NewConfigurationError("simulation.max_workers", "cannot be negative, got %d", s.MaxWorkers)
	}
	return nil
}

// Run executes the batch. Trials run on a bounded worker pool; cancellation
// is cooperative between trials: no new trial starts once the context is
// done, trials already in flight finish, and the partial result built from
// completed outcomes is returned alongside the cancellation error. Per-trial
// failures are counted and excluded, they do not abort the batch.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	trials := e.config.Simulation.Trials
	seed := e.config.Simulation.Seed
	workers := e.config.Simulation.MaxWorkers
	if workers <= 0 {
		workers = 10
	}

	e.Logger.Infof("starting batch: trials=%d seed=%d workers=%d", trials, seed, workers)

	outcomes := make([]*domain.TrialOutcome, trials)
	var failures atomic.Int64
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < trials; i++ {
		if ctx.Err() != nil {
			e.Logger.Warnf("batch cancelled after launching %d of %d trials", i, trials)
			break
		}
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			// A worker that gets its slot after cancellation never starts
			// its trial.
			if ctx.Err() != nil {
				return
			}

			rng := rand.New(rand.NewSource(deriveTrialSeed(seed, trial)))
			outcome, err := e.runTrial(trial, rng)
			if err != nil {
				failures.Add(1)
				e.Logger.Errorf("trial %d failed: %v", trial, err)
				return
			}
			outcomes[trial] = outcome
		}(i)
	}

	wg.Wait()

	collected := make([]domain.TrialOutcome, 0, trials)
	for _, o := range outcomes {
		if o != nil {
			collected = append(collected, *o)
		}
	}
	failed := int(failures.Load())

	result := &RunResult{
		Outcomes:        collected,
		RequestedTrials: trials,
		FailedTrials:    failed,
		Seed:            seed,
	}
	result.Aggregate = Aggregate(collected, trials, failed)

	if err := ctx.Err(); err != nil {
		e.Logger.Warnf("batch cancelled: collected=%d of %d trials", len(collected), trials)
		return result, fmt.Errorf("simulation cancelled after %d of %d trials: %w", len(collected), trials, err)
	}

	e.Logger.Infof("batch complete: collected=%d failed=%d", len(collected), failed)
	return result, nil
}

// runTrial executes one trial's state machine:
// sample -> salary -> {DB, DC} -> collect.
func (e *Engine) runTrial(trial int, rng *rand.Rand) (*domain.TrialOutcome, error) {
	profile := e.config.Career

	paths, err := e.sampler.SampleTrialPaths(rng, profile.YearsWorked(), profile.YearsInRetirement())
	if err != nil {
		return nil, &domain.ComputationError{Op: fmt.Sprintf("trial %d sample", trial), Err: err}
	}

	accumulation := e.dc.Accumulate(profile, paths.Working)
	fas := accumulation.FinalAverageSalary

	benefit := e.db.Project(fas, profile.YearsWorked(), paths.Retirement)
	drawdown := e.dc.Withdraw(accumulation.BalanceAtRetirement, profile.RetirementAge, paths.Retirement)

	return &domain.TrialOutcome{
		TrialID:                trial,
		FinalAverageSalary:     fas,
		DBInitialMonthlyIncome: benefit.InitialMonthlyIncome,
		DBIncomePath:           benefit.MonthlyIncomePath,
		DBAverageMonthlyIncome: benefit.AverageMonthlyIncome,
		DCBalanceAtRetirement:  accumulation.BalanceAtRetirement,
		DCInitialMonthlyIncome: drawdown.MonthlyWithdrawal,
		DCIncomePath:           drawdown.MonthlyIncomePath,
		DCAverageMonthlyIncome: drawdown.AverageMonthlyIncome,
		DCDepleted:             drawdown.Depleted,
		DCDepletionAge:         drawdown.DepletionAge,
	}, nil
}

// deriveTrialSeed mixes the run seed with the trial index (splitmix64
// finalizer) so every trial gets an independent generator and the full run
// stays reproducible for a given seed.
func deriveTrialSeed(seed int64, trial int) int64 {
	z := uint64(seed) + uint64(trial+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
