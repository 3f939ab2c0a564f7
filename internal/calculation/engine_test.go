package calculation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensim/plan-comparator/internal/domain"
)

func testConfiguration() *domain.Configuration {
	cfg := &domain.Configuration{
		Career: domain.CareerProfile{
			StartingSalary: decimal.RequireFromString("57000"),
			HireAge:        30,
			RetirementAge:  46,
			DeathAge:       66,
		},
		Simulation: domain.SimulationSettings{
			Trials:         50,
			Seed:           42,
			WithdrawalRate: decimal.RequireFromString("0.04"),
			MaxWorkers:     4,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Configuration)
		wantField string
	}{
		{"zero trials", func(c *domain.Configuration) { c.Simulation.Trials = 0 }, "simulation.trials"},
		{"negative trials", func(c *domain.Configuration) { c.Simulation.Trials = -10 }, "simulation.trials"},
		{"zero withdrawal rate", func(c *domain.Configuration) {
			c.Simulation.WithdrawalRate = decimal.Zero
		}, "simulation.withdrawal_rate"},
		{"withdrawal rate above one", func(c *domain.Configuration) {
			c.Simulation.WithdrawalRate = decimal.RequireFromString("1.5")
		}, "simulation.withdrawal_rate"},
		{"unknown cola mode", func(c *domain.Configuration) {
			c.Simulation.COLAMode = "guess"
		}, "simulation.cola_mode"},
		{"unknown employer rate basis", func(c *domain.Configuration) {
			c.Simulation.EmployerRateBasis = "vibes"
		}, "simulation.employer_rate_basis"},
		{"negative accrual rate", func(c *domain.Configuration) {
			c.Simulation.AccrualRateAt20 = decimal.RequireFromString("-0.01")
		}, "simulation.accrual_rate_at_20"},
		{"negative workers", func(c *domain.Configuration) { c.Simulation.MaxWorkers = -1 }, "simulation.max_workers"},
		{"zero starting salary", func(c *domain.Configuration) {
			c.Career.StartingSalary = decimal.Zero
		}, "career.starting_salary"},
		{"retirement before hire", func(c *domain.Configuration) {
			c.Career.RetirementAge = c.Career.HireAge
		}, "career.retirement_age"},
		{"death before retirement", func(c *domain.Configuration) {
			c.Career.DeathAge = c.Career.RetirementAge - 1
		}, "career.death_age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfiguration()
			tt.mutate(cfg)

			err := ValidateConfiguration(cfg)
			require.Error(t, err)

			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestValidateConfiguration_Nil(t *testing.T) {
	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(ValidateConfiguration(nil), &cfgErr))
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfiguration()
	cfg.Simulation.Trials = 0
	_, err := NewEngine(variedObservations(), cfg, nil)
	assert.Error(t, err, "nothing may be computed on a bad config")
}

func TestRun_SameSeedReproducesBatch(t *testing.T) {
	run := func() *RunResult {
		engine, err := NewEngine(variedObservations(), testConfiguration(), nil)
		require.NoError(t, err)
		result, err := engine.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	require.Equal(t, len(first.Outcomes), len(second.Outcomes))
	for i := range first.Outcomes {
		a, b := first.Outcomes[i], second.Outcomes[i]
		assert.True(t, a.DCBalanceAtRetirement.Equal(b.DCBalanceAtRetirement), "trial %d balance", i)
		assert.True(t, a.FinalAverageSalary.Equal(b.FinalAverageSalary), "trial %d salary", i)
		assert.Equal(t, a.DCDepleted, b.DCDepleted, "trial %d depletion", i)
	}

	assert.True(t, first.Aggregate.DepletionProbability.Equal(second.Aggregate.DepletionProbability))
	assert.True(t, first.Aggregate.DCExceedsDBProbability.Equal(second.Aggregate.DCExceedsDBProbability))
	assert.True(t, first.Aggregate.DBInitialPercentiles.P50.Equal(second.Aggregate.DBInitialPercentiles.P50))
	assert.True(t, first.Aggregate.DCAveragePercentiles.P50.Equal(second.Aggregate.DCAveragePercentiles.P50))
}

func TestRun_DifferentSeedsDiverge(t *testing.T) {
	cfg := testConfiguration()
	engineA, err := NewEngine(variedObservations(), cfg, nil)
	require.NoError(t, err)
	resultA, err := engineA.Run(context.Background())
	require.NoError(t, err)

	cfgB := testConfiguration()
	cfgB.Simulation.Seed = 43
	engineB, err := NewEngine(variedObservations(), cfgB, nil)
	require.NoError(t, err)
	resultB, err := engineB.Run(context.Background())
	require.NoError(t, err)

	same := true
	for i := range resultA.Outcomes {
		if !resultA.Outcomes[i].DCBalanceAtRetirement.Equal(resultB.Outcomes[i].DCBalanceAtRetirement) {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should produce different batches")
}

func TestRun_ConstantSeries(t *testing.T) {
	// With a single-observation history every draw is that observation, so
	// all trials are identical and the whole run is checkable by hand:
	// salary grows 4% a year (2% wage + 2% inflation) for 16 years.
	history := []domain.EconomicObservation{
		obs("0.08", "0.06", "0.03", "0.02", "0.02", "0"),
	}
	cfg := testConfiguration()
	cfg.Simulation.Trials = 8

	engine, err := NewEngine(history, cfg, nil)
	require.NoError(t, err)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 8)
	assert.Equal(t, 0, result.FailedTrials)

	// Expected final average salary: mean of the last three of sixteen
	// years of 4% growth.
	growth := decimal.RequireFromString("1.04")
	salary := decimal.RequireFromString("57000")
	var lastThree []decimal.Decimal
	for year := 1; year <= 16; year++ {
		salary = salary.Mul(growth)
		if year >= 14 {
			lastThree = append(lastThree, salary)
		}
	}
	wantFAS := lastThree[0].Add(lastThree[1]).Add(lastThree[2]).Div(decimal.NewFromInt(3))

	// 16 service years is below the 20-year tier.
	wantDBMonthly := decimal.RequireFromString("0.0167").
		Mul(wantFAS).
		Mul(decimal.NewFromInt(16)).
		Div(decimal.NewFromInt(12))

	first := result.Outcomes[0]
	assert.True(t, first.FinalAverageSalary.Equal(wantFAS),
		"FAS: got %s, want %s", first.FinalAverageSalary, wantFAS)
	assert.True(t, first.DBInitialMonthlyIncome.Equal(wantDBMonthly),
		"DB monthly: got %s, want %s", first.DBInitialMonthlyIncome, wantDBMonthly)

	for i, o := range result.Outcomes {
		assert.True(t, o.FinalAverageSalary.Equal(first.FinalAverageSalary), "trial %d", i)
		assert.True(t, o.DCBalanceAtRetirement.Equal(first.DCBalanceAtRetirement), "trial %d", i)
		assert.Equal(t, first.DCDepleted, o.DCDepleted, "trial %d", i)
	}
}

func TestRun_DepletionProbabilityShrinksWithHorizon(t *testing.T) {
	// A shorter retirement horizon shares the longer one's sampled prefix
	// for a given seed, and depletion is irreversible, so its depletion
	// probability can never exceed the longer horizon's.
	base := testConfiguration()
	base.Career.RetirementAge = 40
	base.Career.DeathAge = 70
	base.Simulation.Trials = 40
	base.Simulation.Seed = 7
	base.Simulation.WithdrawalRate = decimal.RequireFromString("0.12")

	long, err := NewEngine(variedObservations(), base, nil)
	require.NoError(t, err)
	longResult, err := long.Run(context.Background())
	require.NoError(t, err)

	shortCfg := testConfiguration()
	shortCfg.Career.RetirementAge = 40
	shortCfg.Career.DeathAge = 50
	shortCfg.Simulation.Trials = 40
	shortCfg.Simulation.Seed = 7
	shortCfg.Simulation.WithdrawalRate = decimal.RequireFromString("0.12")

	short, err := NewEngine(variedObservations(), shortCfg, nil)
	require.NoError(t, err)
	shortResult, err := short.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, shortResult.Aggregate.DepletionProbability.
		LessThanOrEqual(longResult.Aggregate.DepletionProbability),
		"short horizon P=%s, long horizon P=%s",
		shortResult.Aggregate.DepletionProbability, longResult.Aggregate.DepletionProbability)
}

func TestRun_ZeroRetirementHorizon(t *testing.T) {
	cfg := testConfiguration()
	cfg.Career.DeathAge = cfg.Career.RetirementAge
	cfg.Simulation.Trials = 5

	engine, err := NewEngine(variedObservations(), cfg, nil)
	require.NoError(t, err)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 5)
	for i, o := range result.Outcomes {
		assert.Nil(t, o.DBAverageMonthlyIncome, "trial %d", i)
		assert.Nil(t, o.DCAverageMonthlyIncome, "trial %d", i)
		assert.Empty(t, o.DBIncomePath, "trial %d", i)
		assert.False(t, o.DCDepleted, "trial %d", i)
	}
	assert.Equal(t, 0, result.Aggregate.ComparisonTrials)
	assert.True(t, result.Aggregate.DepletionProbability.IsZero())
}

func TestRun_Cancellation(t *testing.T) {
	cfg := testConfiguration()
	engine, err := NewEngine(variedObservations(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	// Cancellation reports an error but never discards the batch record.
	require.NotNil(t, result)
	assert.Empty(t, result.Outcomes)
	assert.Equal(t, cfg.Simulation.Trials, result.RequestedTrials)
	assert.Equal(t, 0, result.FailedTrials, "skipped trials are not failures")
}

// checkBudgetContext reports itself cancelled after a fixed number of Err
// calls. It pins cancellation to a point in the middle of a batch without
// depending on wall-clock timing.
type checkBudgetContext struct {
	context.Context
	mu        sync.Mutex
	remaining int
}

func (c *checkBudgetContext) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 {
		c.remaining--
		return nil
	}
	return context.Canceled
}

func TestRun_CancellationMidBatch(t *testing.T) {
	cfg := testConfiguration()
	cfg.Simulation.Trials = 200
	cfg.Simulation.MaxWorkers = 2

	engine, err := NewEngine(variedObservations(), cfg, nil)
	require.NoError(t, err)

	// Every trial consumes at least two context checks (one at launch, one
	// in its worker), so a budget of 20 stops the batch well short of 200.
	ctx := &checkBudgetContext{Context: context.Background(), remaining: 20}
	result, err := engine.Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, result)
	assert.Less(t, len(result.Outcomes), 200, "cancellation must stop the batch early")
	assert.Equal(t, 200, result.RequestedTrials)
	assert.Equal(t, len(result.Outcomes), result.Aggregate.Trials,
		"already-collected outcomes survive cancellation intact")
}

func TestDeriveTrialSeed_Distinct(t *testing.T) {
	seen := make(map[int64]int)
	for trial := 0; trial < 1000; trial++ {
		derived := deriveTrialSeed(42, trial)
		if earlier, ok := seen[derived]; ok {
			t.Fatalf("trials %d and %d derived the same seed", earlier, trial)
		}
		seen[derived] = trial
	}

	assert.NotEqual(t, deriveTrialSeed(1, 0), deriveTrialSeed(2, 0),
		"run seed must influence trial seeds")
}
