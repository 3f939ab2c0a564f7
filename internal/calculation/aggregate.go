package calculation

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// PercentileRanges summarizes a distribution at the usual report points.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// AggregateResult holds cross-trial distributions and derived
// probabilities. Every probability is reported next to the trial counts it
// was computed from: a 200-trial estimate carries wide confidence
// intervals, and consumers must be able to see when a batch silently shrank
// through failures.
type AggregateResult struct {
	// Trials is the number of successful trials the statistics are based
	// on. RequestedTrials and FailedTrials expose how many were asked for
	// and excluded.
	Trials          int `json:"trials"`
	RequestedTrials int `json:"requested_trials"`
	FailedTrials    int `json:"failed_trials"`

	// Histogram-ready samples, one entry per successful trial.
	DBInitialIncomes []decimal.Decimal `json:"db_initial_incomes"`
	DCInitialIncomes []decimal.Decimal `json:"dc_initial_incomes"`
	DBAverageIncomes []decimal.Decimal `json:"db_average_incomes"`
	DCAverageIncomes []decimal.Decimal `json:"dc_average_incomes"`

	DBInitialPercentiles PercentileRanges `json:"db_initial_percentiles"`
	DCInitialPercentiles PercentileRanges `json:"dc_initial_percentiles"`
	DBAveragePercentiles PercentileRanges `json:"db_average_percentiles"`
	DCAveragePercentiles PercentileRanges `json:"dc_average_percentiles"`

	// DepletionProbability is P(the DC account hits zero before death),
	// over successful trials.
	DepletionProbability decimal.Decimal `json:"depletion_probability"`
	DepletionAges        []int           `json:"depletion_ages"`

	// DCExceedsDBProbability is P(DC income > DB income) compared on
	// average monthly income over the full retirement horizon for both
	// plans. ComparisonTrials counts the trials where both averages were
	// applicable (non-zero retirement horizon).
	DCExceedsDBProbability decimal.Decimal `json:"dc_exceeds_db_probability"`
	ComparisonTrials       int             `json:"comparison_trials"`
}

// Aggregate computes the cross-trial statistics. A zero-length outcome set
// yields an empty result rather than dividing by zero.
func Aggregate(outcomes []domain.TrialOutcome, requested, failed int) AggregateResult {
	result := AggregateResult{
		Trials:          len(outcomes),
		RequestedTrials: requested,
		FailedTrials:    failed,
	}
	if len(outcomes) == 0 {
		return result
	}

	n := decimal.NewFromInt(int64(len(outcomes)))

	depleted := 0
	dcExceeds := 0
	comparable := 0

	for _, o := range outcomes {
		result.DBInitialIncomes = append(result.DBInitialIncomes, o.DBInitialMonthlyIncome)
		result.DCInitialIncomes = append(result.DCInitialIncomes, o.DCInitialMonthlyIncome)
		if o.DBAverageMonthlyIncome != nil {
			result.DBAverageIncomes = append(result.DBAverageIncomes, *o.DBAverageMonthlyIncome)
		}
		if o.DCAverageMonthlyIncome != nil {
			result.DCAverageIncomes = append(result.DCAverageIncomes, *o.DCAverageMonthlyIncome)
		}
		if o.DCDepleted {
			depleted++
			if o.DCDepletionAge != nil {
				result.DepletionAges = append(result.DepletionAges, *o.DCDepletionAge)
			}
		}
		if o.DBAverageMonthlyIncome != nil && o.DCAverageMonthlyIncome != nil {
			comparable++
			if o.DCAverageMonthlyIncome.GreaterThan(*o.DBAverageMonthlyIncome) {
				dcExceeds++
			}
		}
	}

	result.DepletionProbability = decimal.NewFromInt(int64(depleted)).Div(n)
	result.ComparisonTrials = comparable
	if comparable > 0 {
		result.DCExceedsDBProbability = decimal.NewFromInt(int64(dcExceeds)).Div(decimal.NewFromInt(int64(comparable)))
	}

	sort.Ints(result.DepletionAges)
	result.DBInitialPercentiles = percentiles(result.DBInitialIncomes)
	result.DCInitialPercentiles = percentiles(result.DCInitialIncomes)
	result.DBAveragePercentiles = percentiles(result.DBAverageIncomes)
	result.DCAveragePercentiles = percentiles(result.DCAverageIncomes)
	return result
}

// percentiles sorts a copy of the samples and reads nearest-rank positions:
// the p-th percentile is the smallest sample whose cumulative share reaches
// p, i.e. index ceil(p*n)-1. No interpolation.
func percentiles(values []decimal.Decimal) PercentileRanges {
	if len(values) == 0 {
		return PercentileRanges{}
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	return PercentileRanges{
		P10: sorted[rankIndex(n, 10)],
		P25: sorted[rankIndex(n, 25)],
		P50: sorted[rankIndex(n, 50)],
		P75: sorted[rankIndex(n, 75)],
		P90: sorted[rankIndex(n, 90)],
	}
}

// rankIndex is the nearest-rank index for percentile p over n samples:
// ceil(n*p/100) - 1.
func rankIndex(n, p int) int {
	return (n*p+99)/100 - 1
}

// Mean returns the arithmetic mean of the samples, or zero for an empty
// slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// StdDev returns the population standard deviation of the samples.
func StdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	mean := Mean(values)
	varianceSum := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	f, _ := variance.Float64()
	return decimal.NewFromFloat(math.Sqrt(f))
}
