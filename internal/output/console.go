package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/calculation"
	pdecimal "github.com/pensim/plan-comparator/pkg/decimal"
)

// ConsoleFormatter renders a plain-text summary for terminal use.
type ConsoleFormatter struct{}

// Name returns the CLI identifier.
func (ConsoleFormatter) Name() string { return "console" }

// Format renders the aggregate statistics. Probabilities always appear next
// to the trial counts they were computed from.
func (ConsoleFormatter) Format(result *calculation.RunResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}
	agg := result.Aggregate

	var b strings.Builder
	b.WriteString("PENSION PLAN COMPARISON - BOOTSTRAP SIMULATION\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Trials: %d requested, %d collected, %d failed (seed %d)\n\n",
		result.RequestedTrials, agg.Trials, agg.FailedTrials, result.Seed)

	b.WriteString("Initial monthly income at retirement\n")
	writePercentileRow(&b, "  defined benefit ", agg.DBInitialPercentiles)
	writePercentileRow(&b, "  defined contrib.", agg.DCInitialPercentiles)
	b.WriteString("\nAverage monthly income over retirement\n")
	writePercentileRow(&b, "  defined benefit ", agg.DBAveragePercentiles)
	writePercentileRow(&b, "  defined contrib.", agg.DCAveragePercentiles)

	fmt.Fprintf(&b, "\nP(DC account depletes before death): %s  (n=%d)\n",
		formatProbability(agg.DepletionProbability), agg.Trials)
	if agg.ComparisonTrials > 0 {
		fmt.Fprintf(&b, "P(DC income exceeds DB income):      %s  (n=%d, basis: average monthly income)\n",
			formatProbability(agg.DCExceedsDBProbability), agg.ComparisonTrials)
	} else {
		b.WriteString("P(DC income exceeds DB income):      not applicable (no retirement horizon)\n")
	}

	if len(agg.DepletionAges) > 0 {
		median := agg.DepletionAges[len(agg.DepletionAges)/2]
		fmt.Fprintf(&b, "Median depletion age (depleted trials only): %d\n", median)
	}
	if agg.FailedTrials > 0 {
		fmt.Fprintf(&b, "\nWARNING: %d of %d trials failed and were excluded; treat the estimates accordingly.\n",
			agg.FailedTrials, result.RequestedTrials)
	}

	return []byte(b.String()), nil
}

func writePercentileRow(b *strings.Builder, label string, p calculation.PercentileRanges) {
	fmt.Fprintf(b, "%s  P10 %s  P25 %s  P50 %s  P75 %s  P90 %s\n",
		label,
		pdecimal.NewMoneyFromDecimal(p.P10).Format(),
		pdecimal.NewMoneyFromDecimal(p.P25).Format(),
		pdecimal.NewMoneyFromDecimal(p.P50).Format(),
		pdecimal.NewMoneyFromDecimal(p.P75).Format(),
		pdecimal.NewMoneyFromDecimal(p.P90).Format(),
	)
}

func formatProbability(p decimal.Decimal) string {
	return p.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
