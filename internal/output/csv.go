package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pensim/plan-comparator/internal/calculation"
	pdecimal "github.com/pensim/plan-comparator/pkg/decimal"
)

// CSVFormatter exports one row per trial outcome, header first. The
// reporting layer builds its histograms and tables from this.
type CSVFormatter struct{}

// Name returns the CLI identifier.
func (CSVFormatter) Name() string { return "csv" }

// Format writes the per-trial outcome table.
func (CSVFormatter) Format(result *calculation.RunResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"trial_id",
		"final_average_salary",
		"db_initial_monthly_income",
		"db_average_monthly_income",
		"dc_balance_at_retirement",
		"dc_initial_monthly_income",
		"dc_average_monthly_income",
		"dc_depleted",
		"dc_depletion_age",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for _, o := range result.Outcomes {
		dbAvg, dcAvg, depletionAge := "", "", ""
		if o.DBAverageMonthlyIncome != nil {
			dbAvg = pdecimal.NewMoneyFromDecimal(*o.DBAverageMonthlyIncome).String()
		}
		if o.DCAverageMonthlyIncome != nil {
			dcAvg = pdecimal.NewMoneyFromDecimal(*o.DCAverageMonthlyIncome).String()
		}
		if o.DCDepletionAge != nil {
			depletionAge = strconv.Itoa(*o.DCDepletionAge)
		}
		row := []string{
			strconv.Itoa(o.TrialID),
			pdecimal.NewMoneyFromDecimal(o.FinalAverageSalary).String(),
			pdecimal.NewMoneyFromDecimal(o.DBInitialMonthlyIncome).String(),
			dbAvg,
			pdecimal.NewMoneyFromDecimal(o.DCBalanceAtRetirement).String(),
			pdecimal.NewMoneyFromDecimal(o.DCInitialMonthlyIncome).String(),
			dcAvg,
			strconv.FormatBool(o.DCDepleted),
			depletionAge,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write trial %d: %w", o.TrialID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
