package domain

import (
	"github.com/shopspring/decimal"
)

// EconomicObservation holds one historical period's simultaneous readings.
// All six rates are fractional per-period values over the same period
// length. The loader guarantees every retained observation is complete;
// bootstrap sampling treats the history as an unordered set.
type EconomicObservation struct {
	USEquityReturn   decimal.Decimal `json:"us_equity_return"`
	IntlEquityReturn decimal.Decimal `json:"intl_equity_return"`
	BondReturn       decimal.Decimal `json:"bond_return"`
	WageGrowthRate   decimal.Decimal `json:"wage_growth_rate"`
	InflationRate    decimal.Decimal `json:"inflation_rate"`
	ShortTermRate    decimal.Decimal `json:"short_term_rate"`
}

// CareerProfile describes the employee whose two pension plans are being
// compared.
type CareerProfile struct {
	StartingSalary decimal.Decimal `yaml:"starting_salary"`
	HireAge        int             `yaml:"hire_age"`
	RetirementAge  int             `yaml:"retirement_age"`
	DeathAge       int             `yaml:"death_age"`
}

// YearsWorked returns the length of the working period.
func (p CareerProfile) YearsWorked() int {
	return p.RetirementAge - p.HireAge
}

// YearsInRetirement returns the length of the retirement period. A zero
// horizon is legal: income paths come back empty and averages are reported
// as not applicable.
func (p CareerProfile) YearsInRetirement() int {
	return p.DeathAge - p.RetirementAge
}

// Validate checks the career invariants. Violations are ConfigurationErrors
// and abort the batch before any trial runs.
func (p CareerProfile) Validate() error {
	if p.StartingSalary.LessThanOrEqual(decimal.Zero) {
		return NewConfigurationError("career.starting_salary", "must be positive, got %s", p.StartingSalary)
	}
	if p.HireAge <= 0 {
		return NewConfigurationError("career.hire_age", "must be positive, got %d", p.HireAge)
	}
	if p.YearsWorked() < 1 {
		return NewConfigurationError("career.retirement_age", "must exceed hire age by at least one year")
	}
	if p.DeathAge < p.RetirementAge {
		return NewConfigurationError("career.death_age", "cannot precede retirement age")
	}
	return nil
}

// TrialOutcome is one simulation trial's result. Outcomes are immutable
// once produced and owned by the orchestrator for the duration of
// aggregation.
type TrialOutcome struct {
	TrialID int `json:"trial_id"`

	FinalAverageSalary decimal.Decimal `json:"final_average_salary"`

	// Defined-benefit plan.
	DBInitialMonthlyIncome decimal.Decimal   `json:"db_initial_monthly_income"`
	DBIncomePath           []decimal.Decimal `json:"db_income_path"`
	DBAverageMonthlyIncome *decimal.Decimal  `json:"db_average_monthly_income,omitempty"`

	// Defined-contribution plan.
	DCBalanceAtRetirement  decimal.Decimal   `json:"dc_balance_at_retirement"`
	DCInitialMonthlyIncome decimal.Decimal   `json:"dc_initial_monthly_income"`
	DCIncomePath           []decimal.Decimal `json:"dc_income_path"`
	DCAverageMonthlyIncome *decimal.Decimal  `json:"dc_average_monthly_income,omitempty"`
	DCDepleted             bool              `json:"dc_depleted"`
	DCDepletionAge         *int              `json:"dc_depletion_age,omitempty"`
}
