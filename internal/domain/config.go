package domain

import (
	"github.com/shopspring/decimal"
)

// COLAMode selects how the defined-benefit cost-of-living adjustment is
// derived during retirement.
type COLAMode string

const (
	// COLAModeFixed computes a single COLA from the long-run inflation
	// assumption and holds it constant across all retirement years.
	COLAModeFixed COLAMode = "fixed"
	// COLAModeBootstrap draws the COLA input per retirement year from the
	// resampled retirement-period observations.
	COLAModeBootstrap COLAMode = "bootstrap"
)

// EmployerRateBasis selects which variant of the employer contribution
// schedule applies. The two variants are not numerically equivalent, so the
// choice is explicit configuration rather than a silent reconciliation.
type EmployerRateBasis string

const (
	// EmployerRateByTenure pays 8% for the first 7 years of service and 10%
	// thereafter. This is the default.
	EmployerRateByTenure EmployerRateBasis = "tenure"
	// EmployerRateByAge pays 8% through age 34 and 10% from age 35.
	EmployerRateByAge EmployerRateBasis = "age"
)

// SimulationSettings holds the run-wide knobs for a Monte Carlo batch.
type SimulationSettings struct {
	Trials            int               `yaml:"trials"`
	Seed              int64             `yaml:"seed"`
	WithdrawalRate    decimal.Decimal   `yaml:"withdrawal_rate"`
	COLAMode          COLAMode          `yaml:"cola_mode"`
	EmployerRateBasis EmployerRateBasis `yaml:"employer_rate_basis"`
	// AccrualRateAt20 is the defined-benefit accrual rate applied exactly at
	// 20 years of service. The source material carries both 0.0175 and
	// 0.0176; the default is 0.0175.
	AccrualRateAt20  decimal.Decimal `yaml:"accrual_rate_at_20"`
	LongRunInflation decimal.Decimal `yaml:"long_run_inflation"`
	// MaxWorkers bounds concurrent trials. Zero means the default of 10.
	MaxWorkers int `yaml:"max_workers"`
}

// DataSettings points the CLI at the historical observation file. The
// simulation core itself only sees the loaded observation slice.
type DataSettings struct {
	ObservationsFile string `yaml:"observations_file"`
}

// Configuration is the complete, explicit input to a simulation run. There
// is no global state: the seed, the career profile, and every policy choice
// travel through this struct.
type Configuration struct {
	Career     CareerProfile      `yaml:"career"`
	Simulation SimulationSettings `yaml:"simulation"`
	Data       DataSettings       `yaml:"data"`
}

// DefaultAccrualRateAt20 is the documented primary accrual rate at exactly
// 20 years of service.
var DefaultAccrualRateAt20 = decimal.NewFromFloat(0.0175)

// ApplyDefaults fills unset settings with their documented defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Simulation.COLAMode == "" {
		c.Simulation.COLAMode = COLAModeFixed
	}
	if c.Simulation.EmployerRateBasis == "" {
		c.Simulation.EmployerRateBasis = EmployerRateByTenure
	}
	if c.Simulation.AccrualRateAt20.IsZero() {
		c.Simulation.AccrualRateAt20 = DefaultAccrualRateAt20
	}
	if c.Simulation.LongRunInflation.IsZero() {
		c.Simulation.LongRunInflation = decimal.NewFromFloat(0.025)
	}
	if c.Simulation.MaxWorkers == 0 {
		c.Simulation.MaxWorkers = 10
	}
}
