package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// SalaryPath is the ordered sequence of per-year salaries for the working
// period. Entry i is the salary earned in year i+1 of service, after that
// year's growth has been applied.
type SalaryPath struct {
	Years []decimal.Decimal
}

// ProjectSalary evolves a starting salary through the sampled working
// period, applying salary = salary * (1 + wage_growth + inflation) for each
// year in order. Wage growth and inflation combine additively rather than
// compounding separately; the simplification is part of the model and must
// not be "fixed".
func ProjectSalary(starting decimal.Decimal, working []domain.EconomicObservation) SalaryPath {
	one := decimal.NewFromInt(1)
	years := make([]decimal.Decimal, len(working))
	salary := starting
	for i, obs := range working {
		factor := one.Add(obs.WageGrowthRate).Add(obs.InflationRate)
		salary = salary.Mul(factor)
		years[i] = salary
	}
	return SalaryPath{Years: years}
}

// Len returns the number of working years covered by the path.
func (sp SalaryPath) Len() int { return len(sp.Years) }

// FinalAverageSalary returns the arithmetic mean of the last min(3, N)
// entries of the path. It is zero for an empty path.
func (sp SalaryPath) FinalAverageSalary() decimal.Decimal {
	n := len(sp.Years)
	if n == 0 {
		return decimal.Zero
	}
	window := 3
	if n < window {
		window = n
	}
	sum := decimal.Zero
	for _, s := range sp.Years[n-window:] {
		sum = sum.Add(s)
	}
	return sum.Div(decimal.NewFromInt(int64(window)))
}

// FinalSalary returns the last salary in the path, or zero for an empty
// path.
func (sp SalaryPath) FinalSalary() decimal.Decimal {
	if len(sp.Years) == 0 {
		return decimal.Zero
	}
	return sp.Years[len(sp.Years)-1]
}
