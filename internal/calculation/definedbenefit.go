package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// Tiered accrual rates for the defined-benefit formula. The rate applied at
// exactly 20 years is configurable because the source material disagrees
// with itself (0.0175 vs 0.0176); see DBCalculator.AccrualRateAt20.
var (
	accrualRateBelow20 = decimal.NewFromFloat(0.0167)
	accrualBaseAbove20 = decimal.NewFromFloat(0.35)
	accrualStepAbove20 = decimal.NewFromFloat(0.02)

	colaHalf  = decimal.NewFromFloat(0.5)
	colaFloor = decimal.NewFromFloat(0.01)
	colaCap   = decimal.NewFromFloat(0.03)

	twelve = decimal.NewFromInt(12)
)

// DBCalculator computes the defined-benefit annuity: a tiered accrual
// formula on final average salary and service years, projected through
// retirement with a capped cost-of-living adjustment.
type DBCalculator struct {
	// AccrualRateAt20 is applied only when years of service is exactly 20.
	AccrualRateAt20 decimal.Decimal
	// COLAMode selects fixed long-run COLA or per-year bootstrap COLA.
	COLAMode domain.COLAMode
	// LongRunInflation feeds the COLA in fixed mode.
	LongRunInflation decimal.Decimal
	Logger           Logger
}

// BenefitProjection is the defined-benefit side of one trial.
type BenefitProjection struct {
	InitialAnnualBenefit decimal.Decimal
	InitialMonthlyIncome decimal.Decimal
	// MonthlyIncomePath has one entry per retirement year; entry 0 is the
	// first retirement year at the initial benefit level.
	MonthlyIncomePath []decimal.Decimal
	// AverageMonthlyIncome is nil when the retirement horizon is empty.
	AverageMonthlyIncome *decimal.Decimal
}

// NewDBCalculator creates a calculator with the documented default accrual
// rate at 20 years and fixed COLA mode.
func NewDBCalculator() *DBCalculator {
	return &DBCalculator{
		AccrualRateAt20:  domain.DefaultAccrualRateAt20,
		COLAMode:         domain.COLAModeFixed,
		LongRunInflation: decimal.NewFromFloat(0.025),
		Logger:           NopLogger{},
	}
}

// InitialAnnualBenefit applies the tiered accrual formula.
//
//	N < 20:  0.0167 * FAS * N
//	N == 20: AccrualRateAt20 * FAS * 20
//	N > 20:  (0.35 + 0.02*(N-20)) * FAS
func (c *DBCalculator) InitialAnnualBenefit(fas decimal.Decimal, yearsWorked int) decimal.Decimal {
	n := decimal.NewFromInt(int64(yearsWorked))
	switch {
	case yearsWorked < 20:
		return accrualRateBelow20.Mul(fas).Mul(n)
	case yearsWorked == 20:
		return c.AccrualRateAt20.Mul(fas).Mul(n)
	default:
		extra := decimal.NewFromInt(int64(yearsWorked - 20))
		return accrualBaseAbove20.Add(accrualStepAbove20.Mul(extra)).Mul(fas)
	}
}

// COLARate clamps half the inflation rate to the [1%, 3%] band.
func COLARate(inflation decimal.Decimal) decimal.Decimal {
	cola := colaHalf.Mul(inflation)
	if cola.LessThan(colaFloor) {
		return colaFloor
	}
	if cola.GreaterThan(colaCap) {
		return colaCap
	}
	return cola
}

// Project computes the full defined-benefit projection for one trial. The
// retirement path is only consulted in bootstrap COLA mode; in fixed mode a
// single COLA derived from the long-run inflation assumption compounds the
// benefit every year after the first.
func (c *DBCalculator) Project(fas decimal.Decimal, yearsWorked int, retirement []domain.EconomicObservation) BenefitProjection {
	annual := c.InitialAnnualBenefit(fas, yearsWorked)
	monthly := annual.Div(twelve)

	proj := BenefitProjection{
		InitialAnnualBenefit: annual,
		InitialMonthlyIncome: monthly,
	}
	if len(retirement) == 0 {
		return proj
	}

	one := decimal.NewFromInt(1)
	fixedCOLA := COLARate(c.LongRunInflation)

	path := make([]decimal.Decimal, len(retirement))
	income := monthly
	total := decimal.Zero
	for year := range retirement {
		if year > 0 {
			cola := fixedCOLA
			if c.COLAMode == domain.COLAModeBootstrap {
				cola = COLARate(retirement[year].InflationRate)
			}
			income = income.Mul(one.Add(cola))
		}
		path[year] = income
		total = total.Add(income)
	}

	avg := total.Div(decimal.NewFromInt(int64(len(path))))
	proj.MonthlyIncomePath = path
	proj.AverageMonthlyIncome = &avg
	return proj
}
