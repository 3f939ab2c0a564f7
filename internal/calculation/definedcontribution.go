package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// Progressive employee contribution brackets keyed by current salary.
// Upper bounds are inclusive.
type contributionBracket struct {
	maxSalary decimal.Decimal
	rate      decimal.Decimal
}

var employeeBrackets = []contributionBracket{
	{maxSalary: decimal.NewFromInt(45000), rate: decimal.NewFromFloat(0.03)},
	{maxSalary: decimal.NewFromInt(55000), rate: decimal.NewFromFloat(0.035)},
	{maxSalary: decimal.NewFromInt(75000), rate: decimal.NewFromFloat(0.045)},
	{maxSalary: decimal.NewFromInt(100000), rate: decimal.NewFromFloat(0.0575)},
}

// topEmployeeRate applies above the last bracket bound.
var topEmployeeRate = decimal.NewFromFloat(0.06)

var (
	employerRateEarly = decimal.NewFromFloat(0.08)
	employerRateLate  = decimal.NewFromFloat(0.10)
)

// EmployeeContributionRate returns the employee contribution rate for the
// current salary.
func EmployeeContributionRate(salary decimal.Decimal) decimal.Decimal {
	for _, b := range employeeBrackets {
		if salary.LessThanOrEqual(b.maxSalary) {
			return b.rate
		}
	}
	return topEmployeeRate
}

// DCCalculator simulates the defined-contribution account: contribution
// accrual and market-linked growth through the working period, then
// systematic withdrawal and depletion through retirement.
type DCCalculator struct {
	WithdrawalRate    decimal.Decimal
	EmployerRateBasis domain.EmployerRateBasis
	Logger            Logger
}

// NewDCCalculator creates a calculator with the tenure-based employer
// schedule.
func NewDCCalculator(withdrawalRate decimal.Decimal) *DCCalculator {
	return &DCCalculator{
		WithdrawalRate:    withdrawalRate,
		EmployerRateBasis: domain.EmployerRateByTenure,
		Logger:            NopLogger{},
	}
}

// EmployerContributionRate returns the employer rate for one working year.
// serviceYear is 1-based; age is the employee's age during that year.
func (c *DCCalculator) EmployerContributionRate(serviceYear, age int) decimal.Decimal {
	if c.EmployerRateBasis == domain.EmployerRateByAge {
		if age <= 34 {
			return employerRateEarly
		}
		return employerRateLate
	}
	if serviceYear <= 7 {
		return employerRateEarly
	}
	return employerRateLate
}

// Accumulation is the working-period result: the salary path shared with
// the defined-benefit calculator and the account balance at retirement.
type Accumulation struct {
	SalaryPath          SalaryPath
	FinalAverageSalary  decimal.Decimal
	BalanceAtRetirement decimal.Decimal
	// BalancePath holds the end-of-year balance for each working year.
	BalancePath []decimal.Decimal
}

// Accumulate runs the working-period loop. For each year: the salary grows
// by the sampled wage-growth plus inflation, contributions are taken from
// the bracket tables, and the balance compounds at the blended return of
// the age-appropriate allocation. The loop is strictly sequential: year k
// depends on year k-1's salary and balance.
func (c *DCCalculator) Accumulate(profile domain.CareerProfile, working []domain.EconomicObservation) Accumulation {
	one := decimal.NewFromInt(1)

	salaryPath := ProjectSalary(profile.StartingSalary, working)
	balance := decimal.Zero
	balancePath := make([]decimal.Decimal, len(working))

	for i, obs := range working {
		serviceYear := i + 1
		age := profile.HireAge + i

		salary := salaryPath.Years[i]
		employeeRate := EmployeeContributionRate(salary)
		employerRate := c.EmployerContributionRate(serviceYear, age)
		contribution := salary.Mul(employeeRate.Add(employerRate))

		blended := AllocationForAge(age).BlendedReturn(obs)
		balance = balance.Add(contribution).Mul(one.Add(blended))
		balancePath[i] = balance
	}

	return Accumulation{
		SalaryPath:          salaryPath,
		FinalAverageSalary:  salaryPath.FinalAverageSalary(),
		BalanceAtRetirement: balance,
		BalancePath:         balancePath,
	}
}

// Drawdown is the retirement-period result for the defined-contribution
// account.
type Drawdown struct {
	MonthlyWithdrawal decimal.Decimal
	// MonthlyIncomePath has one entry per retirement year. Years at or
	// after depletion report zero income.
	MonthlyIncomePath []decimal.Decimal
	// AverageMonthlyIncome is nil when the retirement horizon is empty.
	AverageMonthlyIncome *decimal.Decimal
	BalancePath          []decimal.Decimal
	Depleted             bool
	// DepletionAge is the first-crossing age: retirement age plus elapsed
	// retirement years when the balance first reached zero. Recorded once;
	// the balance stays clamped at zero afterwards.
	DepletionAge *int
}

// Withdraw runs the retirement-period loop. The monthly withdrawal is fixed
// once at retirement as balance * withdrawal_rate / 12 and never recomputed
// against the moving balance. Each year the balance grows at the blended
// return for the age-appropriate allocation, then the year's withdrawals
// come out.
func (c *DCCalculator) Withdraw(balance decimal.Decimal, retirementAge int, retirement []domain.EconomicObservation) Drawdown {
	monthlyWithdrawal := balance.Mul(c.WithdrawalRate).Div(twelve)

	dd := Drawdown{MonthlyWithdrawal: monthlyWithdrawal}
	if len(retirement) == 0 {
		return dd
	}

	one := decimal.NewFromInt(1)
	annualWithdrawal := monthlyWithdrawal.Mul(twelve)

	incomePath := make([]decimal.Decimal, len(retirement))
	balancePath := make([]decimal.Decimal, len(retirement))
	total := decimal.Zero

	for year, obs := range retirement {
		age := retirementAge + year
		income := decimal.Zero

		if !dd.Depleted {
			blended := AllocationForAge(age).BlendedReturn(obs)
			balance = balance.Mul(one.Add(blended)).Sub(annualWithdrawal)
			income = monthlyWithdrawal
			if balance.LessThanOrEqual(decimal.Zero) {
				balance = decimal.Zero
				elapsed := year + 1
				depletionAge := retirementAge + elapsed
				dd.Depleted = true
				dd.DepletionAge = &depletionAge
			}
		}

		incomePath[year] = income
		balancePath[year] = balance
		total = total.Add(income)
	}

	avg := total.Div(decimal.NewFromInt(int64(len(incomePath))))
	dd.MonthlyIncomePath = incomePath
	dd.AverageMonthlyIncome = &avg
	dd.BalancePath = balancePath
	return dd
}
