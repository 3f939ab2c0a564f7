package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// AssetAllocation is a set of non-negative weights over the four asset
// classes. Weights in every band sum to 1. Short-term debt only carries
// weight in the oldest band.
type AssetAllocation struct {
	USEquity   decimal.Decimal
	IntlEquity decimal.Decimal
	Bonds      decimal.Decimal
	ShortTerm  decimal.Decimal
}

// allocationBand maps an inclusive upper age bound to its allocation.
// Bands: <=49, 50-59, 60-74, >=75. This is a fixed lookup table, not a
// learned or optimized glide path.
type allocationBand struct {
	maxAge     int
	allocation AssetAllocation
}

var allocationBands = []allocationBand{
	{maxAge: 49, allocation: AssetAllocation{
		USEquity:   decimal.NewFromFloat(0.60),
		IntlEquity: decimal.NewFromFloat(0.25),
		Bonds:      decimal.NewFromFloat(0.15),
		ShortTerm:  decimal.Zero,
	}},
	{maxAge: 59, allocation: AssetAllocation{
		USEquity:   decimal.NewFromFloat(0.47),
		IntlEquity: decimal.NewFromFloat(0.20),
		Bonds:      decimal.NewFromFloat(0.33),
		ShortTerm:  decimal.Zero,
	}},
	{maxAge: 74, allocation: AssetAllocation{
		USEquity:   decimal.NewFromFloat(0.34),
		IntlEquity: decimal.NewFromFloat(0.14),
		Bonds:      decimal.NewFromFloat(0.52),
		ShortTerm:  decimal.Zero,
	}},
}

// oldestBand applies from age 75 on.
var oldestBand = AssetAllocation{
	USEquity:   decimal.NewFromFloat(0.24),
	IntlEquity: decimal.NewFromFloat(0.08),
	Bonds:      decimal.NewFromFloat(0.48),
	ShortTerm:  decimal.NewFromFloat(0.20),
}

// AllocationForAge returns the asset allocation for the employee's current
// age.
func AllocationForAge(age int) AssetAllocation {
	for _, band := range allocationBands {
		if age <= band.maxAge {
			return band.allocation
		}
	}
	return oldestBand
}

// BlendedReturn is the dot product of the allocation weights and the
// period's sampled asset-class returns.
func (a AssetAllocation) BlendedReturn(obs domain.EconomicObservation) decimal.Decimal {
	blended := a.USEquity.Mul(obs.USEquityReturn)
	blended = blended.Add(a.IntlEquity.Mul(obs.IntlEquityReturn))
	blended = blended.Add(a.Bonds.Mul(obs.BondReturn))
	blended = blended.Add(a.ShortTerm.Mul(obs.ShortTermRate))
	return blended
}

// WeightSum returns the sum of the four weights. Every band sums to 1.
func (a AssetAllocation) WeightSum() decimal.Decimal {
	return a.USEquity.Add(a.IntlEquity).Add(a.Bonds).Add(a.ShortTerm)
}

// AllAllocations returns one representative allocation per age band, used
// by validation and tests.
func AllAllocations() []AssetAllocation {
	out := make([]AssetAllocation, 0, len(allocationBands)+1)
	for _, band := range allocationBands {
		out = append(out, band.allocation)
	}
	return append(out, oldestBand)
}
