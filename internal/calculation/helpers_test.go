package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// obs builds one observation from exact decimal strings in column order:
// US equity, intl equity, bonds, wage growth, inflation, short-term.
func obs(us, intl, bond, wage, infl, short string) domain.EconomicObservation {
	return domain.EconomicObservation{
		USEquityReturn:   decimal.RequireFromString(us),
		IntlEquityReturn: decimal.RequireFromString(intl),
		BondReturn:       decimal.RequireFromString(bond),
		WageGrowthRate:   decimal.RequireFromString(wage),
		InflationRate:    decimal.RequireFromString(infl),
		ShortTermRate:    decimal.RequireFromString(short),
	}
}

// flatObs is an observation with every rate zero.
func flatObs() domain.EconomicObservation {
	return obs("0", "0", "0", "0", "0", "0")
}

// repeatObs builds a constant path of length n.
func repeatObs(o domain.EconomicObservation, n int) []domain.EconomicObservation {
	path := make([]domain.EconomicObservation, n)
	for i := range path {
		path[i] = o
	}
	return path
}

// variedObservations is a small history with enough spread to produce
// distinct trial outcomes, including two loss periods.
func variedObservations() []domain.EconomicObservation {
	return []domain.EconomicObservation{
		obs("0.08", "0.05", "0.02", "0.02", "0.015", "0.006"),
		obs("0.12", "0.09", "0.015", "0.023", "0.02", "0.008"),
		obs("-0.18", "-0.15", "0.035", "0.017", "0.009", "0.005"),
		obs("0.05", "0.03", "0.02", "0.019", "0.014", "0.006"),
		obs("-0.30", "-0.25", "0.04", "0.015", "0.006", "0.004"),
		obs("0.15", "0.11", "0.012", "0.025", "0.022", "0.009"),
		obs("0.03", "0.02", "0.025", "0.018", "0.012", "0.006"),
		obs("0.09", "0.06", "0.018", "0.021", "0.017", "0.007"),
	}
}
