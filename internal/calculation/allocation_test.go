package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAllocationWeightsSumToOne(t *testing.T) {
	one := decimal.NewFromInt(1)
	for i, allocation := range AllAllocations() {
		assert.True(t, allocation.WeightSum().Equal(one),
			"band %d weights sum to %s", i, allocation.WeightSum())
	}
}

func TestAllocationForAge_BandBoundaries(t *testing.T) {
	tests := []struct {
		age        int
		wantEquity string
	}{
		{25, "0.6"},
		{49, "0.6"},
		{50, "0.47"},
		{59, "0.47"},
		{60, "0.34"},
		{74, "0.34"},
		{75, "0.24"},
		{95, "0.24"},
	}
	for _, tt := range tests {
		got := AllocationForAge(tt.age)
		assert.True(t, got.USEquity.Equal(decimal.RequireFromString(tt.wantEquity)),
			"age %d: US equity weight %s, want %s", tt.age, got.USEquity, tt.wantEquity)
	}
}

func TestAllocation_ShortTermOnlyInOldestBand(t *testing.T) {
	for _, age := range []int{30, 49, 50, 60, 74} {
		assert.True(t, AllocationForAge(age).ShortTerm.IsZero(), "age %d", age)
	}
	assert.True(t, AllocationForAge(75).ShortTerm.Equal(decimal.RequireFromString("0.2")))
}

func TestBlendedReturn_DotProduct(t *testing.T) {
	// Age 40 band is 60/25/15/0. With returns 10%, 4%, 2% the blend is
	// 0.06 + 0.01 + 0.003 = 0.073 exactly. Short-term rate carries no
	// weight in this band and must not leak in.
	allocation := AllocationForAge(40)
	blended := allocation.BlendedReturn(obs("0.10", "0.04", "0.02", "0", "0", "0.50"))
	assert.True(t, blended.Equal(decimal.RequireFromString("0.073")),
		"got %s", blended)
}

func TestBlendedReturn_OldestBandIncludesShortTerm(t *testing.T) {
	// 24/8/48/20 against 10%, 5%, 2%, 1%: 0.024 + 0.004 + 0.0096 + 0.002.
	blended := AllocationForAge(80).BlendedReturn(obs("0.10", "0.05", "0.02", "0", "0", "0.01"))
	assert.True(t, blended.Equal(decimal.RequireFromString("0.0396")),
		"got %s", blended)
}

func TestBlendedReturn_ZeroRates(t *testing.T) {
	for _, age := range []int{30, 55, 65, 80} {
		assert.True(t, AllocationForAge(age).BlendedReturn(flatObs()).IsZero(), "age %d", age)
	}
}
