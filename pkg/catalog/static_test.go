package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuery() Query {
	return Query{
		Destination: "Dubai",
		Origin:      "New York",
		StartDate:   "2026-09-20",
		EndDate:     "2026-09-25",
		Nights:      5,
		Travelers:   2,
		BudgetUSD:   8000,
		CabinClass:  "economy",
	}
}

func TestStaticGenerator_ThreeTiers(t *testing.T) {
	packages, err := NewStaticGenerator().Generate(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, packages, 3)

	assert.Equal(t, TierValue, packages[0].Tier)
	assert.Equal(t, TierRecommended, packages[1].Tier)
	assert.Equal(t, TierPremium, packages[2].Tier)

	for _, pkg := range packages {
		assert.Regexp(t, `^pkg_[0-9a-f]{8}$`, pkg.PackageID)
		assert.NotEmpty(t, pkg.Flights, pkg.Tier)
		assert.NotEmpty(t, pkg.Hotels, pkg.Tier)
		assert.NotEmpty(t, pkg.Activities, pkg.Tier)

		// The advertised total must match what the line items sum to.
		assert.InDelta(t, pkg.SubtotalUSD(), pkg.TotalUSD, 0.001, pkg.Tier)
	}

	// Tiers are priced cheapest first.
	assert.Less(t, packages[0].TotalUSD, packages[1].TotalUSD)
	assert.Less(t, packages[1].TotalUSD, packages[2].TotalUSD)
}

func TestStaticGenerator_ValueTierWithinBudget(t *testing.T) {
	q := testQuery()
	packages, err := NewStaticGenerator().Generate(context.Background(), q)
	require.NoError(t, err)

	// The value tier must clear the intent's 20% buffered spending limit.
	assert.LessOrEqual(t, packages[0].TotalUSD, q.BudgetUSD*1.2)
}

func TestStaticGenerator_PremiumCabinUpgrade(t *testing.T) {
	packages, err := NewStaticGenerator().Generate(context.Background(), testQuery())
	require.NoError(t, err)

	for _, f := range packages[0].Flights {
		assert.Equal(t, "economy", f.CabinClass)
	}
	for _, f := range packages[2].Flights {
		assert.Equal(t, "business", f.CabinClass)
	}
}

func TestStaticGenerator_ActivityCountsPerTier(t *testing.T) {
	packages, err := NewStaticGenerator().Generate(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Len(t, packages[0].Activities, 1)
	assert.Len(t, packages[1].Activities, 2)
	assert.Len(t, packages[2].Activities, 3)
}
