package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

func TestTravelPackage_LineItems(t *testing.T) {
	pkg := TravelPackage{
		Travelers: 2,
		Nights:    5,
		Flights: []Flight{
			{FlightID: "fl_1", Airline: "Emirates", FlightNumber: "EK-512", CabinClass: "economy", PricePerPersonUSD: 500},
		},
		Hotels: []Hotel{
			{HotelID: "ht_1", Name: "Grand Hotel", RoomType: "Deluxe Room", Nights: 5, PricePerNightUSD: 200},
		},
		Activities: []Activity{
			{ActivityID: "ac_1", Name: "City Tour", PricePerPersonUSD: 50},
		},
	}

	items := pkg.LineItems()
	require.Len(t, items, 3)

	flight := items[0]
	assert.Equal(t, mandate.ItemFlight, flight.ItemType)
	assert.Equal(t, "Emirates EK-512 - economy", flight.Description)
	assert.Equal(t, 2, flight.Quantity)
	assert.InDelta(t, 1000, flight.TotalUSD, 0.001)
	assert.Equal(t, "Emirates", flight.Details["airline"])

	hotel := items[1]
	assert.Equal(t, mandate.ItemHotel, hotel.ItemType)
	assert.Equal(t, "Grand Hotel - Deluxe Room (5 nights)", hotel.Description)
	assert.Equal(t, 5, hotel.Quantity)
	assert.InDelta(t, 1000, hotel.TotalUSD, 0.001)

	activity := items[2]
	assert.Equal(t, mandate.ItemActivity, activity.ItemType)
	assert.Equal(t, 2, activity.Quantity)
	assert.InDelta(t, 100, activity.TotalUSD, 0.001)

	assert.InDelta(t, 2100, pkg.SubtotalUSD(), 0.001)
}

func TestQueryFromIntent_Defaults(t *testing.T) {
	q := QueryFromIntent(mandate.ShoppingIntent{})

	assert.Equal(t, "Dubai", q.Destination)
	assert.Equal(t, "New York", q.Origin)
	assert.Equal(t, 2, q.Travelers)
	assert.InDelta(t, 8000, q.BudgetUSD, 0.001)
	assert.Equal(t, "economy", q.CabinClass)
	assert.Equal(t, 5, q.Nights)
	assert.NotEmpty(t, q.StartDate)
	assert.NotEmpty(t, q.EndDate)
}

func TestQueryFromIntent_ComputesNights(t *testing.T) {
	q := QueryFromIntent(mandate.ShoppingIntent{
		Destination: "Tokyo",
		Origin:      "London",
		TravelDates: mandate.DateRange{Start: "2026-09-20", End: "2026-09-27"},
		Travelers:   3,
		BudgetUSD:   12000,
		CabinClass:  "premium_economy",
	})

	assert.Equal(t, "Tokyo", q.Destination)
	assert.Equal(t, 7, q.Nights)
	assert.Equal(t, 3, q.Travelers)

	t.Run("inverted_dates_fall_back", func(t *testing.T) {
		q := QueryFromIntent(mandate.ShoppingIntent{
			Destination: "Tokyo",
			BudgetUSD:   1000,
			TravelDates: mandate.DateRange{Start: "2026-09-27", End: "2026-09-20"},
		})
		assert.Equal(t, 5, q.Nights)
	})
}
