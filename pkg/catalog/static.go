package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// tierSpec fixes the shape of one fallback tier. Price multipliers scale the
// budget-derived base prices so the value tier always lands well inside the
// intent's spending limits.
type tierSpec struct {
	tier        string
	multiplier  float64
	stars       int
	roomType    string
	description string
}

var tiers = []tierSpec{
	{TierValue, 0.6, 3, "Standard Room", "Budget-friendly package"},
	{TierRecommended, 0.85, 4, "Deluxe Room", "Best value - our top pick"},
	{TierPremium, 1.1, 5, "Suite", "Luxury experience"},
}

// StaticGenerator produces deterministic packages without any network call.
// It is the fallback of last resort and never returns an error.
type StaticGenerator struct{}

// NewStaticGenerator creates the deterministic generator.
func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

// Generate builds three tiered packages priced off the query budget. Package
// totals are computed from the line items, never asserted independently.
func (g *StaticGenerator) Generate(_ context.Context, q Query) ([]TravelPackage, error) {
	packages := make([]TravelPackage, 0, len(tiers))
	for i, spec := range tiers {
		flightPP := mandate.RoundCents(q.BudgetUSD * 0.08 * spec.multiplier)
		hotelPN := mandate.RoundCents(q.BudgetUSD * 0.02 * spec.multiplier)
		activityPP := mandate.RoundCents(q.BudgetUSD * 0.008 * spec.multiplier)

		cabin := q.CabinClass
		if spec.tier == TierPremium {
			cabin = "business"
		}

		pkg := TravelPackage{
			PackageID: NewPackageID(),
			Tier:      spec.tier,
			Travelers: q.Travelers,
			Nights:    q.Nights,
			Flights: []Flight{
				{
					FlightID:          itemID("fl"),
					Airline:           "Emirates",
					FlightNumber:      fmt.Sprintf("EK-%d", 512+i*2),
					DepartureCity:     q.Origin,
					ArrivalCity:       q.Destination,
					DepartureTime:     q.StartDate + "T08:00:00",
					ArrivalTime:       q.StartDate + "T20:00:00",
					CabinClass:        cabin,
					PricePerPersonUSD: flightPP,
					Refundable:        true,
				},
				{
					FlightID:          itemID("fl"),
					Airline:           "Emirates",
					FlightNumber:      fmt.Sprintf("EK-%d", 513+i*2),
					DepartureCity:     q.Destination,
					ArrivalCity:       q.Origin,
					DepartureTime:     q.EndDate + "T22:00:00",
					ArrivalTime:       q.EndDate + "T23:59:00",
					CabinClass:        cabin,
					PricePerPersonUSD: flightPP,
					Refundable:        true,
				},
			},
			Hotels: []Hotel{
				{
					HotelID:          itemID("ht"),
					Name:             hotelName(q.Destination, spec.tier),
					Location:         q.Destination,
					StarRating:       spec.stars,
					PricePerNightUSD: hotelPN,
					Nights:           q.Nights,
					CheckIn:          q.StartDate,
					CheckOut:         q.EndDate,
					RoomType:         spec.roomType,
					Refundable:       true,
				},
			},
			Activities:  tierActivities(q.Destination, spec.tier, activityPP),
			Description: spec.description,
		}
		pkg.TotalUSD = pkg.SubtotalUSD()
		packages = append(packages, pkg)
	}
	return packages, nil
}

func hotelName(destination, tier string) string {
	switch tier {
	case TierValue:
		return destination + " City Inn"
	case TierRecommended:
		return destination + " Grand Hotel"
	default:
		return destination + " Luxury Resort"
	}
}

func tierActivities(destination, tier string, pricePP float64) []Activity {
	walking := Activity{
		ActivityID:        itemID("ac"),
		Name:              destination + " City Tour",
		Description:       "Explore the city highlights with a local guide",
		PricePerPersonUSD: pricePP,
		Duration:          "4 hours",
		Included:          []string{"Guide", "Water"},
	}
	if tier == TierValue {
		return []Activity{walking}
	}

	cruise := Activity{
		ActivityID:        itemID("ac"),
		Name:              "Sunset Dinner Cruise",
		Description:       "Evening cruise with dinner and entertainment",
		PricePerPersonUSD: mandate.RoundCents(pricePP * 1.5),
		Duration:          "3 hours",
		Included:          []string{"Dinner", "Drinks", "Entertainment"},
	}
	if tier == TierRecommended {
		return []Activity{walking, cruise}
	}

	desert := Activity{
		ActivityID:        itemID("ac"),
		Name:              "Private Desert Safari",
		Description:       "Exclusive safari with private guide and meals",
		PricePerPersonUSD: mandate.RoundCents(pricePP * 2.5),
		Duration:          "Full day",
		Included:          []string{"Guide", "Meals", "Transport"},
	}
	return []Activity{walking, cruise, desert}
}

func itemID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:6]
}
