package catalog

import (
	"context"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// Query is the normalized input to a package generator.
type Query struct {
	Destination string
	Origin      string
	StartDate   string
	EndDate     string
	Nights      int
	Travelers   int
	BudgetUSD   float64
	CabinClass  string
	Preferences []string
}

// Generator produces tiered travel packages for a query.
type Generator interface {
	Generate(ctx context.Context, q Query) ([]TravelPackage, error)
}

// Query defaults used when the intent leaves fields blank.
const (
	defaultDestination = "Dubai"
	defaultOrigin      = "New York"
	defaultTravelers   = 2
	defaultBudgetUSD   = 8000
	defaultCabinClass  = "economy"
	defaultNights      = 5
)

// QueryFromIntent normalizes a shopping intent into a generator query,
// filling gaps with defaults so the generator always has a workable request.
func QueryFromIntent(intent mandate.ShoppingIntent) Query {
	q := Query{
		Destination: intent.Destination,
		Origin:      intent.Origin,
		StartDate:   intent.TravelDates.Start,
		EndDate:     intent.TravelDates.End,
		Travelers:   intent.Travelers,
		BudgetUSD:   intent.BudgetUSD,
		CabinClass:  intent.CabinClass,
		Preferences: intent.Preferences,
	}
	if q.Destination == "" {
		q.Destination = defaultDestination
	}
	if q.Origin == "" {
		q.Origin = defaultOrigin
	}
	if q.Travelers < 1 {
		q.Travelers = defaultTravelers
	}
	if q.BudgetUSD <= 0 {
		q.BudgetUSD = defaultBudgetUSD
	}
	if q.CabinClass == "" {
		q.CabinClass = defaultCabinClass
	}
	if q.StartDate == "" {
		q.StartDate = time.Now().AddDate(0, 0, 21).Format("2006-01-02")
	}
	if q.EndDate == "" {
		q.EndDate = time.Now().AddDate(0, 0, 21+defaultNights).Format("2006-01-02")
	}
	q.Nights = nightsBetween(q.StartDate, q.EndDate)
	return q
}

func nightsBetween(start, end string) int {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil {
		return defaultNights
	}
	nights := int(e.Sub(s).Hours() / 24)
	if nights < 1 {
		return defaultNights
	}
	return nights
}
