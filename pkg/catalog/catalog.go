// Package catalog is the merchant's content collaborator: it turns a shopping
// query into three tiered travel packages (value, recommended, premium). The
// primary generator calls an LLM over HTTP; a deterministic generator serves
// as the always-available fallback. Either way the merchant receives
// well-formed packages whose totals match their line items.
package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// Package tiers, cheapest first.
const (
	TierValue       = "value"
	TierRecommended = "recommended"
	TierPremium     = "premium"
)

// Flight is one flight segment in a package.
type Flight struct {
	FlightID          string  `json:"flight_id"`
	Airline           string  `json:"airline"`
	FlightNumber      string  `json:"flight_number"`
	DepartureCity     string  `json:"departure_city"`
	ArrivalCity       string  `json:"arrival_city"`
	DepartureTime     string  `json:"departure_time"`
	ArrivalTime       string  `json:"arrival_time"`
	CabinClass        string  `json:"cabin_class"`
	PricePerPersonUSD float64 `json:"price_per_person_usd"`
	Refundable        bool    `json:"refundable"`
}

// Hotel is one hotel stay in a package.
type Hotel struct {
	HotelID          string  `json:"hotel_id"`
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	StarRating       int     `json:"star_rating"`
	PricePerNightUSD float64 `json:"price_per_night_usd"`
	Nights           int     `json:"nights"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	RoomType         string  `json:"room_type"`
	Refundable       bool    `json:"refundable"`
}

// Activity is one bookable experience in a package.
type Activity struct {
	ActivityID        string   `json:"activity_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	PricePerPersonUSD float64  `json:"price_per_person_usd"`
	Duration          string   `json:"duration"`
	Included          []string `json:"included,omitempty"`
}

// TravelPackage is one priced, tiered option offered by the merchant. Every
// package carries at least one flight, one hotel and one activity, and
// TotalUSD equals the sum of its line items.
type TravelPackage struct {
	PackageID   string     `json:"package_id"`
	Tier        string     `json:"tier"`
	Flights     []Flight   `json:"flights"`
	Hotels      []Hotel    `json:"hotels"`
	Activities  []Activity `json:"activities"`
	TotalUSD    float64    `json:"total_usd"`
	Travelers   int        `json:"travelers"`
	Nights      int        `json:"nights"`
	Description string     `json:"description,omitempty"`

	// MerchantSignature attests the merchant priced this package.
	MerchantSignature string `json:"merchant_signature,omitempty"`
}

// NewPackageID returns a fresh package id, prefixed "pkg_".
func NewPackageID() string {
	return "pkg_" + uuid.NewString()[:8]
}

// LineItems flattens the package into cart line items: flights and activities
// priced per traveler, hotels per night. Item details carry the full catalog
// record so downstream consumers keep the booking context.
func (p *TravelPackage) LineItems() []mandate.LineItem {
	travelers := p.Travelers
	if travelers < 1 {
		travelers = 1
	}

	var items []mandate.LineItem
	for _, f := range p.Flights {
		items = append(items, mandate.LineItem{
			ItemID:       f.FlightID,
			ItemType:     mandate.ItemFlight,
			Description:  fmt.Sprintf("%s %s - %s", f.Airline, f.FlightNumber, f.CabinClass),
			Quantity:     travelers,
			UnitPriceUSD: f.PricePerPersonUSD,
			TotalUSD:     f.PricePerPersonUSD * float64(travelers),
			Details:      flightDetails(f),
		})
	}
	for _, h := range p.Hotels {
		nights := h.Nights
		if nights < 1 {
			nights = 1
		}
		items = append(items, mandate.LineItem{
			ItemID:       h.HotelID,
			ItemType:     mandate.ItemHotel,
			Description:  fmt.Sprintf("%s - %s (%d nights)", h.Name, h.RoomType, nights),
			Quantity:     nights,
			UnitPriceUSD: h.PricePerNightUSD,
			TotalUSD:     h.PricePerNightUSD * float64(nights),
			Details:      hotelDetails(h),
		})
	}
	for _, a := range p.Activities {
		items = append(items, mandate.LineItem{
			ItemID:       a.ActivityID,
			ItemType:     mandate.ItemActivity,
			Description:  a.Name,
			Quantity:     travelers,
			UnitPriceUSD: a.PricePerPersonUSD,
			TotalUSD:     a.PricePerPersonUSD * float64(travelers),
			Details:      activityDetails(a),
		})
	}
	return items
}

// SubtotalUSD sums the package's line item totals.
func (p *TravelPackage) SubtotalUSD() float64 {
	var sum float64
	for _, item := range p.LineItems() {
		sum += item.TotalUSD
	}
	return mandate.RoundCents(sum)
}

func flightDetails(f Flight) map[string]any {
	return map[string]any{
		"airline":        f.Airline,
		"flight_number":  f.FlightNumber,
		"departure_city": f.DepartureCity,
		"arrival_city":   f.ArrivalCity,
		"departure_time": f.DepartureTime,
		"arrival_time":   f.ArrivalTime,
		"cabin_class":    f.CabinClass,
		"refundable":     f.Refundable,
	}
}

func hotelDetails(h Hotel) map[string]any {
	return map[string]any{
		"name":        h.Name,
		"location":    h.Location,
		"star_rating": h.StarRating,
		"check_in":    h.CheckIn,
		"check_out":   h.CheckOut,
		"room_type":   h.RoomType,
		"refundable":  h.Refundable,
	}
}

func activityDetails(a Activity) map[string]any {
	return map[string]any{
		"name":        a.Name,
		"description": a.Description,
		"duration":    a.Duration,
		"included":    a.Included,
	}
}
