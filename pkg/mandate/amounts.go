package mandate

import "math"

// Demo pricing policy: taxes and fees are fixed rates applied to the cart
// subtotal. A general deployment treats these as merchant-computed and
// independently re-derivable.
const (
	TaxRate = 0.095
	FeeRate = 0.025
)

// RoundCents rounds a USD amount to cents.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeAmounts derives the full amount breakdown from a subtotal using the
// fixed tax and fee rates, each figure rounded to cents.
func ComputeAmounts(subtotalUSD float64) Amounts {
	subtotal := RoundCents(subtotalUSD)
	taxes := RoundCents(subtotal * TaxRate)
	fees := RoundCents(subtotal * FeeRate)
	return Amounts{
		SubtotalUSD: subtotal,
		TaxesUSD:    taxes,
		FeesUSD:     fees,
		TotalUSD:    RoundCents(subtotal + taxes + fees),
		Currency:    "USD",
	}
}

// Consistent reports whether the breakdown adds up: total equals
// subtotal + taxes + fees within half a cent.
func (a Amounts) Consistent() bool {
	return math.Abs(a.TotalUSD-(a.SubtotalUSD+a.TaxesUSD+a.FeesUSD)) < 0.005
}
