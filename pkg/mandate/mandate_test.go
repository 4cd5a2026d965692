package mandate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntentMandate(t *testing.T) {
	intent := ShoppingIntent{
		Destination: "Dubai",
		Origin:      "New York",
		TravelDates: DateRange{Start: "2026-09-20", End: "2026-09-25"},
		BudgetUSD:   8000,
		Travelers:   2,
	}

	im, err := NewIntentMandate("demo_user", "5-star trip to Dubai", intent, 0)
	require.NoError(t, err)

	assert.Regexp(t, `^im_[0-9a-f]{12}$`, im.MandateID)
	assert.Equal(t, TypeIntent, im.MandateType)
	assert.Equal(t, Version, im.SchemaVersion)
	assert.Equal(t, "demo_user", im.UserID)

	// 20% total buffer, per-transaction capped at budget.
	assert.InDelta(t, 9600, im.SpendingLimits.MaxTotalUSD, 0.001)
	assert.InDelta(t, 8000, im.SpendingLimits.MaxPerTransactionUSD, 0.001)

	assert.True(t, im.RefundabilityRequired)
	assert.True(t, im.UserCartConfirmationRequired)
	assert.ElementsMatch(t, []string{"CARD", "WALLET"}, im.ChargeablePaymentMethods)

	issued, err := ParseTimestamp(im.IssuedAt)
	require.NoError(t, err)
	expires, err := ParseTimestamp(im.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, expires.Sub(issued))
}

func TestNewIntentMandate_Validation(t *testing.T) {
	valid := ShoppingIntent{Destination: "Dubai", BudgetUSD: 8000}

	_, err := NewIntentMandate("", "trip", valid, 0)
	assert.ErrorContains(t, err, "user_id")

	_, err = NewIntentMandate("u1", "trip", ShoppingIntent{BudgetUSD: 8000}, 0)
	assert.ErrorContains(t, err, "destination")

	_, err = NewIntentMandate("u1", "trip", ShoppingIntent{Destination: "Dubai"}, 0)
	assert.ErrorContains(t, err, "budget_usd")
}

func TestIntentMandateExpired(t *testing.T) {
	im, err := NewIntentMandate("u1", "trip",
		ShoppingIntent{Destination: "Dubai", BudgetUSD: 1000}, time.Minute)
	require.NoError(t, err)

	assert.False(t, im.Expired(time.Now()))
	assert.True(t, im.Expired(time.Now().Add(2*time.Minute)))

	im.ExpiresAt = "not-a-timestamp"
	assert.True(t, im.Expired(time.Now()), "unparseable expiry must count as expired")
}

func TestParseTimestamp(t *testing.T) {
	t.Run("timezone_aware", func(t *testing.T) {
		ts, err := ParseTimestamp("2026-09-20T10:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, time.UTC, ts.Location())
	})

	t.Run("timezone_naive_treated_as_utc", func(t *testing.T) {
		aware, err := ParseTimestamp("2026-09-20T10:00:00Z")
		require.NoError(t, err)
		naive, err := ParseTimestamp("2026-09-20T10:00:00")
		require.NoError(t, err)
		assert.True(t, aware.Equal(naive))
	})

	t.Run("fractional_seconds", func(t *testing.T) {
		_, err := ParseTimestamp("2026-09-20T10:00:00.123456")
		assert.NoError(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseTimestamp("soon")
		assert.Error(t, err)
	})
}

func TestComputeAmounts(t *testing.T) {
	amounts := ComputeAmounts(1000)

	assert.InDelta(t, 1000, amounts.SubtotalUSD, 0.001)
	assert.InDelta(t, 95, amounts.TaxesUSD, 0.001)
	assert.InDelta(t, 25, amounts.FeesUSD, 0.001)
	assert.InDelta(t, 1120, amounts.TotalUSD, 0.001)
	assert.Equal(t, "USD", amounts.Currency)
	assert.True(t, amounts.Consistent())
}

func TestAmountsConsistent(t *testing.T) {
	bad := Amounts{SubtotalUSD: 100, TaxesUSD: 9.5, FeesUSD: 2.5, TotalUSD: 150, Currency: "USD"}
	assert.False(t, bad.Consistent())

	// Cent rounding must not trip the check.
	rounded := ComputeAmounts(333.33)
	assert.True(t, rounded.Consistent())
}

func TestNewCartMandate_Validation(t *testing.T) {
	payer := Payer{UserID: "u1", Email: "u1@example.com"}
	payee := Payee{MerchantID: "m1", MerchantName: "Merchant"}
	method := PaymentMethod{Type: MethodCard, Token: "txn_tok_abc", Last4: "4242", Network: "Visa"}
	items := []LineItem{{ItemID: "fl_1", ItemType: ItemFlight, Quantity: 2, UnitPriceUSD: 500, TotalUSD: 1000}}
	amounts := ComputeAmounts(1000)

	cm, err := NewCartMandate("im_abc", payer, payee, items, method, ShippingDetails{}, amounts)
	require.NoError(t, err)
	assert.Regexp(t, `^cm_[0-9a-f]{12}$`, cm.MandateID)
	assert.Equal(t, "im_abc", cm.IntentMandateID)
	assert.True(t, cm.RefundPolicy.Refundable)
	assert.Equal(t, 30, cm.RefundPolicy.RefundPeriodDays)

	_, err = NewCartMandate("", payer, payee, items, method, ShippingDetails{}, amounts)
	assert.ErrorContains(t, err, "intent_mandate_id")

	_, err = NewCartMandate("im_abc", payer, payee, nil, method, ShippingDetails{}, amounts)
	assert.ErrorContains(t, err, "line_items")

	noToken := method
	noToken.Token = ""
	_, err = NewCartMandate("im_abc", payer, payee, items, noToken, ShippingDetails{}, amounts)
	assert.ErrorContains(t, err, "token")
}

func TestLiability(t *testing.T) {
	assert.Equal(t, LiabilityMerchant, Liability(HumanPresent))
	assert.Equal(t, LiabilityIssuer, Liability(HumanNotPresent))
}
