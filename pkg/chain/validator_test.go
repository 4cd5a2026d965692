package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

func buildChain(t *testing.T, signer *signing.Signer) (*mandate.PaymentMandate, *mandate.CartMandate, *mandate.IntentMandate) {
	t.Helper()

	intent, err := mandate.NewIntentMandate("demo_user", "trip to Dubai",
		mandate.ShoppingIntent{Destination: "Dubai", BudgetUSD: 8000, Travelers: 2}, 30*time.Minute)
	require.NoError(t, err)
	sig, err := signer.SignMandate(intent)
	require.NoError(t, err)
	intent.Signature = sig

	items := []mandate.LineItem{
		{ItemID: "fl_1", ItemType: mandate.ItemFlight, Description: "Emirates EK-512", Quantity: 2, UnitPriceUSD: 500, TotalUSD: 1000, Details: map[string]any{"airline": "Emirates"}},
		{ItemID: "ht_1", ItemType: mandate.ItemHotel, Description: "Grand Hotel", Quantity: 5, UnitPriceUSD: 200, TotalUSD: 1000, Details: map[string]any{"name": "Grand Hotel"}},
		{ItemID: "ac_1", ItemType: mandate.ItemActivity, Description: "City Tour", Quantity: 2, UnitPriceUSD: 50, TotalUSD: 100, Details: map[string]any{"name": "City Tour"}},
	}
	amounts := mandate.ComputeAmounts(2100)

	cart, err := mandate.NewCartMandate(intent.MandateID,
		mandate.Payer{UserID: "demo_user", Email: "demo@example.com"},
		mandate.Payee{MerchantID: "m1", MerchantName: "Merchant"},
		items,
		mandate.PaymentMethod{Type: mandate.MethodCard, Token: "txn_tok_abc", Last4: "4242", Network: "Visa"},
		mandate.ShippingDetails{BillingEmail: "demo@example.com"},
		amounts)
	require.NoError(t, err)

	hash, err := signing.HashCart(items)
	require.NoError(t, err)
	cart.CartHash = hash

	userSig, err := signer.DeviceSignature("demo_user", cart.MandateID)
	require.NoError(t, err)
	cart.UserSignature = userSig
	merchantSig, err := signer.MerchantSignature("m1", hash)
	require.NoError(t, err)
	cart.MerchantSignature = merchantSig

	pm, err := mandate.NewPaymentMandate(cart.MandateID, intent.MandateID, "shopping_agent",
		mandate.HumanPresent,
		mandate.PaymentDetails{PaymentID: mandate.NewPaymentID(), MethodName: "CARD", Total: amounts, RefundPeriodDays: 30},
		mandate.IssuerSignals{SessionID: "sess-1"})
	require.NoError(t, err)

	return pm, cart, intent
}

func TestValidate_ValidChain(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	pm, cart, intent := buildChain(t, signer)

	result := NewValidator(signer).Validate(pm, cart, intent)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Reasons)
}

func TestValidate_BrokenLinkage(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	v := NewValidator(signer)

	t.Run("payment_to_cart", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		pm.CartMandateID = "cm_other"
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "payment mandate cart_mandate_id does not match cart mandate")
	})

	t.Run("payment_to_intent", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		pm.IntentMandateID = "im_other"
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "payment mandate intent_mandate_id does not match intent mandate")
	})

	t.Run("cart_to_intent", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		cart.IntentMandateID = "im_other"
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "cart mandate intent_mandate_id does not match intent mandate")
	})
}

func TestValidate_ExpiredIntent(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	pm, cart, intent := buildChain(t, signer)

	v := NewValidator(signer)
	v.now = func() time.Time { return time.Now().Add(time.Hour) }

	result := v.Validate(pm, cart, intent)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reasons, "intent mandate has expired")
}

func TestValidate_SignatureChecksAreMandatory(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	v := NewValidator(signer)

	t.Run("unsigned_intent", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		intent.Signature = ""
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "intent mandate is unsigned")
	})

	t.Run("forged_intent_signature", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		intent.SpendingLimits.MaxTotalUSD = 100000
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "intent mandate signature verification failed")
	})

	t.Run("missing_cart_signatures", func(t *testing.T) {
		pm, cart, intent := buildChain(t, signer)
		cart.UserSignature = ""
		cart.MerchantSignature = ""
		result := v.Validate(pm, cart, intent)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Reasons, "cart mandate missing user_signature")
		assert.Contains(t, result.Reasons, "cart mandate missing merchant_signature")
	})
}

func TestValidate_CartHashRecomputed(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	pm, cart, intent := buildChain(t, signer)

	// Tamper with a price after hashing; the stale hash must be caught.
	cart.LineItems[0].TotalUSD = 1

	result := NewValidator(signer).Validate(pm, cart, intent)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reasons, "cart_hash does not match line items")
}

func TestValidate_SpendingLimits(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	pm, cart, intent := buildChain(t, signer)

	intent.SpendingLimits = mandate.SpendingLimits{MaxTotalUSD: 2000, MaxPerTransactionUSD: 1500}
	sig, err := signer.SignMandate(intent)
	require.NoError(t, err)
	intent.Signature = sig

	result := NewValidator(signer).Validate(pm, cart, intent)
	assert.False(t, result.Valid)

	// Each exceeded limit is its own reason so the caller knows exactly
	// which bound tripped.
	assert.Contains(t, result.Reasons, "total $2352.00 exceeds max_total_usd $2000.00")
	assert.Contains(t, result.Reasons, "total $2352.00 exceeds max_per_transaction_usd $1500.00")
}

func TestValidate_NilMandates(t *testing.T) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	result := NewValidator(signer).Validate(nil, nil, nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Reasons, 1)
}
