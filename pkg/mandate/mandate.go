package mandate

import (
	"time"
)

// DefaultTTL bounds how long an IntentMandate stays valid.
const DefaultTTL = 30 * time.Minute

// ErrInvalidMandate is returned when a mandate fails constructor-time
// validation.
type ErrInvalidMandate struct {
	Message string
}

func (e ErrInvalidMandate) Error() string {
	return "invalid mandate: " + e.Message
}

// NewIntentMandate creates an unsigned IntentMandate for the given user and
// shopping intent. The mandate expires after ttl (DefaultTTL if ttl <= 0).
//
// By convention the spending limits allow a 20% buffer over budget in total
// and cap single transactions at the budget itself; callers needing tighter
// limits must override SpendingLimits before signing.
func NewIntentMandate(userID, description string, intent ShoppingIntent, ttl time.Duration) (*IntentMandate, error) {
	if userID == "" {
		return nil, ErrInvalidMandate{"user_id is required"}
	}
	if intent.Destination == "" {
		return nil, ErrInvalidMandate{"shopping_intent.destination is required"}
	}
	if intent.BudgetUSD <= 0 {
		return nil, ErrInvalidMandate{"shopping_intent.budget_usd must be positive"}
	}
	if intent.Travelers <= 0 {
		intent.Travelers = 1
	}
	if intent.CabinClass == "" {
		intent.CabinClass = "economy"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	return &IntentMandate{
		MandateID:                  NewIntentMandateID(),
		MandateType:                TypeIntent,
		SchemaVersion:              Version,
		IssuedAt:                   FormatTimestamp(now),
		ExpiresAt:                  FormatTimestamp(now.Add(ttl)),
		UserID:                     userID,
		NaturalLanguageDescription: description,
		ShoppingIntent:             intent,
		ChargeablePaymentMethods:   []string{string(MethodCard), string(MethodWallet)},
		SpendingLimits: SpendingLimits{
			MaxTotalUSD:          RoundCents(intent.BudgetUSD * 1.2),
			MaxPerTransactionUSD: intent.BudgetUSD,
		},
		RefundabilityRequired:        true,
		UserCartConfirmationRequired: true,
	}, nil
}

// Expired reports whether the mandate's expiry has passed at the given
// instant. Unparseable expiry timestamps count as expired: a consumer can
// never honor a mandate whose validity window it cannot establish.
func (m *IntentMandate) Expired(now time.Time) bool {
	expiry, err := ParseTimestamp(m.ExpiresAt)
	if err != nil {
		return true
	}
	return expiry.Before(now.UTC())
}

// NewCartMandate creates an unsigned CartMandate for the given booking. The
// caller sets CartHash (via the signing package) and both signatures before
// transmitting.
func NewCartMandate(intentMandateID string, payer Payer, payee Payee, items []LineItem, method PaymentMethod, shipping ShippingDetails, amounts Amounts) (*CartMandate, error) {
	if intentMandateID == "" {
		return nil, ErrInvalidMandate{"intent_mandate_id is required"}
	}
	if len(items) == 0 {
		return nil, ErrInvalidMandate{"line_items must not be empty"}
	}
	for _, item := range items {
		if item.ItemID == "" {
			return nil, ErrInvalidMandate{"line item missing item_id"}
		}
		if item.TotalUSD <= 0 {
			return nil, ErrInvalidMandate{"line item " + item.ItemID + " must have positive total_usd"}
		}
	}
	if method.Token == "" {
		return nil, ErrInvalidMandate{"payment_method.token is required"}
	}
	if !amounts.Consistent() {
		return nil, ErrInvalidMandate{"amounts do not add up"}
	}

	return &CartMandate{
		MandateID:       NewCartMandateID(),
		MandateType:     TypeCart,
		SchemaVersion:   Version,
		IntentMandateID: intentMandateID,
		IssuedAt:        FormatTimestamp(time.Now()),
		Payer:           payer,
		Payee:           payee,
		LineItems:       items,
		PaymentMethod:   method,
		ShippingDetails: shipping,
		Amounts:         amounts,
		RefundPolicy: RefundPolicy{
			Refundable:       true,
			RefundPeriodDays: 30,
			Conditions:       "Full refund within 30 days of booking",
		},
	}, nil
}

// NewPaymentMandate creates a PaymentMandate referencing the cart and intent
// it authorizes payment for.
func NewPaymentMandate(cartMandateID, intentMandateID, shoppingAgentID string, presence AgentPresence, details PaymentDetails, signals IssuerSignals) (*PaymentMandate, error) {
	if cartMandateID == "" {
		return nil, ErrInvalidMandate{"cart_mandate_id is required"}
	}
	if intentMandateID == "" {
		return nil, ErrInvalidMandate{"intent_mandate_id is required"}
	}
	if details.Total.TotalUSD <= 0 {
		return nil, ErrInvalidMandate{"payment_details.total must be positive"}
	}
	if presence == "" {
		presence = HumanPresent
	}
	if details.PaymentID == "" {
		details.PaymentID = NewPaymentID()
	}

	return &PaymentMandate{
		MandateID:       NewPaymentMandateID(),
		MandateType:     TypePayment,
		SchemaVersion:   Version,
		CartMandateID:   cartMandateID,
		IntentMandateID: intentMandateID,
		AgentPresence:   presence,
		PaymentDetails:  details,
		Timestamp:       FormatTimestamp(time.Now()),
		ShoppingAgentID: shoppingAgentID,
		IssuerSignals:   signals,
	}, nil
}

// Liability derives the liability assignment for a given agent presence:
// merchant when a human was present at authorization, issuer otherwise.
func Liability(presence AgentPresence) string {
	if presence == HumanPresent {
		return LiabilityMerchant
	}
	return LiabilityIssuer
}
