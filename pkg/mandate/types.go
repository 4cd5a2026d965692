// Package mandate defines the AP2 verifiable digital credentials exchanged
// between agents during a checkout: the IntentMandate, CartMandate and
// PaymentMandate chain, and the PaymentConfirmation settlement result.
package mandate

// Type discriminates the three mandate kinds on the wire.
type Type string

const (
	TypeIntent  Type = "IntentMandate"
	TypeCart    Type = "CartMandate"
	TypePayment Type = "PaymentMandate"
)

// Version is the AP2 schema revision stamped on every mandate.
const Version = "ap2/v1"

// AgentPresence indicates whether a human was present when the payment was
// authorized. It drives liability assignment on settlement.
type AgentPresence string

const (
	HumanPresent    AgentPresence = "HUMAN_PRESENT"
	HumanNotPresent AgentPresence = "HUMAN_NOT_PRESENT"
)

// PaymentMethodType identifies the class of a tokenized payment instrument.
type PaymentMethodType string

const (
	MethodCard   PaymentMethodType = "CARD"
	MethodWallet PaymentMethodType = "WALLET"
)

// Item types accepted in cart line items.
const (
	ItemFlight   = "flight"
	ItemHotel    = "hotel"
	ItemActivity = "activity"
)

// DateRange is an inclusive travel date window, ISO dates (YYYY-MM-DD).
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// ShoppingIntent captures what the user asked to shop for.
type ShoppingIntent struct {
	Destination string    `json:"destination"`
	Origin      string    `json:"origin,omitempty"`
	TravelDates DateRange `json:"travel_dates"`
	BudgetUSD   float64   `json:"budget_usd"`
	Travelers   int       `json:"travelers"`
	CabinClass  string    `json:"cabin_class,omitempty"`
	Preferences []string  `json:"preferences,omitempty"`
}

// SpendingLimits bounds what downstream agents may charge against an intent.
type SpendingLimits struct {
	MaxTotalUSD          float64 `json:"max_total_usd"`
	MaxPerTransactionUSD float64 `json:"max_per_transaction_usd"`
}

// IntentMandate is the user's signed authorization to shop.
//
// It is created once per search request by the shopping agent, immutable after
// signing, and referenced (never mutated) by downstream mandates. Any consumer
// MUST reject an expired mandate.
type IntentMandate struct {
	// MandateID is unique per mandate, prefixed "im_".
	MandateID string `json:"mandate_id"`

	// MandateType is always TypeIntent.
	MandateType Type `json:"mandate_type"`

	// SchemaVersion is the AP2 revision, "ap2/v1".
	SchemaVersion string `json:"version"`

	// IssuedAt and ExpiresAt are UTC timestamps; ExpiresAt must be after
	// IssuedAt at creation time.
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`

	UserID string `json:"user_id"`

	// NaturalLanguageDescription is the user's request as free text.
	NaturalLanguageDescription string `json:"natural_language_description"`

	ShoppingIntent ShoppingIntent `json:"shopping_intent"`

	// ChargeablePaymentMethods lists the method types the user allows.
	ChargeablePaymentMethods []string `json:"chargeable_payment_methods"`

	SpendingLimits SpendingLimits `json:"spending_limits"`

	RefundabilityRequired bool `json:"refundability_required"`

	// UserCartConfirmationRequired is true in human-present mode: the user
	// must confirm the exact cart before payment.
	UserCartConfirmationRequired bool `json:"user_cart_confirmation_required"`

	// PromptPlayback is the agent's interpretation of the request, echoed
	// back so the user can catch misreadings.
	PromptPlayback string `json:"prompt_playback,omitempty"`

	// Signature is an HMAC-SHA256 over the canonicalized mandate with all
	// signature-bearing fields stripped, lowercase hex.
	Signature string `json:"signature,omitempty"`
}

// Payer identifies the paying user and their credential provider.
type Payer struct {
	UserID                string `json:"user_id"`
	Email                 string `json:"email"`
	DisplayName           string `json:"display_name"`
	CredentialProviderURL string `json:"credential_provider_url,omitempty"`
}

// Payee identifies the merchant being paid.
type Payee struct {
	MerchantID       string `json:"merchant_id"`
	MerchantName     string `json:"merchant_name"`
	MerchantAgentURL string `json:"merchant_agent_url,omitempty"`
}

// LineItem is one priced entry in a cart.
type LineItem struct {
	ItemID       string         `json:"item_id"`
	ItemType     string         `json:"item_type"`
	Description  string         `json:"description"`
	Quantity     int            `json:"quantity"`
	UnitPriceUSD float64        `json:"unit_price_usd"`
	TotalUSD     float64        `json:"total_usd"`
	Details      map[string]any `json:"details,omitempty"`
}

// PaymentMethod is a tokenized payment reference. It never carries a raw
// instrument, only the vault token and display metadata.
type PaymentMethod struct {
	Type    PaymentMethodType `json:"type"`
	Token   string            `json:"token"`
	Last4   string            `json:"last4"`
	Network string            `json:"network"`
}

// Amounts is the priced breakdown of a cart.
type Amounts struct {
	SubtotalUSD float64 `json:"subtotal_usd"`
	TaxesUSD    float64 `json:"taxes_usd"`
	FeesUSD     float64 `json:"fees_usd"`
	TotalUSD    float64 `json:"total_usd"`
	Currency    string  `json:"currency"`
}

// RefundPolicy describes the refund terms attached to a cart.
type RefundPolicy struct {
	Refundable       bool   `json:"refundable"`
	RefundPeriodDays int    `json:"refund_period_days"`
	Conditions       string `json:"conditions,omitempty"`
}

// ShippingDetails carries billing contact information.
type ShippingDetails struct {
	BillingEmail   string            `json:"billing_email"`
	BillingAddress map[string]string `json:"billing_address,omitempty"`
}

// CartMandate is the exact, tamper-evident booking.
//
// CartHash MUST equal the deterministic hash of LineItems at every point of
// use; a recomputation mismatch signals tampering and causes rejection. The
// mandate is signed twice (user device and merchant) before transmission and
// immutable thereafter.
type CartMandate struct {
	// MandateID is unique per mandate, prefixed "cm_".
	MandateID string `json:"mandate_id"`

	MandateType   Type   `json:"mandate_type"`
	SchemaVersion string `json:"version"`

	// IntentMandateID links back to the authorizing IntentMandate.
	IntentMandateID string `json:"intent_mandate_id"`

	IssuedAt string `json:"issued_at"`

	// CartHash is the SHA-256 of the canonicalized line items, lowercase hex.
	CartHash string `json:"cart_hash"`

	Payer           Payer           `json:"payer"`
	Payee           Payee           `json:"payee"`
	LineItems       []LineItem      `json:"line_items"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
	Amounts         Amounts         `json:"amounts"`
	RefundPolicy    RefundPolicy    `json:"refund_policy"`

	// RiskPayload is an opaque signed risk token (JWT). Downstream agents
	// treat it as a one-way commitment and never decode it.
	RiskPayload string `json:"risk_payload,omitempty"`

	// UserSignature is the device-backed signature over mandate id, user and
	// timestamp. MerchantSignature is the merchant's attestation over the
	// cart contents and pricing.
	UserSignature     string `json:"user_signature,omitempty"`
	MerchantSignature string `json:"merchant_signature,omitempty"`
}

// PaymentDetails describes how the payment is to be executed.
type PaymentDetails struct {
	PaymentID        string  `json:"payment_id"`
	MethodName       string  `json:"method_name"`
	TokenURL         string  `json:"token_url"`
	Total            Amounts `json:"total"`
	RefundPeriodDays int     `json:"refund_period_days"`
}

// IssuerSignals carries risk context for the issuing bank.
type IssuerSignals struct {
	RiskScore         float64 `json:"risk_score"`
	DeviceFingerprint string  `json:"device_fingerprint,omitempty"`
	SessionID         string  `json:"session_id,omitempty"`
	Geolocation       string  `json:"geolocation,omitempty"`
}

// PaymentMandate is the payment-network authorization signal.
//
// CartMandateID and IntentMandateID must match the actual Cart/Intent
// submitted alongside it; a mismatch is a hard validation failure.
type PaymentMandate struct {
	// MandateID is unique per mandate, prefixed "pm_".
	MandateID string `json:"mandate_id"`

	MandateType   Type   `json:"mandate_type"`
	SchemaVersion string `json:"version"`

	CartMandateID   string `json:"cart_mandate_id"`
	IntentMandateID string `json:"intent_mandate_id"`

	AgentPresence AgentPresence `json:"agent_presence"`

	PaymentDetails PaymentDetails `json:"payment_details"`

	// UserAuthorization is a hash binding user_id + cart_mandate_id +
	// total_amount + approval time. It proves the user approved this exact
	// transaction, not just "a" transaction.
	UserAuthorization string `json:"user_authorization"`

	Timestamp string `json:"timestamp"`

	ShoppingAgentID string `json:"shopping_agent_id"`

	IssuerSignals IssuerSignals `json:"issuer_signals"`
}

// BookingReference is one booking record in a confirmation: a single PNR per
// flight group, one confirmation per hotel or activity item.
type BookingReference struct {
	ItemType           string `json:"item_type"`
	PNR                string `json:"pnr"`
	ConfirmationNumber string `json:"confirmation_number"`
	Provider           string `json:"provider"`
}

// Confirmation status values.
const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
)

// Liability assignment values, derived from AgentPresence.
const (
	LiabilityMerchant = "merchant"
	LiabilityIssuer   = "issuer"
)

// PaymentConfirmation is the settlement result. It is created once per
// successful authorization, stored in the payment agent's ledger keyed by
// TransactionID, and never mutated after creation.
type PaymentConfirmation struct {
	TransactionID       string             `json:"transaction_id"`
	AuthorizationCode   string             `json:"authorization_code"`
	Status              string             `json:"status"`
	SettlementTimestamp string             `json:"settlement_timestamp"`
	LiabilityAssignment string             `json:"liability_assignment"`
	PaymentMandateID    string             `json:"payment_mandate_id"`
	CartMandateID       string             `json:"cart_mandate_id"`
	IntentMandateID     string             `json:"intent_mandate_id"`
	BookingReferences   []BookingReference `json:"booking_references"`
	TotalCharged        Amounts            `json:"total_charged"`
	AuditTrail          string             `json:"audit_trail"`
}
