// Package chain validates AP2 mandate chains before authorization.
//
// Given a (PaymentMandate, CartMandate, IntentMandate) triple the Validator
// decides APPROVE or REJECT with a structured reason list. There is no
// partial approval and no silent correction: the caller decides whether to
// retry with a corrected mandate or abort.
package chain

import (
	"fmt"
	"strings"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

// Result is the outcome of a chain validation.
type Result struct {
	Valid   bool
	Reasons []string
}

// RejectionError wraps a failed validation for callers that want an error.
type RejectionError struct {
	Reasons []string
}

func (e *RejectionError) Error() string {
	return "mandate chain rejected: " + strings.Join(e.Reasons, "; ")
}

// Validator checks structural linkage, expiry, signatures, cart integrity and
// spending limits on a mandate chain. Signature verification and cart hash
// recomputation are hard checks: presence alone is not enough.
type Validator struct {
	signer *signing.Signer
	now    func() time.Time
}

// NewValidator creates a Validator using the given signer for signature and
// hash verification.
func NewValidator(signer *signing.Signer) *Validator {
	return &Validator{signer: signer, now: time.Now}
}

// Validate runs all chain checks and returns the aggregate result. Every
// failed check contributes its own reason; checks do not short-circuit, so
// the caller sees the complete picture in one pass.
func (v *Validator) Validate(payment *mandate.PaymentMandate, cart *mandate.CartMandate, intent *mandate.IntentMandate) Result {
	var reasons []string

	if payment == nil || cart == nil || intent == nil {
		return Result{Valid: false, Reasons: []string{"payment, cart and intent mandates are all required"}}
	}

	// Structural linkage: every back-reference must match the mandate
	// actually submitted alongside it.
	if payment.CartMandateID != cart.MandateID {
		reasons = append(reasons, "payment mandate cart_mandate_id does not match cart mandate")
	}
	if payment.IntentMandateID != intent.MandateID {
		reasons = append(reasons, "payment mandate intent_mandate_id does not match intent mandate")
	}
	if cart.IntentMandateID != intent.MandateID {
		reasons = append(reasons, "cart mandate intent_mandate_id does not match intent mandate")
	}

	// Expiry, compared in UTC regardless of timestamp representation.
	if intent.Expired(v.now()) {
		reasons = append(reasons, "intent mandate has expired")
	}

	// Intent signature must verify, not merely exist.
	if intent.Signature == "" {
		reasons = append(reasons, "intent mandate is unsigned")
	} else if !v.signer.VerifyMandate(intent, intent.Signature) {
		reasons = append(reasons, "intent mandate signature verification failed")
	}

	// Cart integrity: recompute the hash from the submitted line items.
	if cart.CartHash == "" {
		reasons = append(reasons, "cart mandate has no cart_hash")
	} else if !signing.VerifyCartHash(cart.LineItems, cart.CartHash) {
		reasons = append(reasons, "cart_hash does not match line items")
	}

	if cart.UserSignature == "" {
		reasons = append(reasons, "cart mandate missing user_signature")
	}
	if cart.MerchantSignature == "" {
		reasons = append(reasons, "cart mandate missing merchant_signature")
	}

	reasons = append(reasons, checkSpendingLimits(cart.Amounts.TotalUSD, intent.SpendingLimits)...)

	return Result{Valid: len(reasons) == 0, Reasons: reasons}
}

// checkSpendingLimits returns a distinct reason per exceeded limit.
func checkSpendingLimits(totalUSD float64, limits mandate.SpendingLimits) []string {
	var reasons []string
	if limits.MaxTotalUSD > 0 && totalUSD > limits.MaxTotalUSD {
		reasons = append(reasons, fmt.Sprintf("total $%.2f exceeds max_total_usd $%.2f", totalUSD, limits.MaxTotalUSD))
	}
	if limits.MaxPerTransactionUSD > 0 && totalUSD > limits.MaxPerTransactionUSD {
		reasons = append(reasons, fmt.Sprintf("total $%.2f exceeds max_per_transaction_usd $%.2f", totalUSD, limits.MaxPerTransactionUSD))
	}
	return reasons
}
