// Package payment implements the payment processor agent: the last hop of
// the mandate chain. It validates the full (Payment, Cart, Intent) triple,
// authorizes against the payment network seam, mints booking references and
// records the settlement in an append-only ledger.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/chain"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/store"
)

// Agent is the payment processor.
type Agent struct {
	agentID    string
	validator  *chain.Validator
	authorizer Authorizer
	ledger     store.Ledger
	logger     *slog.Logger
}

// NewAgent creates a payment agent. A nil logger gets slog.Default.
func NewAgent(agentID string, validator *chain.Validator, authorizer Authorizer, ledger store.Ledger, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		agentID:    agentID,
		validator:  validator,
		authorizer: authorizer,
		ledger:     ledger,
		logger:     logger,
	}
}

// ErrDeclined is returned when authorization or chain validation refuses the
// payment. Reasons list every check that failed.
type ErrDeclined struct {
	Reasons []string
}

func (e *ErrDeclined) Error() string {
	if len(e.Reasons) == 1 {
		return "payment declined: " + e.Reasons[0]
	}
	return fmt.Sprintf("payment declined for %d reasons", len(e.Reasons))
}

// ProcessPayment settles one mandate chain. Resubmitting an already settled
// PaymentMandate returns the original confirmation; nothing is charged twice.
func (a *Agent) ProcessPayment(ctx context.Context, pm *mandate.PaymentMandate, cart *mandate.CartMandate, intent *mandate.IntentMandate) (*mandate.PaymentConfirmation, error) {
	if pm != nil {
		if existing, ok := a.ledger.ByPaymentMandate(pm.MandateID); ok {
			a.logger.Info("duplicate payment mandate, returning original settlement",
				"payment_mandate_id", pm.MandateID,
				"transaction_id", existing.TransactionID)
			return existing, nil
		}
	}

	result := a.validator.Validate(pm, cart, intent)
	if !result.Valid {
		a.logger.Error("mandate chain rejected",
			"payment_mandate_id", mandateID(pm),
			"reasons", result.Reasons)
		return nil, &ErrDeclined{Reasons: result.Reasons}
	}
	a.logger.Info("mandate chain verified",
		"payment_mandate_id", pm.MandateID,
		"cart_mandate_id", cart.MandateID,
		"intent_mandate_id", intent.MandateID)

	total := cart.Amounts.TotalUSD
	auth, err := a.authorizer.Authorize(ctx, pm, total)
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	if !auth.Authorized {
		a.logger.Error("payment declined by network",
			"payment_mandate_id", pm.MandateID,
			"reason", auth.Reason)
		return nil, &ErrDeclined{Reasons: []string{auth.Reason}}
	}

	conf := &mandate.PaymentConfirmation{
		TransactionID:       auth.TransactionID,
		AuthorizationCode:   auth.AuthorizationCode,
		Status:              mandate.StatusApproved,
		SettlementTimestamp: mandate.FormatTimestamp(time.Now()),
		LiabilityAssignment: mandate.Liability(pm.AgentPresence),
		PaymentMandateID:    pm.MandateID,
		CartMandateID:       cart.MandateID,
		IntentMandateID:     intent.MandateID,
		BookingReferences:   bookingReferences(cart.LineItems),
		TotalCharged:        cart.Amounts,
		AuditTrail:          "Intent → Cart → Payment chain verified",
	}

	recorded, fresh := a.ledger.Record(conf)
	if !fresh {
		// A concurrent submission of the same mandate settled first.
		return recorded, nil
	}

	a.logger.Info("payment authorized",
		"transaction_id", conf.TransactionID,
		"amount_usd", total,
		"auth_code", conf.AuthorizationCode,
		"liability", conf.LiabilityAssignment)
	return conf, nil
}

// GetTransaction returns the settlement for a transaction id.
func (a *Agent) GetTransaction(txnID string) (*mandate.PaymentConfirmation, bool) {
	return a.ledger.ByTransaction(txnID)
}

// bookingReferences mints one PNR for the whole flight group and one
// confirmation per hotel and activity item.
func bookingReferences(items []mandate.LineItem) []mandate.BookingReference {
	var refs []mandate.BookingReference

	var firstFlight *mandate.LineItem
	for i := range items {
		if items[i].ItemType == mandate.ItemFlight {
			firstFlight = &items[i]
			break
		}
	}
	if firstFlight != nil {
		refs = append(refs, mandate.BookingReference{
			ItemType:           mandate.ItemFlight,
			PNR:                NewPNR("EK"),
			ConfirmationNumber: NewConfirmationNumber("FL"),
			Provider:           detailString(firstFlight.Details, "airline", "Airline"),
		})
	}

	for _, item := range items {
		switch item.ItemType {
		case mandate.ItemHotel:
			refs = append(refs, mandate.BookingReference{
				ItemType:           mandate.ItemHotel,
				PNR:                NewPNR("HT"),
				ConfirmationNumber: NewConfirmationNumber("HT"),
				Provider:           detailString(item.Details, "name", "Hotel"),
			})
		case mandate.ItemActivity:
			refs = append(refs, mandate.BookingReference{
				ItemType:           mandate.ItemActivity,
				PNR:                NewPNR("AC"),
				ConfirmationNumber: NewConfirmationNumber("AC"),
				Provider:           detailString(item.Details, "name", "Activity"),
			})
		}
	}
	return refs
}

func detailString(details map[string]any, key, fallback string) string {
	if v, ok := details[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func mandateID(pm *mandate.PaymentMandate) string {
	if pm == nil {
		return ""
	}
	return pm.MandateID
}
