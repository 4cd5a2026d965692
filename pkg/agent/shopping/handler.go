package shopping

import (
	"context"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// Data part keys on the shopping exchange.
const (
	CheckoutRequestKey = "checkout_request"
	CheckoutResultKey  = "checkout_result"
)

// CheckoutRequest drives one full checkout through the mandate chain.
type CheckoutRequest struct {
	UserID       string                 `json:"user_id"`
	Description  string                 `json:"description"`
	Intent       mandate.ShoppingIntent `json:"shopping_intent"`
	Tier         string                 `json:"tier,omitempty"`
	Email        string                 `json:"email"`
	Name         string                 `json:"name"`
	Address      string                 `json:"address,omitempty"`
	PaymentToken string                 `json:"payment_token,omitempty"`
}

// CheckoutResult reports the settled chain.
type CheckoutResult struct {
	SessionID        string                       `json:"session_id"`
	IntentMandateID  string                       `json:"intent_mandate_id"`
	CartMandateID    string                       `json:"cart_mandate_id"`
	PaymentMandateID string                       `json:"payment_mandate_id"`
	Confirmation     *mandate.PaymentConfirmation `json:"confirmation"`
}

// Checkout runs the whole flow: intent, quote, cart, payment. The tier
// selects the package ("recommended" when empty); an empty payment token
// picks the user's default method.
func (a *Agent) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.UserID == "" {
		req.UserID = "demo_user"
	}
	if req.Tier == "" {
		req.Tier = catalog.TierRecommended
	}

	session, err := a.CreateIntentMandate(req.UserID, req.Description, req.Intent)
	if err != nil {
		return nil, err
	}

	packages, err := a.SubmitIntent(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, pkg := range packages {
		if pkg.Tier == req.Tier {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("merchant offered no %q package", req.Tier)
	}

	methods, err := a.GetPaymentMethods(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("user %s has no saved payment methods", req.UserID)
	}
	method := methods[0]
	for _, m := range methods {
		if req.PaymentToken != "" && m.Token == req.PaymentToken {
			method = m
			break
		}
		if req.PaymentToken == "" && m.IsDefault {
			method = m
		}
	}

	checkout := CheckoutDetails{Email: req.Email, Name: req.Name, Address: req.Address}
	if _, err := a.BuildCart(ctx, session.SessionID, index, checkout, method); err != nil {
		return nil, err
	}

	conf, err := a.SubmitPayment(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}

	session, _ = a.sessions.Get(session.SessionID)
	return &CheckoutResult{
		SessionID:        session.SessionID,
		IntentMandateID:  session.Intent.MandateID,
		CartMandateID:    session.Cart.MandateID,
		PaymentMandateID: session.Payment.MandateID,
		Confirmation:     conf,
	}, nil
}

// HandleMessage implements the agent's A2A entry point: a checkout request
// in, the settled chain out.
func (a *Agent) HandleMessage(ctx context.Context, msg *a2a.Message) (*a2a.Message, error) {
	var req CheckoutRequest
	if err := protocol.ExtractData(msg, CheckoutRequestKey, &req); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No checkout request found in message"}
	}

	result, err := a.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}

	reply, err := protocol.NewMandateMessage(a2a.MessageRoleAgent, "Checkout complete", nil)
	if err != nil {
		return nil, err
	}
	reply.Parts = append(reply.Parts, &a2a.DataPart{Data: map[string]any{CheckoutResultKey: result}})
	return reply, nil
}
