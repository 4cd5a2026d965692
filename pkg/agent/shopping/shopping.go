// Package shopping implements the user-facing orchestrator agent. It walks
// one checkout through the whole mandate chain: mint and sign the
// IntentMandate, collect the merchant's quote, build the double-signed
// CartMandate, and submit the three-mandate bundle for settlement.
package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voyagerlabs/ap2-go/pkg/agent/credentials"
	"github.com/voyagerlabs/ap2-go/pkg/agent/merchant"
	"github.com/voyagerlabs/ap2-go/pkg/agent/payment"
	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/client"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
	"github.com/voyagerlabs/ap2-go/pkg/store"
)

// Endpoints are the peer agents' JSON-RPC endpoints.
type Endpoints struct {
	MerchantURL    string
	CredentialsURL string
	PaymentURL     string
}

// CheckoutDetails is the billing contact collected before cart creation.
type CheckoutDetails struct {
	Email   string
	Name    string
	Address string
}

// Agent is the shopping orchestrator.
type Agent struct {
	agentID   string
	endpoints Endpoints
	client    *client.Client
	signer    *signing.Signer
	sessions  store.SessionStore
	ttl       time.Duration
	logger    *slog.Logger
}

// NewAgent creates a shopping agent. ttl bounds the intent mandates it mints;
// zero means the default 30 minutes.
func NewAgent(agentID string, endpoints Endpoints, c *client.Client, signer *signing.Signer, sessions store.SessionStore, ttl time.Duration, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		agentID:   agentID,
		endpoints: endpoints,
		client:    c,
		signer:    signer,
		sessions:  sessions,
		ttl:       ttl,
		logger:    logger,
	}
}

// ErrNoSession is returned for an unknown session id.
type ErrNoSession struct {
	SessionID string
}

func (e ErrNoSession) Error() string {
	return "session not found: " + e.SessionID
}

// CreateIntentMandate mints and signs an IntentMandate for the user's request
// and opens a checkout session around it.
func (a *Agent) CreateIntentMandate(userID, description string, intent mandate.ShoppingIntent) (*store.Session, error) {
	im, err := mandate.NewIntentMandate(userID, description, intent, a.ttl)
	if err != nil {
		return nil, err
	}

	sig, err := a.signer.SignMandate(im)
	if err != nil {
		return nil, fmt.Errorf("sign intent mandate: %w", err)
	}
	im.Signature = sig

	session := &store.Session{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		Intent:         im,
		SelectedOption: -1,
	}
	a.sessions.Put(session)

	a.logger.Info("intent mandate created",
		"session_id", session.SessionID,
		"intent_mandate_id", im.MandateID,
		"destination", intent.Destination,
		"budget_usd", intent.BudgetUSD)
	return session, nil
}

// SubmitIntent sends the session's IntentMandate to the merchant and stores
// the returned packages on the session.
func (a *Agent) SubmitIntent(ctx context.Context, sessionID string) ([]catalog.TravelPackage, error) {
	session, ok := a.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession{SessionID: sessionID}
	}

	reply, err := a.client.SendMandates(ctx, a.endpoints.MerchantURL,
		"Requesting travel packages",
		map[mandate.Type]any{mandate.TypeIntent: session.Intent})
	if err != nil {
		return nil, fmt.Errorf("submit intent to merchant: %w", err)
	}

	var quote merchant.QuoteResponse
	if err := protocol.ExtractData(reply, merchant.QuoteKey, &quote); err != nil {
		return nil, fmt.Errorf("merchant returned no quote: %w", err)
	}

	session.Packages = quote.Packages
	session.Merchant = mandate.Payee{
		MerchantID:       quote.MerchantID,
		MerchantName:     quote.MerchantName,
		MerchantAgentURL: quote.MerchantAgentURL,
	}
	a.sessions.Put(session)

	a.logger.Info("merchant quote received",
		"session_id", sessionID,
		"packages", len(quote.Packages))
	return quote.Packages, nil
}

// GetPaymentMethods lists the user's tokenized payment methods from the
// credential provider.
func (a *Agent) GetPaymentMethods(ctx context.Context, sessionID string) ([]credentials.SavedMethod, error) {
	session, ok := a.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession{SessionID: sessionID}
	}

	reply, err := a.client.SendData(ctx, a.endpoints.CredentialsURL,
		"List available payment methods",
		map[string]any{credentials.RequestKey: credentials.Request{UserID: session.UserID}})
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	var methods []credentials.SavedMethod
	if err := protocol.ExtractData(reply, credentials.MethodsKey, &methods); err != nil {
		return nil, fmt.Errorf("credential provider returned no methods: %w", err)
	}
	return methods, nil
}

// BuildCart turns the selected package into a signed CartMandate. The chosen
// payment method is exchanged for a one-time transaction token first, so the
// cart never carries a reusable credential.
func (a *Agent) BuildCart(ctx context.Context, sessionID string, packageIndex int, checkout CheckoutDetails, method credentials.SavedMethod) (*mandate.CartMandate, error) {
	session, ok := a.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession{SessionID: sessionID}
	}
	if packageIndex < 0 || packageIndex >= len(session.Packages) {
		return nil, fmt.Errorf("package index %d out of range (%d packages)", packageIndex, len(session.Packages))
	}

	selected := session.Packages[packageIndex]
	items := selected.LineItems()

	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalUSD
	}
	amounts := mandate.ComputeAmounts(subtotal)

	tok, err := a.tokenize(ctx, session.UserID, method.Token, amounts.TotalUSD)
	if err != nil {
		return nil, err
	}

	payer := mandate.Payer{
		UserID:                session.UserID,
		Email:                 checkout.Email,
		DisplayName:           checkout.Name,
		CredentialProviderURL: baseURL(a.endpoints.CredentialsURL),
	}
	shipping := mandate.ShippingDetails{
		BillingEmail:   checkout.Email,
		BillingAddress: map[string]string{"address": checkout.Address},
	}

	cart, err := mandate.NewCartMandate(session.Intent.MandateID, payer, session.Merchant, items, tok.PaymentMethod, shipping, amounts)
	if err != nil {
		return nil, err
	}

	hash, err := signing.HashCart(items)
	if err != nil {
		return nil, fmt.Errorf("hash cart: %w", err)
	}
	cart.CartHash = hash

	riskToken, err := a.signer.RiskToken(session.UserID, amounts.TotalUSD, sessionID)
	if err != nil {
		return nil, fmt.Errorf("mint risk token: %w", err)
	}
	cart.RiskPayload = riskToken

	userSig, err := a.signer.DeviceSignature(session.UserID, cart.MandateID)
	if err != nil {
		return nil, fmt.Errorf("sign cart (user device): %w", err)
	}
	cart.UserSignature = userSig

	merchantSig, err := a.signer.MerchantSignature(session.Merchant.MerchantID, cart.CartHash)
	if err != nil {
		return nil, fmt.Errorf("sign cart (merchant): %w", err)
	}
	cart.MerchantSignature = merchantSig

	session.Cart = cart
	session.SelectedOption = packageIndex
	a.sessions.Put(session)

	a.logger.Info("cart mandate created",
		"session_id", sessionID,
		"cart_mandate_id", cart.MandateID,
		"tier", selected.Tier,
		"total_usd", amounts.TotalUSD)
	return cart, nil
}

// SubmitPayment builds the PaymentMandate and submits the full chain for
// settlement. On approval the confirmation is stored on the session.
func (a *Agent) SubmitPayment(ctx context.Context, sessionID string) (*mandate.PaymentConfirmation, error) {
	session, ok := a.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession{SessionID: sessionID}
	}
	if session.Cart == nil {
		return nil, fmt.Errorf("session %s has no cart mandate", sessionID)
	}

	cart := session.Cart
	now := time.Now()
	userAuth, err := signing.UserAuthorization(session.UserID, cart.MandateID, cart.Amounts.TotalUSD, now)
	if err != nil {
		return nil, fmt.Errorf("compute user authorization: %w", err)
	}

	details := mandate.PaymentDetails{
		PaymentID:        mandate.NewPaymentID(),
		MethodName:       string(cart.PaymentMethod.Type),
		TokenURL:         baseURL(a.endpoints.CredentialsURL) + "/tokens/" + cart.PaymentMethod.Token,
		Total:            cart.Amounts,
		RefundPeriodDays: cart.RefundPolicy.RefundPeriodDays,
	}
	signals := mandate.IssuerSignals{SessionID: uuid.NewString()}

	pm, err := mandate.NewPaymentMandate(cart.MandateID, session.Intent.MandateID, a.agentID, mandate.HumanPresent, details, signals)
	if err != nil {
		return nil, err
	}
	pm.UserAuthorization = userAuth

	session.Payment = pm
	a.sessions.Put(session)
	a.logger.Info("payment mandate created",
		"session_id", sessionID,
		"payment_mandate_id", pm.MandateID)

	reply, err := a.client.SendMandates(ctx, a.endpoints.PaymentURL,
		"Process payment",
		map[mandate.Type]any{
			mandate.TypePayment: pm,
			mandate.TypeCart:    cart,
			mandate.TypeIntent:  session.Intent,
		})
	if err != nil {
		return nil, fmt.Errorf("submit payment: %w", err)
	}

	var result payment.Result
	if err := protocol.ExtractData(reply, payment.ResultKey, &result); err != nil {
		return nil, fmt.Errorf("payment agent returned no result: %w", err)
	}
	if !result.Success {
		return nil, &payment.ErrDeclined{Reasons: declineReasons(result)}
	}

	session.Confirmation = result.Confirmation
	a.sessions.Put(session)

	a.logger.Info("payment confirmed",
		"session_id", sessionID,
		"transaction_id", result.Confirmation.TransactionID,
		"status", result.Confirmation.Status)
	return result.Confirmation, nil
}

// Session exposes the session store for callers that render checkout state.
func (a *Agent) Session(sessionID string) (*store.Session, bool) {
	return a.sessions.Get(sessionID)
}

func (a *Agent) tokenize(ctx context.Context, userID, token string, amountUSD float64) (*credentials.Tokenization, error) {
	reply, err := a.client.SendData(ctx, a.endpoints.CredentialsURL,
		"Tokenize payment",
		map[string]any{credentials.RequestKey: credentials.Request{
			UserID:       userID,
			PaymentToken: token,
			AmountUSD:    amountUSD,
		}})
	if err != nil {
		return nil, fmt.Errorf("tokenize payment: %w", err)
	}

	var tok credentials.Tokenization
	if err := protocol.ExtractData(reply, credentials.TokenizationKey, &tok); err != nil {
		return nil, fmt.Errorf("credential provider returned no tokenization: %w", err)
	}
	return &tok, nil
}

func declineReasons(result payment.Result) []string {
	if len(result.ValidationErrors) > 0 {
		return result.ValidationErrors
	}
	if result.Error != "" {
		return []string{result.Error}
	}
	return []string{"payment declined"}
}

// baseURL strips the /a2a/<agent> suffix from an endpoint URL.
func baseURL(endpoint string) string {
	if idx := strings.Index(endpoint, "/a2a/"); idx != -1 {
		return endpoint[:idx]
	}
	return endpoint
}
