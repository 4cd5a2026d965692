// Package credentials implements the credential provider agent: a simulated
// payment vault that lists tokenized payment methods and mints one-time
// transaction tokens. Raw instrument data never exists anywhere in the
// system; the vault deals exclusively in opaque tokens plus display metadata.
package credentials

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

// SavedMethod is one stored payment instrument, tokenized.
type SavedMethod struct {
	Token       string `json:"token"`
	Type        string `json:"type"`
	Network     string `json:"network"`
	Last4       string `json:"last4"`
	DisplayName string `json:"display_name"`
	IsDefault   bool   `json:"is_default"`
	Expires     string `json:"expires"`
}

// Tokenization is a one-time transaction token bound to an amount.
type Tokenization struct {
	TransactionToken string                `json:"transaction_token"`
	OriginalToken    string                `json:"original_token"`
	PaymentMethod    mandate.PaymentMethod `json:"payment_method"`
	DeviceSignature  string                `json:"device_signature"`
	TokenURL         string                `json:"token_url"`
	IssuedAt         string                `json:"issued_at"`
	AmountUSD        float64               `json:"amount_usd"`
}

// Agent is the credential vault.
type Agent struct {
	agentID string
	baseURL string
	signer  *signing.Signer
	logger  *slog.Logger

	mu    sync.RWMutex
	vault map[string][]SavedMethod
}

// NewAgent creates a vault seeded with the demo user's saved cards.
func NewAgent(agentID, baseURL string, signer *signing.Signer, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		agentID: agentID,
		baseURL: baseURL,
		signer:  signer,
		logger:  logger,
		vault: map[string][]SavedMethod{
			"demo_user": {
				{Token: "tok_visa_4242", Type: "CARD", Network: "Visa", Last4: "4242", DisplayName: "Visa ending in 4242", IsDefault: true, Expires: "12/28"},
				{Token: "tok_mc_5555", Type: "CARD", Network: "Mastercard", Last4: "5555", DisplayName: "Mastercard ending in 5555", Expires: "03/27"},
				{Token: "tok_amex_1111", Type: "CARD", Network: "Amex", Last4: "1111", DisplayName: "American Express ending in 1111", Expires: "09/26"},
			},
		},
	}
}

// ListMethods returns the user's saved payment methods. Unknown users get
// the demo wallet so the flow always has something to pay with.
func (a *Agent) ListMethods(userID string) []SavedMethod {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if methods, ok := a.vault[userID]; ok {
		return methods
	}
	return a.vault["demo_user"]
}

// ErrUnknownToken is returned when tokenization references a token the vault
// has never issued.
type ErrUnknownToken struct {
	Token string
}

func (e ErrUnknownToken) Error() string {
	return "payment token not found: " + e.Token
}

// Tokenize mints a one-time transaction token for a saved method, signed by
// the user's device key.
func (a *Agent) Tokenize(userID, token string, amountUSD float64) (*Tokenization, error) {
	var selected *SavedMethod
	for _, m := range a.ListMethods(userID) {
		if m.Token == token {
			selected = &m
			break
		}
	}
	if selected == nil {
		a.logger.Warn("tokenization failed", "user_id", userID, "token", token)
		return nil, ErrUnknownToken{Token: token}
	}

	txnToken := "txn_tok_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	deviceSig, err := a.signer.DeviceSignature(userID, txnToken)
	if err != nil {
		return nil, fmt.Errorf("sign transaction token: %w", err)
	}

	a.logger.Info("payment tokenized",
		"user_id", userID,
		"transaction_token", txnToken,
		"amount_usd", amountUSD)

	return &Tokenization{
		TransactionToken: txnToken,
		OriginalToken:    token,
		PaymentMethod: mandate.PaymentMethod{
			Type:    mandate.PaymentMethodType(selected.Type),
			Token:   txnToken,
			Last4:   selected.Last4,
			Network: selected.Network,
		},
		DeviceSignature: deviceSig,
		TokenURL:        a.baseURL + "/tokens/" + txnToken,
		IssuedAt:        mandate.FormatTimestamp(time.Now()),
		AmountUSD:       amountUSD,
	}, nil
}

// ValidateToken reports whether a token has the vault's issuance shape.
func (a *Agent) ValidateToken(token string) bool {
	return strings.HasPrefix(token, "tok_") || strings.HasPrefix(token, "txn_tok_")
}
