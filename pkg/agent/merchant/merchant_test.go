package merchant

import (
	"context"
	"testing"
	"time"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

func newTestAgent() (*Agent, *signing.Signer) {
	signer := signing.NewSigner(signing.NewStaticKeyRegistry("test-secret"))
	agent := NewAgent("m1", "Test Merchant", "http://localhost:8001/a2a/merchant",
		catalog.NewStaticGenerator(), signer, nil)
	return agent, signer
}

func newIntent(t *testing.T, ttl time.Duration) *mandate.IntentMandate {
	t.Helper()
	im, err := mandate.NewIntentMandate("demo_user", "trip to Dubai",
		mandate.ShoppingIntent{Destination: "Dubai", BudgetUSD: 8000, Travelers: 2}, ttl)
	require.NoError(t, err)
	return im
}

func TestQuote_SignsEveryPackage(t *testing.T) {
	agent, _ := newTestAgent()

	packages, err := agent.Quote(context.Background(), newIntent(t, 30*time.Minute))
	require.NoError(t, err)
	require.Len(t, packages, 3)

	for _, pkg := range packages {
		assert.Regexp(t, `^[0-9a-f]{64}$`, pkg.MerchantSignature, pkg.Tier)
	}
}

func TestQuote_RejectsExpiredIntent(t *testing.T) {
	agent, _ := newTestAgent()

	intent := newIntent(t, 30*time.Minute)
	intent.ExpiresAt = mandate.FormatTimestamp(time.Now().Add(-time.Minute))

	_, err := agent.Quote(context.Background(), intent)
	var rejected ErrRejectedIntent
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "mandate has expired", rejected.Reason)
}

func TestQuote_RejectsMissingMandateID(t *testing.T) {
	agent, _ := newTestAgent()

	_, err := agent.Quote(context.Background(), &mandate.IntentMandate{})
	var rejected ErrRejectedIntent
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "missing mandate_id", rejected.Reason)
}

func TestHandleMessage(t *testing.T) {
	agent, _ := newTestAgent()

	t.Run("quote_reply", func(t *testing.T) {
		intent := newIntent(t, 30*time.Minute)
		msg, err := protocol.NewMandateMessage(a2a.MessageRoleUser, "find me a trip",
			map[mandate.Type]any{mandate.TypeIntent: intent})
		require.NoError(t, err)

		reply, err := agent.HandleMessage(context.Background(), msg)
		require.NoError(t, err)

		var quote QuoteResponse
		require.NoError(t, protocol.ExtractData(reply, QuoteKey, &quote))
		assert.Len(t, quote.Packages, 3)
		assert.Equal(t, "m1", quote.MerchantID)
		assert.Equal(t, intent.MandateID, quote.IntentMandateID)
	})

	t.Run("missing_intent", func(t *testing.T) {
		msg := a2a.NewMessage(a2a.MessageRoleUser, &a2a.TextPart{Text: "no mandate"})
		_, err := agent.HandleMessage(context.Background(), msg)

		var rpcErr *protocol.RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, protocol.CodeInvalidRequest, rpcErr.Code)
		assert.Equal(t, "No IntentMandate found in message", rpcErr.Message)
	})

	t.Run("expired_intent_is_invalid_request", func(t *testing.T) {
		intent := newIntent(t, 30*time.Minute)
		intent.ExpiresAt = mandate.FormatTimestamp(time.Now().Add(-time.Minute))

		msg, err := protocol.NewMandateMessage(a2a.MessageRoleUser, "find me a trip",
			map[mandate.Type]any{mandate.TypeIntent: intent})
		require.NoError(t, err)

		_, err = agent.HandleMessage(context.Background(), msg)
		var rpcErr *protocol.RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, protocol.CodeInvalidRequest, rpcErr.Code)
	})
}
