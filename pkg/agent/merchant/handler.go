package merchant

import (
	"context"
	"errors"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// QuoteKey is the data part key carrying the merchant's quote reply.
const QuoteKey = "merchant_quote"

// QuoteResponse is the payload of a quote reply.
type QuoteResponse struct {
	Packages         []catalog.TravelPackage `json:"packages"`
	MerchantID       string                  `json:"merchant_id"`
	MerchantName     string                  `json:"merchant_name"`
	MerchantAgentURL string                  `json:"merchant_agent_url"`
	IntentMandateID  string                  `json:"intent_mandate_id"`
}

// HandleMessage implements the agent's A2A entry point: it expects an
// IntentMandate and replies with priced packages.
func (a *Agent) HandleMessage(ctx context.Context, msg *a2a.Message) (*a2a.Message, error) {
	var intent mandate.IntentMandate
	if err := protocol.ExtractMandate(msg, mandate.TypeIntent, &intent); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No IntentMandate found in message"}
	}

	packages, err := a.Quote(ctx, &intent)
	if err != nil {
		var rejected ErrRejectedIntent
		if errors.As(err, &rejected) {
			return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: rejected.Error()}
		}
		return nil, err
	}

	reply, err := protocol.NewMandateMessage(a2a.MessageRoleAgent,
		fmt.Sprintf("Found %d travel packages", len(packages)), nil)
	if err != nil {
		return nil, err
	}
	reply.Parts = append(reply.Parts, &a2a.DataPart{Data: map[string]any{
		QuoteKey: QuoteResponse{
			Packages:         packages,
			MerchantID:       a.merchantID,
			MerchantName:     a.merchantName,
			MerchantAgentURL: a.merchantURL,
			IntentMandateID:  intent.MandateID,
		},
	}})
	return reply, nil
}
