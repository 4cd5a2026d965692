package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// Data part keys used in payment replies.
const (
	ResultKey = "payment_result"
)

// Result is the payload of a payment reply.
type Result struct {
	Success          bool                         `json:"success"`
	Confirmation     *mandate.PaymentConfirmation `json:"confirmation,omitempty"`
	Error            string                       `json:"error,omitempty"`
	ValidationErrors []string                     `json:"validation_errors,omitempty"`
}

// HandleMessage implements the agent's A2A entry point. The message must
// carry all three mandates; a missing mandate is an invalid request. A
// declined payment is a successful protocol exchange with a failure payload,
// not a JSON-RPC error.
func (a *Agent) HandleMessage(ctx context.Context, msg *a2a.Message) (*a2a.Message, error) {
	var pm mandate.PaymentMandate
	if err := protocol.ExtractMandate(msg, mandate.TypePayment, &pm); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No PaymentMandate found in message"}
	}
	var cart mandate.CartMandate
	if err := protocol.ExtractMandate(msg, mandate.TypeCart, &cart); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No CartMandate found in message"}
	}
	var intent mandate.IntentMandate
	if err := protocol.ExtractMandate(msg, mandate.TypeIntent, &intent); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No IntentMandate found in message"}
	}

	conf, err := a.ProcessPayment(ctx, &pm, &cart, &intent)
	if err != nil {
		var declined *ErrDeclined
		if errors.As(err, &declined) {
			return replyWithResult("Payment failed: "+declined.Error(), Result{
				Success:          false,
				Error:            declined.Error(),
				ValidationErrors: declined.Reasons,
			})
		}
		return nil, err
	}

	return replyWithResult("Payment processed successfully", Result{
		Success:      true,
		Confirmation: conf,
	})
}

func replyWithResult(text string, result Result) (*a2a.Message, error) {
	msg, err := protocol.NewMandateMessage(a2a.MessageRoleAgent, text, nil)
	if err != nil {
		return nil, fmt.Errorf("build reply: %w", err)
	}
	msg.Parts = append(msg.Parts, &a2a.DataPart{Data: map[string]any{ResultKey: result}})
	return msg, nil
}
