package credentials

import (
	"context"
	"errors"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// Data part keys used on the credentials exchange.
const (
	RequestKey      = "credentials_request"
	MethodsKey      = "payment_methods"
	TokenizationKey = "tokenization"
)

// Request is the inbound payload: a list request when PaymentToken is empty,
// otherwise a tokenization request.
type Request struct {
	UserID       string  `json:"user_id"`
	PaymentToken string  `json:"payment_token,omitempty"`
	AmountUSD    float64 `json:"amount_usd,omitempty"`
}

// HandleMessage implements the agent's A2A entry point.
func (a *Agent) HandleMessage(ctx context.Context, msg *a2a.Message) (*a2a.Message, error) {
	var req Request
	if err := protocol.ExtractData(msg, RequestKey, &req); err != nil {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "No credentials request found in message"}
	}
	if req.UserID == "" {
		return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: "user_id is required"}
	}

	if req.PaymentToken == "" {
		methods := a.ListMethods(req.UserID)
		a.logger.Info("listing payment methods", "user_id", req.UserID, "count", len(methods))
		return dataReply("Available payment methods", MethodsKey, methods)
	}

	tok, err := a.Tokenize(req.UserID, req.PaymentToken, req.AmountUSD)
	if err != nil {
		var unknown ErrUnknownToken
		if errors.As(err, &unknown) {
			return nil, &protocol.RPCError{Code: protocol.CodeInvalidRequest, Message: unknown.Error()}
		}
		return nil, err
	}
	return dataReply("Payment tokenized", TokenizationKey, tok)
}

func dataReply(text, key string, payload any) (*a2a.Message, error) {
	msg, err := protocol.NewMandateMessage(a2a.MessageRoleAgent, text, nil)
	if err != nil {
		return nil, err
	}
	msg.Parts = append(msg.Parts, &a2a.DataPart{Data: map[string]any{key: payload}})
	return msg, nil
}
