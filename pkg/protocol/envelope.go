// Copyright (C) 2025 Voyager Labs
//
// This file is part of ap2-go.
//
// ap2-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ap2-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ap2-go.  If not, see <https://www.gnu.org/licenses/>.

package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/google/uuid"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// ExtensionURI activates the AP2 extension on an A2A exchange. Both the
// X-A2A-Extensions header and the agent card extension list carry it.
const ExtensionURI = "https://github.com/google-agentic-commerce/ap2/v1"

// HTTP headers used on every agent-to-agent request.
const (
	ExtensionHeader = "X-A2A-Extensions"
	AgentHeader     = "X-A2A-Agent"
)

// MethodMessageSend is the only JSON-RPC method AP2 agents accept.
const MethodMessageSend = "message/send"

// mandateKeyPrefix namespaces mandate entries inside a data part.
const mandateKeyPrefix = "ap2.mandates."

// JSON-RPC 2.0 error codes used by agent servers.
const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request carrying an A2A message/send call.
type Request struct {
	JSONRPC string                 `json:"jsonrpc"`
	Method  string                 `json:"method"`
	Params  *a2a.MessageSendParams `json:"params,omitempty"`
	ID      string                 `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      string          `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// NewRequest wraps params in a blocking message/send request with a fresh id.
func NewRequest(params *a2a.MessageSendParams) *Request {
	if params.Config == nil {
		params.Config = &a2a.MessageSendConfig{
			Blocking:            true,
			AcceptedOutputModes: []string{"application/json"},
		}
	}
	return &Request{
		JSONRPC: "2.0",
		Method:  MethodMessageSend,
		Params:  params,
		ID:      uuid.NewString(),
	}
}

// NewResult marshals result into a success response for the given request id.
func NewResult(id string, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{JSONRPC: "2.0", Result: raw, ID: id}, nil
}

// NewError builds an error response for the given request id.
func NewError(id string, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		Error:   &RPCError{Code: code, Message: message},
		ID:      id,
	}
}

// NewMandateMessage builds an A2A message with an optional text part followed
// by one data part holding the given mandates under their namespaced keys.
// Mandate values are flattened to plain JSON objects so the data part matches
// the wire format regardless of the caller's concrete types.
func NewMandateMessage(role a2a.MessageRole, text string, mandates map[mandate.Type]any) (*a2a.Message, error) {
	var parts []a2a.Part
	if text != "" {
		parts = append(parts, &a2a.TextPart{Text: text})
	}
	if len(mandates) > 0 {
		data := make(map[string]any, len(mandates))
		for typ, m := range mandates {
			obj, err := toObject(m)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", typ, err)
			}
			data[mandateKeyPrefix+string(typ)] = obj
		}
		parts = append(parts, &a2a.DataPart{Data: data})
	}

	msg := a2a.NewMessage(role, parts...)
	msg.ID = uuid.NewString()
	return msg, nil
}

// ErrMandateNotFound is returned when a message carries no data part entry for
// the requested mandate type.
type ErrMandateNotFound struct {
	Type mandate.Type
}

func (e ErrMandateNotFound) Error() string {
	return fmt.Sprintf("no %s found in message data parts", e.Type)
}

// ExtractMandate finds the mandate of the given type in msg's data parts and
// decodes it into out, which must be a pointer to the matching mandate struct.
func ExtractMandate(msg *a2a.Message, typ mandate.Type, out any) error {
	raw, ok := findMandate(msg, typ)
	if !ok {
		return ErrMandateNotFound{Type: typ}
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encode %s: %w", typ, err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("decode %s: %w", typ, err)
	}
	return nil
}

// HasMandate reports whether msg carries a mandate of the given type.
func HasMandate(msg *a2a.Message, typ mandate.Type) bool {
	_, ok := findMandate(msg, typ)
	return ok
}

// ExtractData returns the first data part entry under key, searching all data
// parts in order. Used for non-mandate payloads such as queries and receipts.
func ExtractData(msg *a2a.Message, key string, out any) error {
	for _, part := range msg.Parts {
		data, ok := partData(part)
		if !ok {
			continue
		}
		raw, ok := data[key]
		if !ok {
			continue
		}
		buf, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("re-encode %q: %w", key, err)
		}
		return json.Unmarshal(buf, out)
	}
	return fmt.Errorf("no %q found in message data parts", key)
}

// TextContent concatenates the text parts of msg, newline separated.
func TextContent(msg *a2a.Message) string {
	var text string
	for _, part := range msg.Parts {
		tp, ok := partText(part)
		if !ok {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += tp
	}
	return text
}

func findMandate(msg *a2a.Message, typ mandate.Type) (any, bool) {
	if msg == nil {
		return nil, false
	}
	key := mandateKeyPrefix + string(typ)
	for _, part := range msg.Parts {
		if data, ok := partData(part); ok {
			if raw, ok := data[key]; ok {
				return raw, true
			}
		}
	}
	return nil, false
}

// partData unwraps a data part. Messages built locally carry pointer parts;
// messages decoded from the wire carry value parts, so both forms match.
func partData(part a2a.Part) (map[string]any, bool) {
	switch p := part.(type) {
	case *a2a.DataPart:
		return p.Data, true
	case a2a.DataPart:
		return p.Data, true
	}
	return nil, false
}

// partText unwraps a text part in either pointer or value form.
func partText(part a2a.Part) (string, bool) {
	switch p := part.(type) {
	case *a2a.TextPart:
		return p.Text, true
	case a2a.TextPart:
		return p.Text, true
	}
	return "", false
}

// toObject flattens a typed struct into the generic map form data parts use.
func toObject(v any) (map[string]any, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(buf, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
