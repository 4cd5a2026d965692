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

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

// Client sends AP2 messages to other agents over HTTP/JSON-RPC.
type Client struct {
	agentName  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client identifying itself as agentName on outbound requests.
// A zero timeout disables the client-side deadline; per-call deadlines then
// come from the context. A nil logger gets slog.Default.
func New(agentName string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		agentName:  agentName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SendMessage posts msg to the target agent's A2A endpoint and returns the
// reply message. A JSON-RPC error response is returned as a *protocol.RPCError.
func (c *Client) SendMessage(ctx context.Context, targetURL string, msg *a2a.Message) (*a2a.Message, error) {
	rpcReq := protocol.NewRequest(&a2a.MessageSendParams{Message: msg})

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(protocol.AgentHeader, c.agentName)
	req.Header.Set(protocol.ExtensionHeader, protocol.ExtensionURI)

	start := time.Now()
	c.logger.Info("a2a message sent",
		"from", c.agentName,
		"target", targetURL,
		"method", protocol.MethodMessageSend,
		"message_id", msg.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send to %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", targetURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d: %s", targetURL, resp.StatusCode, respBody)
	}

	var rpcResp protocol.Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("parse response from %s: %w", targetURL, err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	var reply a2a.Message
	if err := json.Unmarshal(rpcResp.Result, &reply); err != nil {
		return nil, fmt.Errorf("decode reply message: %w", err)
	}

	c.logger.Info("a2a response received",
		"from", targetURL,
		"to", c.agentName,
		"duration_ms", time.Since(start).Milliseconds())
	return &reply, nil
}

// SendMandates builds a mandate-bearing message and sends it in one call.
func (c *Client) SendMandates(ctx context.Context, targetURL, text string, mandates map[mandate.Type]any) (*a2a.Message, error) {
	msg, err := protocol.NewMandateMessage(a2a.MessageRoleAgent, text, mandates)
	if err != nil {
		return nil, err
	}
	return c.SendMessage(ctx, targetURL, msg)
}

// SendData sends a message with a single keyed data part, for non-mandate
// exchanges such as payment method queries.
func (c *Client) SendData(ctx context.Context, targetURL, text string, data map[string]any) (*a2a.Message, error) {
	var parts []a2a.Part
	if text != "" {
		parts = append(parts, &a2a.TextPart{Text: text})
	}
	if len(data) > 0 {
		parts = append(parts, &a2a.DataPart{Data: data})
	}
	msg := a2a.NewMessage(a2a.MessageRoleAgent, parts...)
	return c.SendMessage(ctx, targetURL, msg)
}

// GetAgentCard fetches the agent card from the well-known endpoint.
func (c *Client) GetAgentCard(ctx context.Context, baseURL string) (*a2a.AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/.well-known/agent.json", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(protocol.AgentHeader, c.agentName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent card endpoint returned HTTP %d", resp.StatusCode)
	}

	var card a2a.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}
	return &card, nil
}

// HealthCheck probes the agent's health endpoint.
func (c *Client) HealthCheck(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned HTTP %d", resp.StatusCode)
	}
	return nil
}
