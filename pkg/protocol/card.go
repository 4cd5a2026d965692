package protocol

import (
	"github.com/a2aproject/a2a-go/a2a"

	ap2go "github.com/voyagerlabs/ap2-go"
)

// AgentCardBuilder constructs A2A agent cards with the AP2 extension
// pre-declared, using a fluent API.
type AgentCardBuilder struct {
	card *a2a.AgentCard
}

// NewAgentCardBuilder creates a builder for an agent named name reachable at
// url. The card advertises JSON-RPC transport and the AP2 extension.
func NewAgentCardBuilder(name, url string) *AgentCardBuilder {
	return &AgentCardBuilder{
		card: &a2a.AgentCard{
			Name:               name,
			URL:                url,
			Version:            ap2go.Version,
			ProtocolVersion:    ap2go.A2AProtocolVersion,
			PreferredTransport: a2a.TransportProtocolJSONRPC,
			Capabilities: a2a.AgentCapabilities{
				Extensions: []a2a.AgentExtension{
					{URI: ExtensionURI, Description: "Agent Payments Protocol v1", Required: true},
				},
			},
			DefaultInputModes:  []string{"application/json", "text/plain"},
			DefaultOutputModes: []string{"application/json", "text/plain"},
		},
	}
}

// WithDescription adds a description to the card.
func (b *AgentCardBuilder) WithDescription(description string) *AgentCardBuilder {
	b.card.Description = description
	return b
}

// WithSkill appends a skill to the card.
func (b *AgentCardBuilder) WithSkill(id, name, description string, tags ...string) *AgentCardBuilder {
	b.card.Skills = append(b.card.Skills, a2a.AgentSkill{
		ID:          id,
		Name:        name,
		Description: description,
		Tags:        tags,
	})
	return b
}

// Build returns the constructed card.
func (b *AgentCardBuilder) Build() *a2a.AgentCard {
	return b.card
}

// SupportsAP2 reports whether the card declares the AP2 extension.
func SupportsAP2(card *a2a.AgentCard) bool {
	if card == nil {
		return false
	}
	for _, ext := range card.Capabilities.Extensions {
		if ext.URI == ExtensionURI {
			return true
		}
	}
	return false
}

// ValidateAgentCard performs basic validation on an agent card.
func ValidateAgentCard(card *a2a.AgentCard) error {
	if card == nil {
		return ErrInvalidAgentCard{"card is required"}
	}
	if card.Name == "" {
		return ErrInvalidAgentCard{"name is required"}
	}
	if card.URL == "" {
		return ErrInvalidAgentCard{"url is required"}
	}
	if !SupportsAP2(card) {
		return ErrInvalidAgentCard{"AP2 extension is not declared"}
	}
	return nil
}

// ErrInvalidAgentCard is returned when an agent card is invalid.
type ErrInvalidAgentCard struct {
	Message string
}

func (e ErrInvalidAgentCard) Error() string {
	return "invalid agent card: " + e.Message
}
