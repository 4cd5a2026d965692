// Package config holds the environment-driven settings shared by the four
// agent processes: ports, peer URLs, the demo signing secret, mandate TTL and
// catalog generator settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Agent identifiers used in agent ids, URLs and server routes.
const (
	ShoppingAgentID    = "voyager_shopping_agent"
	MerchantAgentID    = "voyager_merchant_agent"
	CredentialsAgentID = "voyager_credentials_agent"
	PaymentAgentID     = "voyager_payment_agent"

	MerchantID   = "voyager_travel_merchants"
	MerchantName = "Voyager Travel Merchants"
)

// Config is the resolved runtime configuration.
type Config struct {
	ShoppingPort    int
	MerchantPort    int
	CredentialsPort int
	PaymentPort     int

	ShoppingURL    string
	MerchantURL    string
	CredentialsURL string
	PaymentURL     string

	// SigningSecret seeds the per-role HMAC keys. Demo default only; any
	// real deployment must set AP2_SIGNING_SECRET.
	SigningSecret string

	// MandateTTL bounds intent mandate validity.
	MandateTTL time.Duration

	// ProtocolTimeout bounds agent-to-agent calls. GeneratorTimeout is the
	// separate, longer bound for the content generator.
	ProtocolTimeout  time.Duration
	GeneratorTimeout time.Duration

	// Catalog generator settings. An empty GeneratorEndpoint disables the
	// LLM path and uses the deterministic generator directly.
	GeneratorEndpoint string
	GeneratorAPIKey   string
	GeneratorModel    string
}

// Load resolves configuration from the environment, applying demo defaults
// for anything unset.
func Load() *Config {
	cfg := &Config{
		ShoppingPort:      envInt("SHOPPING_AGENT_PORT", 8000),
		MerchantPort:      envInt("MERCHANT_AGENT_PORT", 8001),
		CredentialsPort:   envInt("CREDENTIALS_AGENT_PORT", 8002),
		PaymentPort:       envInt("PAYMENT_AGENT_PORT", 8003),
		SigningSecret:     envStr("AP2_SIGNING_SECRET", "voyager-ap2-demo-secret-2025"),
		MandateTTL:        time.Duration(envInt("AP2_MANDATE_TTL_MINUTES", 30)) * time.Minute,
		ProtocolTimeout:   time.Duration(envInt("AP2_PROTOCOL_TIMEOUT_SECONDS", 30)) * time.Second,
		GeneratorTimeout:  time.Duration(envInt("GENERATOR_TIMEOUT_SECONDS", 300)) * time.Second,
		GeneratorEndpoint: envStr("GENERATOR_ENDPOINT", ""),
		GeneratorAPIKey:   envStr("GENERATOR_API_KEY", ""),
		GeneratorModel:    envStr("GENERATOR_MODEL", "qwen3:8b"),
	}

	cfg.ShoppingURL = envStr("SHOPPING_AGENT_URL", localURL(cfg.ShoppingPort))
	cfg.MerchantURL = envStr("MERCHANT_AGENT_URL", localURL(cfg.MerchantPort))
	cfg.CredentialsURL = envStr("CREDENTIALS_AGENT_URL", localURL(cfg.CredentialsPort))
	cfg.PaymentURL = envStr("PAYMENT_AGENT_URL", localURL(cfg.PaymentPort))

	return cfg
}

// A2AEndpoint returns the JSON-RPC endpoint for an agent at baseURL.
func A2AEndpoint(baseURL, agentName string) string {
	return baseURL + "/a2a/" + agentName
}

func localURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
