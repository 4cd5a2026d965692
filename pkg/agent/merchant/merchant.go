// Package merchant implements the travel merchant agent: it answers signed
// IntentMandates with three priced, tiered travel packages from the catalog
// generator, each carrying a merchant signature over its cart hash.
package merchant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

// Agent is the merchant catalog agent.
type Agent struct {
	merchantID   string
	merchantName string
	merchantURL  string
	generator    catalog.Generator
	signer       *signing.Signer
	logger       *slog.Logger
}

// NewAgent creates a merchant agent backed by the given package generator.
func NewAgent(merchantID, merchantName, merchantURL string, generator catalog.Generator, signer *signing.Signer, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		merchantID:   merchantID,
		merchantName: merchantName,
		merchantURL:  merchantURL,
		generator:    generator,
		signer:       signer,
		logger:       logger,
	}
}

// ErrRejectedIntent is returned when an intent mandate cannot be quoted.
type ErrRejectedIntent struct {
	Reason string
}

func (e ErrRejectedIntent) Error() string {
	return "intent mandate rejected: " + e.Reason
}

// Quote prices an intent into tiered packages. An expired or structurally
// incomplete intent is rejected, never silently accepted.
func (a *Agent) Quote(ctx context.Context, intent *mandate.IntentMandate) ([]catalog.TravelPackage, error) {
	if intent == nil || intent.MandateID == "" {
		return nil, ErrRejectedIntent{Reason: "missing mandate_id"}
	}
	if intent.Expired(time.Now()) {
		a.logger.Warn("rejecting expired intent mandate",
			"intent_mandate_id", intent.MandateID,
			"expires_at", intent.ExpiresAt)
		return nil, ErrRejectedIntent{Reason: "mandate has expired"}
	}

	q := catalog.QueryFromIntent(intent.ShoppingIntent)
	a.logger.Info("generating travel packages",
		"intent_mandate_id", intent.MandateID,
		"destination", q.Destination,
		"travelers", q.Travelers,
		"budget_usd", q.BudgetUSD)

	packages, err := a.generator.Generate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("generate packages: %w", err)
	}

	for i := range packages {
		if err := a.signPackage(&packages[i]); err != nil {
			return nil, err
		}
	}

	a.logger.Info("travel packages ready",
		"intent_mandate_id", intent.MandateID,
		"count", len(packages))
	return packages, nil
}

// signPackage attests the package pricing: the merchant signs the hash of the
// package's would-be cart line items.
func (a *Agent) signPackage(pkg *catalog.TravelPackage) error {
	hash, err := signing.HashCart(pkg.LineItems())
	if err != nil {
		return fmt.Errorf("hash package %s: %w", pkg.PackageID, err)
	}
	sig, err := a.signer.MerchantSignature(a.merchantID, hash)
	if err != nil {
		return fmt.Errorf("sign package %s: %w", pkg.PackageID, err)
	}
	pkg.MerchantSignature = sig
	return nil
}
