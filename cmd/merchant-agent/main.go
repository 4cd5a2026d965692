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

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voyagerlabs/ap2-go/pkg/agent/merchant"
	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/config"
	"github.com/voyagerlabs/ap2-go/pkg/protocol"
	"github.com/voyagerlabs/ap2-go/pkg/server"
	"github.com/voyagerlabs/ap2-go/pkg/signing"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	signer := signing.NewSigner(signing.NewStaticKeyRegistry(cfg.SigningSecret))

	var generator catalog.Generator = catalog.NewStaticGenerator()
	if cfg.GeneratorEndpoint != "" {
		generator = catalog.NewLLMGenerator(
			cfg.GeneratorEndpoint,
			cfg.GeneratorAPIKey,
			cfg.GeneratorModel,
			cfg.GeneratorTimeout,
			nil,
			logger,
		)
	}

	agent := merchant.NewAgent(config.MerchantID, config.MerchantName, cfg.MerchantURL, generator, signer, logger)

	card := protocol.NewAgentCardBuilder("Voyager Merchant Agent", cfg.MerchantURL).
		WithDescription("Travel catalog and cart builder with AP2 support").
		WithSkill("quote_packages", "Quote travel packages", "Price an IntentMandate into tiered travel packages", "travel", "catalog").
		Build()

	srv := server.New(config.MerchantAgentID, cfg.MerchantPort, card, agent, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
