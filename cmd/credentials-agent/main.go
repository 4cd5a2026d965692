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

	"github.com/voyagerlabs/ap2-go/pkg/agent/credentials"
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

	agent := credentials.NewAgent(config.CredentialsAgentID, cfg.CredentialsURL, signer, logger)

	card := protocol.NewAgentCardBuilder("Voyager Credentials Agent", cfg.CredentialsURL).
		WithDescription("Payment credential vault and tokenizer with AP2 support").
		WithSkill("list_methods", "List payment methods", "Return tokenized payment method references", "credentials", "wallet").
		WithSkill("tokenize", "Tokenize payment", "Mint a one-time transaction token for a saved method", "credentials", "tokens").
		Build()

	srv := server.New(config.CredentialsAgentID, cfg.CredentialsPort, card, agent, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
