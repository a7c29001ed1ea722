package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/penny/internal/banksync"
	"github.com/MrJamesThe3rd/penny/internal/banksync/plaid"
	"github.com/MrJamesThe3rd/penny/internal/config"
	pennyHttp "github.com/MrJamesThe3rd/penny/internal/http"
	banksyncHandler "github.com/MrJamesThe3rd/penny/internal/http/banksync"
	importHandler "github.com/MrJamesThe3rd/penny/internal/http/importcsv"
	insightHandler "github.com/MrJamesThe3rd/penny/internal/http/insight"
	ledgerHandler "github.com/MrJamesThe3rd/penny/internal/http/ledger"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/insight"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
	"github.com/MrJamesThe3rd/penny/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ledgerStore := store.New(cfg.Store.Path)

	plaidClient := plaid.New(plaid.Config{
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.PlaidSecret(),
		Environment: cfg.Plaid.Environment,
		ClientName:  cfg.App.Name,
		Timeout:     cfg.Server.Timeout,
	})

	var (
		ledgerService   = ledger.NewService(ledgerStore)
		insightService  = insight.NewService(ledgerService)
		banksyncService = banksync.NewService(ledgerStore, plaidClient)
		importService   = importer.NewService()
	)

	var (
		ledgerH   = ledgerHandler.NewHandler(ledgerService)
		insightH  = insightHandler.NewHandler(insightService)
		banksyncH = banksyncHandler.NewHandler(banksyncService)
		importH   = importHandler.NewHandler(importService, ledgerService)
	)

	router := pennyHttp.New(ledgerH, insightH, banksyncH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "ledger", cfg.Store.Path)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
