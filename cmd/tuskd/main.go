package main

import (
	"fmt"
	"net/http"
	"os"

	"tusk/internal/api"
	"tusk/internal/client"
	"tusk/internal/config"
	"tusk/internal/store"
	"tusk/internal/wallet"

	"go.uber.org/zap"
)

// @title        Tusk NFT Marketplace API
// @version      1.0
// @description  Client service for minting, listing and buying NFTs backed by Walrus blob storage
// @BasePath     /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()

	logConfig := zap.NewProductionConfig()
	if os.Getenv("DEBUG") != "" {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := logConfig.Build()
	if err != nil {
		return err
	}
	defer log.Sync()

	// The key-file password lives in memory for the process lifetime; both
	// providers decrypt per operation.
	if err := config.PromptForPassword(); err != nil {
		return err
	}

	provider, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}
	adapter := wallet.NewAdapter(provider, log.Named("wallet"))

	blobs := client.NewWalrusClient(cfg.PublisherURL, cfg.GatewayURL, cfg.GatewayAPIKey, log.Named("walrus"))
	indexer := client.NewIndexerClient(cfg.IndexerURL)
	nftStore := store.New(blobs, adapter, indexer, cfg.PackageID, cfg.GasBudget, log.Named("store"))

	router, err := api.SetupRouter(adapter, nftStore, blobs, log.Named("api"))
	if err != nil {
		return err
	}

	log.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("provider", cfg.WalletProvider))
	return http.ListenAndServe(":"+cfg.Port, router)
}

// buildProvider resolves the configured signing provider. Which provider
// backs the wallet is a deployment choice, not a code path in callers.
func buildProvider(cfg *config.Config, log *zap.Logger) (wallet.Provider, error) {
	switch cfg.WalletProvider {
	case "keyfile":
		ledger := client.NewLedgerClient(cfg.LedgerRPCURL, log.Named("ledger"))
		return wallet.NewKeyfileProvider(cfg.WalletFilePath, ledger, config.GetWalletPasswordBytes), nil
	case "solana":
		return wallet.NewSolanaProvider(cfg.SolanaRPCURL, cfg.MarketProgramID, cfg.WalletFilePath, config.GetWalletPasswordBytes)
	default:
		return nil, fmt.Errorf("unknown wallet provider %q", cfg.WalletProvider)
	}
}
