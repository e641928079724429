package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the key-file password is prompted at runtime and stored in memory -
// use GetWalletPasswordBytes()
type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	WalletFilePath  string `envconfig:"WALLET_FILE_PATH" required:"true"`
	WalletProvider  string `envconfig:"WALLET_PROVIDER" default:"keyfile"` // "keyfile" or "solana"
	LedgerRPCURL    string `envconfig:"LEDGER_RPC_URL" default:"http://127.0.0.1:9000"`
	PublisherURL    string `envconfig:"WALRUS_PUBLISHER_URL" default:"https://api.walrus.testnet.sui.io"`
	GatewayURL      string `envconfig:"WALRUS_GATEWAY_URL" default:"https://gateway.walrus.testnet.sui.io"`
	GatewayAPIKey   string `envconfig:"WALRUS_API_KEY" default:""`
	IndexerURL      string `envconfig:"INDEXER_URL" default:"http://127.0.0.1:9184"`
	PackageID       string `envconfig:"MARKET_PACKAGE_ID" default:"0xdece5d51dc7abc7ecfd81251e0f624e5255663ef917a6950568d7986b21064cb"`
	GasBudget       uint64 `envconfig:"GAS_BUDGET" default:"10000"`
	SolanaRPCURL    string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	MarketProgramID string `envconfig:"MARKET_PROGRAM_ID" default:""`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

var passwordBytes []byte

// PromptForPassword prompts the user for the key-file password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
