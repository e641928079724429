package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tusk/internal/crypto"
	"tusk/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
)

// Network names recorded in the key file; they match the provider that
// understands the key.
const (
	NetworkLedger = "ledger"
	NetworkSolana = "solana"
)

// GenerateKeyFile generates a new signing keypair and saves it to a .tusk
// file. The address derivation depends on the target network: blake2b hex
// for the ledger provider, base58 for Solana.
// Returns the generated account address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateKeyFile(filePath, network string, password []byte) (address string, err error) {
	if ext := filepath.Ext(filePath); ext != ".tusk" {
		return "", fmt.Errorf("file must have .tusk extension")
	}

	if fileInfo, statErr := os.Stat(filePath); statErr == nil && fileInfo.Size() > 0 {
		return "", ErrKeyFileExists
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate keypair: %w", err)
	}
	defer clear(priv)

	switch network {
	case NetworkLedger:
		address = AddressFromPublicKey(pub)
	case NetworkSolana:
		address = solana.PrivateKey(priv).PublicKey().String()
	default:
		return "", fmt.Errorf("unknown network %q", network)
	}

	// QR code of the address, embedded in the key file for receive flows
	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	keyData := &model.KeyData{
		PrivateKey: priv,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptKeyFile(filePath, network, address, qrCode, keyData, password); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrKeyFileExists
		}
		return "", fmt.Errorf("failed to encrypt key file: %w", err)
	}

	return address, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
