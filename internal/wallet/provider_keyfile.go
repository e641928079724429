package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"tusk/internal/client"
	"tusk/internal/crypto"
	"tusk/internal/model"

	"golang.org/x/crypto/blake2b"
)

// KeyfileProvider signs marketplace calls with the ed25519 key held in the
// local encrypted key file and submits them through the ledger gateway.
// The key is decrypted per operation and wiped immediately after use.
type KeyfileProvider struct {
	filePath string
	ledger   *client.LedgerClient
	password func() ([]byte, error)
}

// NewKeyfileProvider creates a key-file backed signing provider.
// password supplies the key-file password (normally config.GetWalletPasswordBytes).
func NewKeyfileProvider(filePath string, ledger *client.LedgerClient, password func() ([]byte, error)) *KeyfileProvider {
	return &KeyfileProvider{
		filePath: filePath,
		ledger:   ledger,
		password: password,
	}
}

// Connect verifies the password against the key file and derives the
// account address from the stored public key.
func (p *KeyfileProvider) Connect(_ context.Context) (string, error) {
	priv, err := p.loadKey()
	if err != nil {
		return "", err
	}
	defer clear(priv)

	address := AddressFromPublicKey(priv.Public().(ed25519.PublicKey))

	// The file records the address it was generated with; a mismatch means
	// the file was tampered with or belongs to a different network.
	stored, err := crypto.ReadKeyFileAddress(p.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read key file address: %w", err)
	}
	if stored != "" && stored != address {
		return "", fmt.Errorf("key file address mismatch: file has %s, key derives %s", stored, address)
	}

	return address, nil
}

// Disconnect holds no session state; the key never leaves the file.
func (p *KeyfileProvider) Disconnect() {}

// SignAndExecute signs the canonical encoding of the request and submits it
// to the ledger gateway, blocking until the terminal result.
func (p *KeyfileProvider) SignAndExecute(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error) {
	priv, err := p.loadKey()
	if err != nil {
		return nil, err
	}
	defer clear(priv)

	canonical, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call for signing: %w", err)
	}

	signature := ed25519.Sign(priv, canonical)
	pub := priv.Public().(ed25519.PublicKey)

	// Signer is derived from the key itself, not from connection state, so
	// there is no shared field for concurrent requests to race on.
	env := &client.CallEnvelope{
		Signer:    AddressFromPublicKey(pub),
		Request:   *req,
		Signature: base64.StdEncoding.EncodeToString(signature),
		PublicKey: base64.StdEncoding.EncodeToString(pub),
	}

	return p.ledger.ExecuteCall(ctx, env)
}

// loadKey decrypts the key file and returns the private key.
// Caller must clear the returned slice.
func (p *KeyfileProvider) loadKey() (ed25519.PrivateKey, error) {
	passwordBytes, err := p.password()
	if err != nil {
		return nil, err
	}
	defer clear(passwordBytes)

	_, keyData, err := crypto.DecryptKeyFile(p.filePath, passwordBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key file: %w", err)
	}

	if len(keyData.PrivateKey) != ed25519.PrivateKeySize {
		clear(keyData.PrivateKey)
		return nil, fmt.Errorf("invalid private key length: expected %d bytes", ed25519.PrivateKeySize)
	}

	return ed25519.PrivateKey(keyData.PrivateKey), nil
}

// AddressFromPublicKey derives the on-ledger account address for an ed25519
// public key: 0x-prefixed hex of the blake2b-256 digest.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(pub)
	return "0x" + hex.EncodeToString(sum[:])
}
