package wallet

import (
	"context"
	"fmt"
	"time"

	"tusk/internal/crypto"
	"tusk/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaProvider submits marketplace calls as instructions of an on-chain
// marketplace program over Solana RPC. It uses the same encrypted key file
// as the keyfile provider; the stored 64 bytes are a Solana keypair here.
type SolanaProvider struct {
	rpcClient *rpc.Client
	programID solana.PublicKey
	filePath  string
	password  func() ([]byte, error)
}

// NewSolanaProvider creates a Solana-backed signing provider.
func NewSolanaProvider(rpcURL, programID, filePath string, password func() ([]byte, error)) (*SolanaProvider, error) {
	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("invalid marketplace program id: %w", err)
	}

	return &SolanaProvider{
		rpcClient: rpc.New(rpcURL),
		programID: program,
		filePath:  filePath,
		password:  password,
	}, nil
}

// Connect verifies the password and derives the base58 account address.
func (p *SolanaProvider) Connect(_ context.Context) (string, error) {
	key, err := p.loadKeypair()
	if err != nil {
		return "", err
	}
	defer clear(key)

	return key.PublicKey().String(), nil
}

// Disconnect holds nothing remote, so there is nothing to release.
func (p *SolanaProvider) Disconnect() {}

// marketplaceCall is the borsh-encoded instruction payload understood by the
// marketplace program.
type marketplaceCall struct {
	Module    string
	Function  string
	Arguments []string
	GasBudget uint64
}

// SignAndExecute builds a marketplace program instruction for the call,
// signs and sends it, then polls until the network reports a terminal state.
func (p *SolanaProvider) SignAndExecute(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error) {
	wallet, err := p.loadKeypair()
	if err != nil {
		return nil, err
	}
	defer clear(wallet)

	data, err := bin.MarshalBorsh(&marketplaceCall{
		Module:    req.Module,
		Function:  req.Function,
		Arguments: req.Arguments,
		GasBudget: req.GasBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction data: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(wallet.PublicKey(), true, true),
	}
	signers := []solana.PrivateKey{wallet}

	// Mint calls create a fresh object account; its pubkey becomes the new
	// object identifier. Other calls reference an existing object by id.
	var created []model.ObjectRef
	if req.Function == "mint_to_sender" {
		objectAccount := solana.NewWallet()
		accounts = append(accounts, solana.NewAccountMeta(objectAccount.PublicKey(), true, true))
		signers = append(signers, objectAccount.PrivateKey)
		created = []model.ObjectRef{{ObjectID: objectAccount.PublicKey().String()}}
	} else if len(req.Arguments) > 0 {
		objectPubkey, err := solana.PublicKeyFromBase58(req.Arguments[0])
		if err != nil {
			return nil, fmt.Errorf("invalid object id %q: %w", req.Arguments[0], err)
		}
		accounts = append(accounts, solana.NewAccountMeta(objectPubkey, true, false))
	}

	instruction := solana.NewInstruction(p.programID, accounts, data)

	recent, err := p.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(wallet.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := p.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := p.awaitFinalized(ctx, sig); err != nil {
		return nil, err
	}

	return &model.TransactionResult{
		Digest:  sig.String(),
		Created: created,
	}, nil
}

// awaitFinalized polls signature status until the network reports a terminal
// state. No resubmission; a single transaction runs to completion or failure.
func (p *SolanaProvider) awaitFinalized(ctx context.Context, sig solana.Signature) error {
	for {
		statuses, err := p.rpcClient.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return fmt.Errorf("failed to get signature status: %w", err)
		}

		if len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

// loadKeypair decrypts the key file and returns the 64-byte Solana keypair.
// Caller must clear the returned slice.
func (p *SolanaProvider) loadKeypair() (solana.PrivateKey, error) {
	passwordBytes, err := p.password()
	if err != nil {
		return nil, err
	}
	defer clear(passwordBytes)

	_, keyData, err := crypto.DecryptKeyFile(p.filePath, passwordBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key file: %w", err)
	}

	if len(keyData.PrivateKey) != 64 {
		clear(keyData.PrivateKey)
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes")
	}

	return solana.PrivateKey(keyData.PrivateKey), nil
}
