package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tusk/internal/model"

	"go.uber.org/zap"
)

// CallEnvelope is a signed marketplace call ready for submission to the
// ledger gateway. Signature covers the canonical JSON encoding of the
// embedded TransactionRequest.
type CallEnvelope struct {
	Signer    string                   `json:"signer"`
	Request   model.TransactionRequest `json:"request"`
	Signature string                   `json:"signature"` // base64 ed25519 signature
	PublicKey string                   `json:"publicKey"` // base64 ed25519 public key
}

// LedgerClient is a JSON-RPC client for the remote ledger gateway. The
// gateway executes signed marketplace calls and reports the terminal result;
// this client never interprets call semantics.
type LedgerClient struct {
	rpcURL string
	client *http.Client
	log    *zap.Logger
}

// NewLedgerClient creates a new ledger gateway client
func NewLedgerClient(rpcURL string, log *zap.Logger) *LedgerClient {
	return &LedgerClient{
		rpcURL: rpcURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type executeResult struct {
	Status  string            `json:"status"` // "success" or "failure"
	Error   string            `json:"error,omitempty"`
	Digest  string            `json:"digest"`
	Created []model.ObjectRef `json:"created"`
	Events  []model.Event     `json:"events"`
}

type rpcResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int            `json:"id"`
	Result  *executeResult `json:"result,omitempty"`
	Error   *rpcError      `json:"error,omitempty"`
}

// ExecuteCall submits a signed call and blocks until the gateway reports a
// terminal state. No partial or pending result is ever returned.
func (c *LedgerClient) ExecuteCall(ctx context.Context, env *CallEnvelope) (*model.TransactionResult, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "marketplace_executeCall",
		Params:  []any{env},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExecutionFailed, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrExecutionFailed, err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%w: rpc error %d: %s", ErrExecutionFailed, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return nil, fmt.Errorf("%w: empty result", ErrExecutionFailed)
	}
	if rpcResp.Result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrExecutionFailed, rpcResp.Result.Error)
	}

	c.log.Debug("ledger call executed",
		zap.String("digest", rpcResp.Result.Digest),
		zap.String("function", env.Request.Module+"::"+env.Request.Function),
		zap.Int("created", len(rpcResp.Result.Created)))

	return &model.TransactionResult{
		Digest:  rpcResp.Result.Digest,
		Created: rpcResp.Result.Created,
		Events:  rpcResp.Result.Events,
	}, nil
}
