package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tusk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func envelope() *CallEnvelope {
	return &CallEnvelope{
		Signer: "0xabc",
		Request: model.TransactionRequest{
			PackageID: "0xpkg",
			Module:    "marketplace",
			Function:  "list",
			Arguments: []string{"0x123", "1500000000"},
			GasBudget: 10000,
		},
		Signature: "c2ln",
		PublicKey: "cHVi",
	}
}

func TestExecuteCall(t *testing.T) {
	var got rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]any{
				"status":  "success",
				"digest":  "digest-1",
				"created": []map[string]string{{"objectId": "0xnew"}},
			},
		})
	}))
	defer srv.Close()

	c := NewLedgerClient(srv.URL, zap.NewNop())
	res, err := c.ExecuteCall(context.Background(), envelope())
	require.NoError(t, err)

	assert.Equal(t, "marketplace_executeCall", got.Method)
	require.Len(t, got.Params, 1)
	assert.Equal(t, "digest-1", res.Digest)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "0xnew", res.Created[0].ObjectID)
}

func TestExecuteCallRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32000, "message": "signature mismatch"},
		})
	}))
	defer srv.Close()

	c := NewLedgerClient(srv.URL, zap.NewNop())
	_, err := c.ExecuteCall(context.Background(), envelope())
	assert.ErrorIs(t, err, ErrExecutionFailed)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestExecuteCallFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]any{"status": "failure", "error": "insufficient gas"},
		})
	}))
	defer srv.Close()

	c := NewLedgerClient(srv.URL, zap.NewNop())
	_, err := c.ExecuteCall(context.Background(), envelope())
	assert.ErrorIs(t, err, ErrExecutionFailed)
	assert.Contains(t, err.Error(), "insufficient gas")
}

func TestExecuteCallBadStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewLedgerClient(srv.URL, zap.NewNop())
	_, err := c.ExecuteCall(context.Background(), envelope())
	assert.ErrorIs(t, err, ErrExecutionFailed)
}
