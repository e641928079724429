package model

import "encoding/json"

// TransactionRequest describes a single marketplace call on the remote
// ledger: a target function, positional arguments and a gas budget. It is
// built by the store and passed through the wallet adapter opaquely.
type TransactionRequest struct {
	PackageID string   `json:"packageId"`
	Module    string   `json:"module"`
	Function  string   `json:"function"`
	Arguments []string `json:"arguments"`
	GasBudget uint64   `json:"gasBudget"`
}

// ObjectRef references an object created by a transaction.
type ObjectRef struct {
	ObjectID string `json:"objectId"`
}

// Event is an event emitted during transaction execution. Payload stays
// raw; this layer never interprets it.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TransactionResult is the terminal outcome of a confirmed transaction.
type TransactionResult struct {
	Digest  string      `json:"digest"`
	Created []ObjectRef `json:"created"`
	Events  []Event     `json:"events"`
}
