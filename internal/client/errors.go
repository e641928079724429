package client

import "errors"

var (
	// ErrUploadFailed is returned when the storage gateway rejects or fails an upload
	ErrUploadFailed = errors.New("blob upload failed")

	// ErrNotFound is returned when the gateway reports the blob does not exist
	ErrNotFound = errors.New("blob not found")

	// ErrRetrievalFailed is returned on any other blob retrieval failure
	ErrRetrievalFailed = errors.New("blob retrieval failed")

	// ErrExecutionFailed is returned when the ledger gateway reports a failed call
	ErrExecutionFailed = errors.New("ledger call execution failed")
)
