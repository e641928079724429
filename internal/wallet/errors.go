package wallet

import "errors"

var (
	// ErrNotConnected is returned when an operation requires an active session
	ErrNotConnected = errors.New("wallet not connected")

	// ErrConnectionRejected is returned when the signing provider refuses to
	// establish a session (wrong password, user rejection). The session stays
	// disconnected; callers render the notice inline.
	ErrConnectionRejected = errors.New("wallet connection rejected")

	// ErrConnectInProgress is returned when a connect request is already running
	ErrConnectInProgress = errors.New("wallet connection already in progress")

	// ErrTransactionFailed is returned when the provider reports a failed or
	// rejected transaction. Wraps the provider's diagnostic.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrKeyFileExists is returned when key generation would overwrite an
	// existing non-empty key file
	ErrKeyFileExists = errors.New("key file already exists")
)
