package store

import "errors"

var (
	// ErrNotFound is returned when the identifier is absent from the local
	// collections. This client has no independent remote lookup; refresh
	// from the indexer first.
	ErrNotFound = errors.New("nft not found")

	// ErrNotOwner is returned when the caller tries to list or unlist a
	// token it does not own. The ledger enforces this too; the local check
	// is defense-in-depth.
	ErrNotOwner = errors.New("caller does not own this nft")

	// ErrInvalidPrice is returned for a listing price that does not parse
	// or is not positive
	ErrInvalidPrice = errors.New("invalid listing price")

	// ErrCreationFailed wraps any failure during the multi-step create flow
	ErrCreationFailed = errors.New("nft creation failed")

	// ErrMintResultMalformed is returned when a successful mint reports no
	// created objects
	ErrMintResultMalformed = errors.New("mint result missing created object")
)
