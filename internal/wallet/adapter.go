package wallet

import (
	"context"
	"fmt"
	"sync"

	"tusk/internal/model"

	"go.uber.org/zap"
)

// Provider abstracts an external signing provider: it establishes sessions,
// signs marketplace calls and submits them to the ledger, reporting only
// terminal results. Which provider backs the adapter is a configuration
// choice, not a code path.
type Provider interface {
	// Connect establishes a session and returns the account address.
	Connect(ctx context.Context) (string, error)
	// Disconnect releases provider-side resources. Must not fail.
	Disconnect()
	// SignAndExecute signs the call, submits it and blocks until the ledger
	// reports a terminal state.
	SignAndExecute(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error)
}

// Adapter owns the wallet session state and delegates signing to a Provider.
// All session mutations go through the adapter; nothing else touches it.
type Adapter struct {
	mu       sync.Mutex
	provider Provider
	session  model.Session
	log      *zap.Logger
}

// NewAdapter creates a wallet adapter around the given provider.
func NewAdapter(provider Provider, log *zap.Logger) *Adapter {
	return &Adapter{
		provider: provider,
		log:      log,
	}
}

// Connect requests a session from the provider. Idempotent if already
// connected. On rejection the session stays disconnected and
// ErrConnectionRejected is returned for the caller to render as a notice.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	if a.session.Connected {
		a.mu.Unlock()
		return nil
	}
	if a.session.Connecting {
		a.mu.Unlock()
		return ErrConnectInProgress
	}
	a.session.Connecting = true
	a.mu.Unlock()

	address, err := a.provider.Connect(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Connecting = false

	if err != nil {
		a.log.Warn("wallet connect rejected", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrConnectionRejected, err)
	}

	a.session.Connected = true
	a.session.Address = address
	a.log.Info("wallet connected", zap.String("address", address))
	return nil
}

// Disconnect clears session state unconditionally. No remote call is
// required to fail, so it never returns an error.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider.Disconnect()
	a.session = model.Session{}
	a.log.Info("wallet disconnected")
}

// Session returns a snapshot of the current session state.
func (a *Adapter) Session() model.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Address returns the connected account address, and whether a session is
// active.
func (a *Adapter) Address() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Address, a.session.Connected
}

// SubmitTransaction signs and submits a single call and waits for its
// terminal result. One attempt per call; retrying is the caller's decision.
func (a *Adapter) SubmitTransaction(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error) {
	a.mu.Lock()
	connected := a.session.Connected
	a.mu.Unlock()

	if !connected {
		return nil, ErrNotConnected
	}

	res, err := a.provider.SignAndExecute(ctx, req)
	if err != nil {
		a.log.Warn("transaction rejected",
			zap.String("function", req.Module+"::"+req.Function),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	return res, nil
}
