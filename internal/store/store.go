// Package store holds the in-memory NFT collections and the marketplace
// operations over them. Every durable fact lives on the remote ledger and
// in blob storage; the store is a client-side cache plus the glue that
// composes blob uploads with transaction submission.
package store

import (
	"context"
	"sync"
	"time"

	"tusk/internal/model"

	"go.uber.org/zap"
)

// Marketplace call targets on the remote ledger.
const (
	moduleNFT    = "non_fungible_token"
	fnMint       = "mint_to_sender"
	moduleMarket = "marketplace"
	fnList       = "list"
	fnUnlist     = "unlist"
	fnBuy        = "buy"
)

// Blobs is the slice of the blob storage client the store needs.
type Blobs interface {
	UploadBlob(ctx context.Context, data []byte, contentType string) (string, error)
	StoreMetadata(ctx context.Context, md *model.Metadata) (string, error)
	PublicURL(blobID string) string
}

// Wallet is the slice of the wallet adapter the store needs. The store
// never touches session state directly.
type Wallet interface {
	Address() (string, bool)
	SubmitTransaction(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error)
}

// Query is the external indexing service contract behind the refresh
// operations.
type Query interface {
	AllNFTs(ctx context.Context) ([]model.NFT, error)
	NFTsByOwner(ctx context.Context, owner string) ([]model.NFT, error)
	ListedNFTs(ctx context.Context) ([]model.NFT, error)
}

// Store owns the three in-memory NFT collections. Mutating operations on
// the same identifier are serialized with a per-identifier lock held for
// the whole operation, so the local cache cannot interleave two updates to
// one record; the ledger's own ordering stays authoritative for the asset.
type Store struct {
	blobs     Blobs
	wallet    Wallet
	query     Query
	packageID string
	gasBudget uint64
	log       *zap.Logger
	now       func() time.Time

	mu     sync.RWMutex
	nfts   []model.NFT
	owned  []model.NFT
	listed []model.NFT

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a store wired to the given collaborators. packageID and
// gasBudget parameterize every marketplace call.
func New(blobs Blobs, wallet Wallet, query Query, packageID string, gasBudget uint64, log *zap.Logger) *Store {
	return &Store{
		blobs:     blobs,
		wallet:    wallet,
		query:     query,
		packageID: packageID,
		gasBudget: gasBudget,
		log:       log,
		now:       time.Now,
		locks:     map[string]*sync.Mutex{},
	}
}

// lockID acquires the per-identifier mutex and returns its release func.
// Lock entries are kept for the store's lifetime; the map is bounded by the
// number of identifiers seen.
func (s *Store) lockID(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) request(module, function string, args ...string) *model.TransactionRequest {
	return &model.TransactionRequest{
		PackageID: s.packageID,
		Module:    module,
		Function:  function,
		Arguments: args,
		GasBudget: s.gasBudget,
	}
}
