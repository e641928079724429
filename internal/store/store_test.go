package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tusk/internal/model"
	"tusk/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBlobs struct {
	nextID    int
	uploadErr error
	metaErr   error
	metadata  map[string]model.Metadata
}

func (b *fakeBlobs) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	b.nextID++
	return fmt.Sprintf("blob-%d", b.nextID), nil
}

func (b *fakeBlobs) StoreMetadata(ctx context.Context, md *model.Metadata) (string, error) {
	if b.metaErr != nil {
		return "", b.metaErr
	}
	b.nextID++
	id := fmt.Sprintf("blob-%d", b.nextID)
	if b.metadata == nil {
		b.metadata = map[string]model.Metadata{}
	}
	b.metadata[id] = *md
	return id, nil
}

func (b *fakeBlobs) PublicURL(blobID string) string {
	return "https://gateway.example/blob/" + blobID
}

type fakeWallet struct {
	address   string
	connected bool
	submitErr error
	created   []model.ObjectRef
	requests  []*model.TransactionRequest
}

func (w *fakeWallet) Address() (string, bool) { return w.address, w.connected }

func (w *fakeWallet) SubmitTransaction(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResult, error) {
	if !w.connected {
		return nil, wallet.ErrNotConnected
	}
	w.requests = append(w.requests, req)
	if w.submitErr != nil {
		return nil, fmt.Errorf("%w: %w", wallet.ErrTransactionFailed, w.submitErr)
	}
	return &model.TransactionResult{Digest: "digest-1", Created: w.created}, nil
}

func (w *fakeWallet) lastRequest() *model.TransactionRequest {
	if len(w.requests) == 0 {
		return nil
	}
	return w.requests[len(w.requests)-1]
}

type fakeQuery struct {
	all    []model.NFT
	owned  []model.NFT
	listed []model.NFT
	err    error
}

func (q *fakeQuery) AllNFTs(ctx context.Context) ([]model.NFT, error) { return q.all, q.err }
func (q *fakeQuery) NFTsByOwner(ctx context.Context, owner string) ([]model.NFT, error) {
	return q.owned, q.err
}
func (q *fakeQuery) ListedNFTs(ctx context.Context) ([]model.NFT, error) { return q.listed, q.err }

// fixtures mirrors the indexer's view of a small marketplace.
func fixtures() []model.NFT {
	return []model.NFT{
		{
			ID:          "0x123",
			Name:        "Pixel Art #1",
			Description: "A rare pixel art collectible",
			ImageURL:    "https://gateway.example/blob/img-1",
			Owner:       "0xabc",
			Creator:     "0xabc",
			Price:       "1.5",
			Listed:      true,
			Metadata: model.Metadata{
				Name: "Pixel Art #1",
				Attributes: []model.Attribute{
					{TraitType: "Background", Value: "Blue"},
					{TraitType: "category", Value: "art"},
				},
			},
			BlobID: "meta-1",
		},
		{
			ID:          "0x456",
			Name:        "Abstract Composition",
			Description: "Generative abstract art",
			ImageURL:    "https://gateway.example/blob/img-2",
			Owner:       "0xdef",
			Creator:     "0xdef",
			Listed:      false,
			BlobID:      "meta-2",
		},
	}
}

func newTestStore(t *testing.T) (*Store, *fakeBlobs, *fakeWallet, *fakeQuery) {
	t.Helper()
	blobs := &fakeBlobs{}
	w := &fakeWallet{address: "0xabc", connected: true}
	q := &fakeQuery{all: fixtures()}
	s := New(blobs, w, q, "0xpkg", 10000, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, s.RefreshAll(context.Background()))
	return s, blobs, w, q
}

// checkListedInvariant asserts that every record carries a price exactly
// when it is listed, and that the listed collection holds exactly the
// listed records.
func checkListedInvariant(t *testing.T, s *Store) {
	t.Helper()
	listedIDs := map[string]bool{}
	for _, nft := range s.NFTs() {
		assert.Equal(t, nft.Listed, nft.Price != "", "nft %s: listed flag and price disagree", nft.ID)
		if nft.Listed {
			listedIDs[nft.ID] = true
		}
	}
	snapshot := s.ListedNFTs()
	assert.Len(t, snapshot, len(listedIDs))
	for _, nft := range snapshot {
		assert.True(t, listedIDs[nft.ID])
		assert.True(t, nft.Listed)
	}
}

func TestRefreshAll(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	all := s.NFTs()
	require.Len(t, all, 2)
	assert.Equal(t, "Pixel Art #1", all[0].Name)

	listed := s.ListedNFTs()
	require.Len(t, listed, 1)
	assert.Equal(t, "0x123", listed[0].ID)
	checkListedInvariant(t, s)
}

func TestRefreshOwned(t *testing.T) {
	s, _, w, q := newTestStore(t)
	q.owned = fixtures()[:1]

	require.NoError(t, s.RefreshOwned(context.Background()))
	assert.Len(t, s.OwnedNFTs(), 1)

	t.Run("cleared when disconnected", func(t *testing.T) {
		w.connected = false
		require.NoError(t, s.RefreshOwned(context.Background()))
		assert.Empty(t, s.OwnedNFTs())
	})
}

func TestRefreshPropagatesIndexerError(t *testing.T) {
	s, _, _, q := newTestStore(t)
	q.err = errors.New("indexer down")

	assert.Error(t, s.RefreshAll(context.Background()))
	assert.Error(t, s.RefreshListed(context.Background()))

	// Collections keep their previous contents on failure.
	assert.Len(t, s.NFTs(), 2)
}

func TestCreateNFT(t *testing.T) {
	s, blobs, w, _ := newTestStore(t)
	w.created = []model.ObjectRef{{ObjectID: "0x789"}}

	attrs := []model.Attribute{{TraitType: "Background", Value: "Blue"}}
	nft, err := s.CreateNFT(context.Background(), "Pixel Art #2", "sequel", []byte("png"), "image/png", attrs)
	require.NoError(t, err)

	assert.Equal(t, "0x789", nft.ID)
	assert.Equal(t, "0xabc", nft.Owner)
	assert.Equal(t, "0xabc", nft.Creator)
	assert.False(t, nft.Listed)
	assert.Equal(t, "https://gateway.example/blob/blob-1", nft.ImageURL)
	assert.Equal(t, "blob-2", nft.BlobID)
	assert.Equal(t, "2024-01-01T00:00:00Z", nft.Metadata.CreatedAt)

	// Metadata stored before the mint call references the image URL.
	stored := blobs.metadata["blob-2"]
	assert.Equal(t, nft.ImageURL, stored.Image)
	assert.Equal(t, attrs, stored.Attributes)

	// Mint call carries name, description and the metadata blob id.
	req := w.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "0xpkg", req.PackageID)
	assert.Equal(t, "non_fungible_token", req.Module)
	assert.Equal(t, "mint_to_sender", req.Function)
	assert.Equal(t, []string{"Pixel Art #2", "sequel", "blob-2"}, req.Arguments)
	assert.Equal(t, uint64(10000), req.GasBudget)

	// Record lands in both the full and owned collections.
	assert.Len(t, s.NFTs(), 3)
	assert.Len(t, s.OwnedNFTs(), 1)
	checkListedInvariant(t, s)
}

func TestCreateNFTFailures(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.connected = false
		_, err := s.CreateNFT(context.Background(), "x", "", nil, "", nil)
		assert.ErrorIs(t, err, wallet.ErrNotConnected)
	})

	t.Run("upload failure aborts before any call", func(t *testing.T) {
		s, blobs, w, _ := newTestStore(t)
		blobs.uploadErr = errors.New("publisher down")
		_, err := s.CreateNFT(context.Background(), "x", "", nil, "", nil)
		assert.ErrorIs(t, err, ErrCreationFailed)
		assert.Empty(t, w.requests)
		assert.Len(t, s.NFTs(), 2)
	})

	t.Run("metadata failure aborts before any call", func(t *testing.T) {
		s, blobs, w, _ := newTestStore(t)
		blobs.metaErr = errors.New("publisher down")
		_, err := s.CreateNFT(context.Background(), "x", "", nil, "", nil)
		assert.ErrorIs(t, err, ErrCreationFailed)
		assert.Empty(t, w.requests)
	})

	t.Run("mint failure inserts nothing", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.submitErr = errors.New("rejected")
		_, err := s.CreateNFT(context.Background(), "x", "", nil, "", nil)
		assert.ErrorIs(t, err, ErrCreationFailed)
		assert.ErrorIs(t, err, wallet.ErrTransactionFailed)
		assert.Len(t, s.NFTs(), 2)
		assert.Empty(t, s.OwnedNFTs())
	})

	t.Run("empty created set is malformed", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.created = nil
		_, err := s.CreateNFT(context.Background(), "x", "", nil, "", nil)
		assert.ErrorIs(t, err, ErrCreationFailed)
		assert.ErrorIs(t, err, ErrMintResultMalformed)
		assert.Len(t, s.NFTs(), 2)
	})
}

func TestListNFT(t *testing.T) {
	s, _, w, q := newTestStore(t)

	// Start from an unlisted record owned by the caller.
	q.all = fixtures()
	q.all[0].Listed = false
	q.all[0].Price = ""
	require.NoError(t, s.RefreshAll(context.Background()))

	require.NoError(t, s.ListNFT(context.Background(), "0x123", "1.5"))

	// Price crosses the wire in integer base units.
	req := w.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "marketplace", req.Module)
	assert.Equal(t, "list", req.Function)
	assert.Equal(t, []string{"0x123", "1500000000"}, req.Arguments)

	nft, ok := s.GetNFTByID("0x123")
	require.True(t, ok)
	assert.True(t, nft.Listed)
	assert.Equal(t, "1.5", nft.Price)
	checkListedInvariant(t, s)

	t.Run("unlist restores the unlisted state", func(t *testing.T) {
		require.NoError(t, s.UnlistNFT(context.Background(), "0x123"))

		req := w.lastRequest()
		assert.Equal(t, "unlist", req.Function)
		assert.Equal(t, []string{"0x123"}, req.Arguments)

		nft, ok := s.GetNFTByID("0x123")
		require.True(t, ok)
		assert.False(t, nft.Listed)
		assert.Empty(t, nft.Price)
		assert.Empty(t, s.ListedNFTs())
		checkListedInvariant(t, s)
	})
}

func TestListNFTFailures(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.connected = false
		assert.ErrorIs(t, s.ListNFT(context.Background(), "0x123", "1.5"), wallet.ErrNotConnected)
	})

	t.Run("rejects invalid price", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		assert.ErrorIs(t, s.ListNFT(context.Background(), "0x456", "zero"), ErrInvalidPrice)
		assert.ErrorIs(t, s.ListNFT(context.Background(), "0x456", "0"), ErrInvalidPrice)
		assert.Empty(t, w.requests)
	})

	t.Run("unknown id", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		assert.ErrorIs(t, s.ListNFT(context.Background(), "0xmissing", "1"), ErrNotFound)
		assert.Empty(t, w.requests)
	})

	t.Run("not the owner", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		assert.ErrorIs(t, s.ListNFT(context.Background(), "0x456", "1"), ErrNotOwner)
		assert.ErrorIs(t, s.UnlistNFT(context.Background(), "0x456"), ErrNotOwner)
		assert.Empty(t, w.requests)
	})

	t.Run("ledger failure leaves state untouched", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.submitErr = errors.New("rejected")

		err := s.ListNFT(context.Background(), "0x123", "2")
		assert.ErrorIs(t, err, wallet.ErrTransactionFailed)

		nft, _ := s.GetNFTByID("0x123")
		assert.Equal(t, "1.5", nft.Price)
		checkListedInvariant(t, s)
	})
}

func TestBuyNFT(t *testing.T) {
	s, _, w, _ := newTestStore(t)
	w.address = "0xbuyer"

	require.NoError(t, s.BuyNFT(context.Background(), "0x123"))

	req := w.lastRequest()
	assert.Equal(t, "buy", req.Function)
	assert.Equal(t, []string{"0x123"}, req.Arguments)

	nft, ok := s.GetNFTByID("0x123")
	require.True(t, ok)
	assert.Equal(t, "0xbuyer", nft.Owner)
	assert.False(t, nft.Listed)
	assert.Empty(t, nft.Price)

	// The purchase migrates the record into the buyer's collection and
	// shrinks the listed collection by one.
	owned := s.OwnedNFTs()
	require.Len(t, owned, 1)
	assert.Equal(t, "0x123", owned[0].ID)
	assert.Empty(t, s.ListedNFTs())
	checkListedInvariant(t, s)
}

func TestBuyNFTFailures(t *testing.T) {
	t.Run("unknown id submits nothing", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		assert.ErrorIs(t, s.BuyNFT(context.Background(), "0xmissing"), ErrNotFound)
		assert.Empty(t, w.requests)
	})

	t.Run("ledger failure leaves ownership untouched", func(t *testing.T) {
		s, _, w, _ := newTestStore(t)
		w.address = "0xbuyer"
		w.submitErr = errors.New("rejected")

		assert.ErrorIs(t, s.BuyNFT(context.Background(), "0x123"), wallet.ErrTransactionFailed)

		nft, _ := s.GetNFTByID("0x123")
		assert.Equal(t, "0xabc", nft.Owner)
		assert.True(t, nft.Listed)
		assert.Empty(t, s.OwnedNFTs())
	})
}

func TestSearchNFTs(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	assert.Len(t, s.SearchNFTs("pixel"), 1)
	assert.Len(t, s.SearchNFTs("ART"), 2) // matches name and description
	assert.Len(t, s.SearchNFTs("generative"), 1)
	assert.Empty(t, s.SearchNFTs("nothing matches this"))
	assert.Len(t, s.SearchNFTs("  "), 2) // blank query returns everything
}

func TestNFTsByCategory(t *testing.T) {
	s, _, _, q := newTestStore(t)

	t.Run("case-insensitive match", func(t *testing.T) {
		nfts := s.NFTsByCategory("ART")
		require.Len(t, nfts, 1)
		assert.Equal(t, "0x123", nfts[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, s.NFTsByCategory("music"))
	})

	t.Run("blank returns everything", func(t *testing.T) {
		assert.Len(t, s.NFTsByCategory("  "), 2)
	})

	t.Run("non-string attribute values never match", func(t *testing.T) {
		q.all = append(fixtures(), model.NFT{
			ID:       "0x999",
			Name:     "Oddball",
			Metadata: model.Metadata{Attributes: []model.Attribute{{TraitType: "category", Value: 7}}},
		})
		require.NoError(t, s.RefreshAll(context.Background()))
		assert.Empty(t, s.NFTsByCategory("7"))
	})
}

func TestSnapshotsAreCopies(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	snapshot := s.NFTs()
	snapshot[0].Name = "mutated"

	fresh := s.NFTs()
	assert.Equal(t, "Pixel Art #1", fresh[0].Name)
}
