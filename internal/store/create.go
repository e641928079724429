package store

import (
	"context"
	"fmt"
	"time"

	"tusk/internal/model"
	"tusk/internal/wallet"

	"go.uber.org/zap"
)

// CreateNFT mints a new token: uploads the image, stores the metadata
// document, submits the mint call and records the resulting NFT locally.
// All-or-nothing: any failing step aborts the whole flow and no partial
// record is ever inserted.
func (s *Store) CreateNFT(ctx context.Context, name, description string, image []byte, imageContentType string, attributes []model.Attribute) (*model.NFT, error) {
	address, connected := s.wallet.Address()
	if !connected {
		return nil, wallet.ErrNotConnected
	}

	imageBlobID, err := s.blobs.UploadBlob(ctx, image, imageContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}
	imageURL := s.blobs.PublicURL(imageBlobID)

	metadata := model.Metadata{
		Name:        name,
		Description: description,
		Image:       imageURL,
		Attributes:  attributes,
		Creator:     address,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	metadataBlobID, err := s.blobs.StoreMetadata(ctx, &metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}

	// The metadata blob id is the token's content pointer on the ledger.
	result, err := s.wallet.SubmitTransaction(ctx, s.request(moduleNFT, fnMint, name, description, metadataBlobID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}

	if len(result.Created) == 0 {
		return nil, fmt.Errorf("%w: %w (digest %s)", ErrCreationFailed, ErrMintResultMalformed, result.Digest)
	}

	nft := model.NFT{
		ID:          result.Created[0].ObjectID,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		Owner:       address,
		Creator:     address,
		Listed:      false,
		Metadata:    metadata,
		BlobID:      metadataBlobID,
	}

	s.mu.Lock()
	s.nfts = append(s.nfts, nft)
	s.owned = append(s.owned, nft)
	s.mu.Unlock()

	s.log.Info("nft created",
		zap.String("id", nft.ID),
		zap.String("name", name),
		zap.String("blobId", metadataBlobID))

	return &nft, nil
}
