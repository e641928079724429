package store

import (
	"context"
	"strings"

	"tusk/internal/model"
)

// RefreshAll overwrites the full collection wholesale from the indexer, and
// rebuilds the listed collection from it.
func (s *Store) RefreshAll(ctx context.Context) error {
	nfts, err := s.query.AllNFTs(ctx)
	if err != nil {
		return err
	}

	listed := make([]model.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if nft.Listed {
			listed = append(listed, nft)
		}
	}

	s.mu.Lock()
	s.nfts = nfts
	s.listed = listed
	s.mu.Unlock()
	return nil
}

// RefreshOwned overwrites the owned collection from the indexer. Without an
// active session there is no owner to ask about, so the collection is
// cleared.
func (s *Store) RefreshOwned(ctx context.Context) error {
	address, connected := s.wallet.Address()
	if !connected {
		s.mu.Lock()
		s.owned = nil
		s.mu.Unlock()
		return nil
	}

	owned, err := s.query.NFTsByOwner(ctx, address)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.owned = owned
	s.mu.Unlock()
	return nil
}

// RefreshListed overwrites the listed collection from the indexer.
func (s *Store) RefreshListed(ctx context.Context) error {
	listed, err := s.query.ListedNFTs(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listed = listed
	s.mu.Unlock()
	return nil
}

// NFTs returns a snapshot of the full collection.
func (s *Store) NFTs() []model.NFT {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.NFT(nil), s.nfts...)
}

// OwnedNFTs returns a snapshot of the caller's collection.
func (s *Store) OwnedNFTs() []model.NFT {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.NFT(nil), s.owned...)
}

// ListedNFTs returns a snapshot of the listed collection.
func (s *Store) ListedNFTs() []model.NFT {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.NFT(nil), s.listed...)
}

// GetNFTByID looks a token up by identifier. Linear scan; collections stay
// small enough that indexing would buy nothing.
func (s *Store) GetNFTByID(id string) (model.NFT, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, nft := range s.nfts {
		if nft.ID == id {
			return nft, true
		}
	}
	return model.NFT{}, false
}

// NFTsByCategory filters the full collection by the "category" metadata
// attribute. Matching is case-insensitive; non-string attribute values
// never match.
func (s *Store) NFTsByCategory(category string) []model.NFT {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.NFTs()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.NFT, 0, len(s.nfts))
	for _, nft := range s.nfts {
		for _, attr := range nft.Metadata.Attributes {
			value, ok := attr.Value.(string)
			if ok && strings.EqualFold(attr.TraitType, "category") && strings.EqualFold(value, category) {
				out = append(out, nft)
				break
			}
		}
	}
	return out
}

// SearchNFTs filters the full collection by a case-insensitive substring
// match on name and description.
func (s *Store) SearchNFTs(q string) []model.NFT {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return s.NFTs()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.NFT, 0, len(s.nfts))
	for _, nft := range s.nfts {
		if strings.Contains(strings.ToLower(nft.Name), q) ||
			strings.Contains(strings.ToLower(nft.Description), q) {
			out = append(out, nft)
		}
	}
	return out
}
