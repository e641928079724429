package store

import (
	"context"
	"fmt"
	"strconv"

	"tusk/internal/common"
	"tusk/internal/model"
	"tusk/internal/wallet"

	"go.uber.org/zap"
)

// ListNFT puts a token up for sale at the given decimal price. State is
// updated only after the ledger confirms; on failure nothing changes
// locally.
func (s *Store) ListNFT(ctx context.Context, id, price string) error {
	address, connected := s.wallet.Address()
	if !connected {
		return wallet.ErrNotConnected
	}

	if err := common.ValidatePrice(price); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrice, err)
	}

	unlock := s.lockID(id)
	defer unlock()

	nft, ok := s.GetNFTByID(id)
	if !ok {
		return ErrNotFound
	}
	if nft.Owner != address {
		return ErrNotOwner
	}

	priceBase, err := common.PriceToBase(price)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrice, err)
	}

	_, err = s.wallet.SubmitTransaction(ctx, s.request(moduleMarket, fnList, id, strconv.FormatUint(priceBase, 10)))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.setListing(id, true, price)
	s.mu.Unlock()

	s.log.Info("nft listed", zap.String("id", id), zap.String("price", price))
	return nil
}

// UnlistNFT withdraws a token from sale.
func (s *Store) UnlistNFT(ctx context.Context, id string) error {
	address, connected := s.wallet.Address()
	if !connected {
		return wallet.ErrNotConnected
	}

	unlock := s.lockID(id)
	defer unlock()

	nft, ok := s.GetNFTByID(id)
	if !ok {
		return ErrNotFound
	}
	if nft.Owner != address {
		return ErrNotOwner
	}

	_, err := s.wallet.SubmitTransaction(ctx, s.request(moduleMarket, fnUnlist, id))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.setListing(id, false, "")
	s.mu.Unlock()

	s.log.Info("nft unlisted", zap.String("id", id))
	return nil
}

// BuyNFT purchases a listed token. On success ownership moves to the
// caller, the listing is cleared and the record migrates between the local
// collections. An id absent from the local cache fails without submitting.
func (s *Store) BuyNFT(ctx context.Context, id string) error {
	address, connected := s.wallet.Address()
	if !connected {
		return wallet.ErrNotConnected
	}

	unlock := s.lockID(id)
	defer unlock()

	if _, ok := s.GetNFTByID(id); !ok {
		return ErrNotFound
	}

	_, err := s.wallet.SubmitTransaction(ctx, s.request(moduleMarket, fnBuy, id))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.setListing(id, false, "")
	for i := range s.nfts {
		if s.nfts[i].ID == id {
			s.nfts[i].Owner = address
			s.owned = append(s.owned, s.nfts[i])
			break
		}
	}
	s.mu.Unlock()

	s.log.Info("nft bought", zap.String("id", id), zap.String("buyer", address))
	return nil
}

// setListing updates the listed flag and price of every copy of id and
// keeps the listed collection in sync. Caller holds s.mu.
// Invariant maintained here: Listed == true iff Price is non-empty, and the
// listed collection holds exactly the records with Listed == true.
func (s *Store) setListing(id string, listed bool, price string) {
	update := func(coll []model.NFT) {
		for i := range coll {
			if coll[i].ID == id {
				coll[i].Listed = listed
				coll[i].Price = price
			}
		}
	}
	update(s.nfts)
	update(s.owned)

	// Rebuild the listed membership for this id.
	kept := s.listed[:0]
	for _, nft := range s.listed {
		if nft.ID != id {
			kept = append(kept, nft)
		}
	}
	s.listed = kept

	if listed {
		for _, nft := range s.nfts {
			if nft.ID == id {
				s.listed = append(s.listed, nft)
				break
			}
		}
	}
}
