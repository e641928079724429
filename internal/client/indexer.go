package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tusk/internal/model"
)

// IndexerClient queries the external indexing service for NFTs. The indexer
// owns remote lookups; this client only decodes its answers.
type IndexerClient struct {
	baseURL string
	client  *http.Client
}

// NewIndexerClient creates a new indexer query client
func NewIndexerClient(baseURL string) *IndexerClient {
	return &IndexerClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AllNFTs returns every NFT the indexer knows about.
func (c *IndexerClient) AllNFTs(ctx context.Context) ([]model.NFT, error) {
	return c.query(ctx, c.baseURL+"/nfts")
}

// NFTsByOwner returns the NFTs currently owned by the given address.
func (c *IndexerClient) NFTsByOwner(ctx context.Context, owner string) ([]model.NFT, error) {
	return c.query(ctx, c.baseURL+"/nfts?owner="+url.QueryEscape(owner))
}

// ListedNFTs returns the NFTs currently listed for sale.
func (c *IndexerClient) ListedNFTs(ctx context.Context) ([]model.NFT, error) {
	return c.query(ctx, c.baseURL+"/nfts?listed=true")
}

func (c *IndexerClient) query(ctx context.Context, u string) ([]model.NFT, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indexer query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer query failed: status %d", resp.StatusCode)
	}

	var nfts []model.NFT
	if err := json.NewDecoder(resp.Body).Decode(&nfts); err != nil {
		return nil, fmt.Errorf("failed to decode indexer response: %w", err)
	}
	return nfts, nil
}
