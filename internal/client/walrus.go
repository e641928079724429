package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"tusk/internal/model"

	"go.uber.org/zap"
)

// WalrusClient talks to a Walrus-style blob storage gateway: publish blobs
// through the publisher endpoint, read them back through the public gateway.
type WalrusClient struct {
	publisherURL string
	gatewayURL   string
	apiKey       string // optional bearer token for the publisher
	client       *http.Client
	log          *zap.Logger
}

// NewWalrusClient creates a new blob storage client
func NewWalrusClient(publisherURL, gatewayURL, apiKey string, log *zap.Logger) *WalrusClient {
	return &WalrusClient{
		publisherURL: strings.TrimRight(strings.TrimSpace(publisherURL), "/"),
		gatewayURL:   strings.TrimRight(strings.TrimSpace(gatewayURL), "/"),
		apiKey:       apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// publishResponse response from POST /blob/publish
type publishResponse struct {
	BlobID string `json:"blobId"`
}

// UploadBlob transmits bytes to the storage gateway and returns the opaque
// blob identifier. A single attempt; callers decide whether to retry.
func (c *WalrusClient) UploadBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="blob"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create multipart body: %w", ErrUploadFailed, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: failed to write multipart body: %w", ErrUploadFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to finalize multipart body: %w", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.publisherURL+"/blob/publish", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("blob upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var pub publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&pub); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", ErrUploadFailed, err)
	}
	if pub.BlobID == "" {
		return "", fmt.Errorf("%w: response has empty blobId", ErrUploadFailed)
	}

	c.log.Debug("blob uploaded", zap.String("blobId", pub.BlobID), zap.Int("size", len(data)))
	return pub.BlobID, nil
}

// StoreMetadata serializes a metadata document to its canonical JSON
// encoding and uploads it. Field order is fixed by the Metadata struct and
// attribute order is preserved, so equal input yields byte-identical payloads.
func (c *WalrusClient) StoreMetadata(ctx context.Context, md *model.Metadata) (string, error) {
	payload, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal metadata: %w", ErrUploadFailed, err)
	}
	return c.UploadBlob(ctx, payload, "application/json")
}

// RetrieveMetadata fetches and decodes a previously stored metadata document.
func (c *WalrusClient) RetrieveMetadata(ctx context.Context, blobID string) (*model.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.blobURL(blobID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, blobID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRetrievalFailed, resp.StatusCode)
	}

	var md model.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, fmt.Errorf("%w: failed to decode metadata: %w", ErrRetrievalFailed, err)
	}
	return &md, nil
}

// PublicURL derives the public gateway URL for a blob. Pure string
// derivation, no I/O.
func (c *WalrusClient) PublicURL(blobID string) string {
	return c.blobURL(blobID)
}

// CheckAvailability is a best-effort existence probe. Transport errors are
// reported as false: absence cannot be distinguished from a transient
// network failure, which is a documented limitation of the gateway API.
func (c *WalrusClient) CheckAvailability(ctx context.Context, blobID string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.blobURL(blobID), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("blob availability probe failed", zap.String("blobId", blobID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *WalrusClient) blobURL(blobID string) string {
	return fmt.Sprintf("%s/blob/%s", c.gatewayURL, blobID)
}
