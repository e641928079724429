package model

// GenerateResponse represents response for POST /wallet/generate
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}

// ConnectResponse represents response for POST /wallet/connect.
// Success=false with a message means the provider rejected the session
// request; callers render it inline, it is not a transport error.
type ConnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Address string `json:"address,omitempty"`
}

// ListRequest represents request for POST /nfts/{id}/list
type ListRequest struct {
	Price string `json:"price"`
}

// ActionResponse represents the outcome of a marketplace operation
// (list/unlist/buy). Expected failures come back as Success=false with a
// message rather than an HTTP error, so the caller can offer a retry.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	TxID    string `json:"txId,omitempty"`
}

// CreateNFTResponse represents response for POST /nfts
type CreateNFTResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	NFT     *NFT   `json:"nft,omitempty"`
}

// BlobStatusResponse represents response for GET /blobs/{id}/status
type BlobStatusResponse struct {
	BlobID    string `json:"blobId"`
	Available bool   `json:"available"`
	URL       string `json:"url"`
}
