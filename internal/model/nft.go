package model

// Attribute is a single trait of an NFT. Attributes keep their insertion
// order, which matters for the canonical metadata encoding.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"` // string or number
}

// Metadata is the document persisted to blob storage for each token.
// Field order is fixed so that equal input always serializes to
// byte-identical JSON.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Creator     string      `json:"creator"`
	CreatedAt   string      `json:"created_at"` // ISO-8601
}

// NFT represents one token known to the client.
// Invariant: Listed == true iff Price is non-empty.
type NFT struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Owner       string   `json:"owner"`
	Creator     string   `json:"creator"`
	Price       string   `json:"price,omitempty"`
	Listed      bool     `json:"listed"`
	Metadata    Metadata `json:"metadata"`
	BlobID      string   `json:"blobId"`
}
