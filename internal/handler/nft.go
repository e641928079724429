package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tusk/internal/client"
	"tusk/internal/model"
	"tusk/internal/store"

	"go.uber.org/zap"
)

// maxImageBytes bounds create-NFT uploads. Larger images are rejected
// outright; the blob gateway enforces its own limit on top.
const maxImageBytes = 16 << 20

// NFTHandler exposes the NFT store operations
type NFTHandler struct {
	store *store.Store
	blobs *client.WalrusClient
	log   *zap.Logger
}

// NewNFTHandler creates a new NFTHandler
func NewNFTHandler(s *store.Store, blobs *client.WalrusClient, log *zap.Logger) *NFTHandler {
	return &NFTHandler{store: s, blobs: blobs, log: log}
}

// List handles GET /nfts
// @Summary      List NFTs
// @Description  Returns the full collection, optionally filtered by a search query or listing status
// @Tags         nfts
// @Produce      json
// @Param        search    query  string  false  "Substring match on name/description"
// @Param        listed    query  bool    false  "Only NFTs listed for sale"
// @Param        category  query  string  false  "Match on the category metadata attribute"
// @Success      200  {array}  model.NFT
// @Router       /nfts [get]
func (h *NFTHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var nfts []model.NFT
	switch {
	case r.URL.Query().Get("listed") == "true":
		nfts = h.store.ListedNFTs()
	case r.URL.Query().Get("category") != "":
		nfts = h.store.NFTsByCategory(r.URL.Query().Get("category"))
	case r.URL.Query().Get("search") != "":
		nfts = h.store.SearchNFTs(r.URL.Query().Get("search"))
	default:
		nfts = h.store.NFTs()
	}

	writeJSON(w, http.StatusOK, nfts)
}

// Mine handles GET /nfts/mine
// @Summary      List own NFTs
// @Description  Returns the NFTs owned by the connected wallet
// @Tags         nfts
// @Produce      json
// @Success      200  {array}  model.NFT
// @Router       /nfts/mine [get]
func (h *NFTHandler) Mine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.store.OwnedNFTs())
}

// Get handles GET /nfts/{id}
// @Summary      Get NFT by id
// @Tags         nfts
// @Produce      json
// @Param        id  path  string  true  "NFT identifier"
// @Success      200  {object}  model.NFT
// @Failure      404  {object}  model.ErrorResponse
// @Router       /nfts/{id} [get]
func (h *NFTHandler) Get(w http.ResponseWriter, r *http.Request) {
	nft, ok := h.store.GetNFTByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, store.ErrNotFound, model.CodeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, nft)
}

// Create handles POST /nfts
// @Summary      Mint a new NFT
// @Description  Uploads the image and metadata to blob storage, submits the mint call and returns the new record
// @Tags         nfts
// @Accept       mpfd
// @Produce      json
// @Param        name         formData  string  true   "Display name"
// @Param        description  formData  string  true   "Description"
// @Param        attributes   formData  string  false  "JSON array of {trait_type, value} pairs"
// @Param        image        formData  file    true   "Image file"
// @Success      200  {object}  model.CreateNFTResponse
// @Router       /nfts [post]
func (h *NFTHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"), "")
		return
	}

	// Attributes arrive as a JSON array so trait order survives the trip.
	var attributes []model.Attribute
	if raw := r.FormValue("attributes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &attributes); err != nil {
			writeError(w, http.StatusBadRequest, err, "")
			return
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("image file is required"), "")
		return
	}
	defer file.Close()

	// Read one byte past the cap so an oversized image is detected instead
	// of silently truncated.
	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds %d bytes", maxImageBytes), "")
		return
	}

	nft, err := h.store.CreateNFT(r.Context(), name, description, image, header.Header.Get("Content-Type"), attributes)
	if err != nil {
		h.log.Error("nft creation failed", zap.String("name", name), zap.Error(err))
		if errors.Is(err, store.ErrCreationFailed) {
			code := model.CodeCreationFailed
			if errors.Is(err, store.ErrMintResultMalformed) {
				code = model.CodeMintResultMalformed
			} else if errors.Is(err, client.ErrUploadFailed) {
				code = model.CodeUploadFailed
			}
			writeError(w, http.StatusBadGateway, err, code)
			return
		}
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateNFTResponse{Success: true, NFT: nft})
}

// ListForSale handles POST /nfts/{id}/list
// @Summary      List NFT for sale
// @Tags         nfts
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "NFT identifier"
// @Param        request  body  model.ListRequest  true  "Listing price"
// @Success      200  {object}  model.ActionResponse
// @Router       /nfts/{id}/list [post]
func (h *NFTHandler) ListForSale(w http.ResponseWriter, r *http.Request) {
	var req model.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	id := r.PathValue("id")
	if err := h.store.ListNFT(r.Context(), id, req.Price); err != nil {
		h.log.Warn("list failed", zap.String("id", id), zap.Error(err))
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ActionResponse{Success: true})
}

// Unlist handles POST /nfts/{id}/unlist
// @Summary      Withdraw NFT from sale
// @Tags         nfts
// @Produce      json
// @Param        id  path  string  true  "NFT identifier"
// @Success      200  {object}  model.ActionResponse
// @Router       /nfts/{id}/unlist [post]
func (h *NFTHandler) Unlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.UnlistNFT(r.Context(), id); err != nil {
		h.log.Warn("unlist failed", zap.String("id", id), zap.Error(err))
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ActionResponse{Success: true})
}

// Buy handles POST /nfts/{id}/buy
// @Summary      Buy a listed NFT
// @Tags         nfts
// @Produce      json
// @Param        id  path  string  true  "NFT identifier"
// @Success      200  {object}  model.ActionResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /nfts/{id}/buy [post]
func (h *NFTHandler) Buy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.BuyNFT(r.Context(), id); err != nil {
		h.log.Warn("buy failed", zap.String("id", id), zap.Error(err))
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ActionResponse{Success: true})
}

// Refresh handles POST /nfts/refresh
// @Summary      Refresh collections from the indexer
// @Description  Overwrites the selected collection wholesale from the external query service
// @Tags         nfts
// @Produce      json
// @Param        scope  query  string  false  "all (default), mine or listed"
// @Success      200  {object}  model.ActionResponse
// @Router       /nfts/refresh [post]
func (h *NFTHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var err error
	switch scope := r.URL.Query().Get("scope"); scope {
	case "mine":
		err = h.store.RefreshOwned(r.Context())
	case "listed":
		err = h.store.RefreshListed(r.Context())
	case "", "all":
		err = h.store.RefreshAll(r.Context())
	default:
		writeError(w, http.StatusBadRequest, errors.New("scope must be all, mine or listed"), "")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err, model.CodeRetrievalFailed)
		return
	}

	writeJSON(w, http.StatusOK, model.ActionResponse{Success: true})
}

// BlobStatus handles GET /blobs/{id}/status
// @Summary      Check blob availability
// @Description  Best-effort existence probe; transport failures read as unavailable
// @Tags         blobs
// @Produce      json
// @Param        id  path  string  true  "Blob identifier"
// @Success      200  {object}  model.BlobStatusResponse
// @Router       /blobs/{id}/status [get]
func (h *NFTHandler) BlobStatus(w http.ResponseWriter, r *http.Request) {
	blobID := r.PathValue("id")
	writeJSON(w, http.StatusOK, model.BlobStatusResponse{
		BlobID:    blobID,
		Available: h.blobs.CheckAvailability(r.Context(), blobID),
		URL:       h.blobs.PublicURL(blobID),
	})
}
