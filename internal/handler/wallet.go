package handler

import (
	"errors"
	"net/http"

	"tusk/internal/config"
	"tusk/internal/model"
	"tusk/internal/wallet"

	"go.uber.org/zap"
)

// WalletHandler exposes wallet session operations
type WalletHandler struct {
	adapter  *wallet.Adapter
	filePath string
	network  string
	log      *zap.Logger
}

// NewWalletHandler creates a new WalletHandler with config values
func NewWalletHandler(adapter *wallet.Adapter, log *zap.Logger) (*WalletHandler, error) {
	cfg := config.Get()
	if cfg.WalletFilePath == "" {
		return nil, errors.New("WALLET_FILE_PATH not set")
	}

	network := wallet.NetworkLedger
	if cfg.WalletProvider == "solana" {
		network = wallet.NetworkSolana
	}

	return &WalletHandler{
		adapter:  adapter,
		filePath: cfg.WalletFilePath,
		network:  network,
		log:      log,
	}, nil
}

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Description  Establishes a session with the signing provider. Rejection is reported inline, not as an HTTP error.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.adapter.Connect(r.Context()); err != nil {
		if errors.Is(err, wallet.ErrConnectionRejected) || errors.Is(err, wallet.ErrConnectInProgress) {
			writeJSON(w, http.StatusOK, model.ConnectResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err, model.CodeConnectionRejected)
		return
	}

	address, _ := h.adapter.Address()
	writeJSON(w, http.StatusOK, model.ConnectResponse{
		Success: true,
		Address: address,
	})
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Description  Clears session state unconditionally
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ActionResponse
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.adapter.Disconnect()
	writeJSON(w, http.StatusOK, model.ActionResponse{Success: true, Message: "wallet disconnected"})
}

// Session handles GET /wallet/session
// @Summary      Get wallet session
// @Description  Returns current connection state and address
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.Session
// @Router       /wallet/session [get]
func (h *WalletHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.adapter.Session())
}

// Generate handles POST /wallet/generate
// @Summary      Generate new signing key
// @Description  Generates a new keypair and saves it to the encrypted .tusk key file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetWalletPasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	defer clear(passwordBytes) // Always clear password from memory

	address, err := wallet.GenerateKeyFile(h.filePath, h.network, passwordBytes)
	if err != nil {
		if errors.Is(err, wallet.ErrKeyFileExists) {
			writeError(w, http.StatusConflict, err, "")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "")
		return
	}

	h.log.Info("key file generated", zap.String("address", address))
	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Key file generated successfully",
		Address: address,
	})
}
