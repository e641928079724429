package api

import (
	"net/http"

	"tusk/internal/client"
	"tusk/internal/handler"
	"tusk/internal/store"
	"tusk/internal/wallet"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "tusk/docs"
)

// SetupRouter sets up router with handlers
func SetupRouter(adapter *wallet.Adapter, s *store.Store, blobs *client.WalrusClient, log *zap.Logger) (http.Handler, error) {
	walletHandler, err := handler.NewWalletHandler(adapter, log)
	if err != nil {
		return nil, err
	}
	nftHandler := handler.NewNFTHandler(s, blobs, log)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/connect", walletHandler.Connect)
	mux.HandleFunc("/wallet/disconnect", walletHandler.Disconnect)
	mux.HandleFunc("/wallet/session", walletHandler.Session)
	mux.HandleFunc("/wallet/generate", walletHandler.Generate)

	// NFT endpoints
	mux.HandleFunc("/nfts", nftHandler.List)
	mux.HandleFunc("POST /nfts", nftHandler.Create)
	mux.HandleFunc("/nfts/mine", nftHandler.Mine)
	mux.HandleFunc("/nfts/refresh", nftHandler.Refresh)
	mux.HandleFunc("GET /nfts/{id}", nftHandler.Get)
	mux.HandleFunc("POST /nfts/{id}/list", nftHandler.ListForSale)
	mux.HandleFunc("POST /nfts/{id}/unlist", nftHandler.Unlist)
	mux.HandleFunc("POST /nfts/{id}/buy", nftHandler.Buy)

	// Blob endpoints
	mux.HandleFunc("GET /blobs/{id}/status", nftHandler.BlobStatus)

	return withRequestID(mux, log), nil
}

// withRequestID tags every request with an id for log correlation.
func withRequestID(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		log.Debug("request",
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))

		next.ServeHTTP(w, r)
	})
}
