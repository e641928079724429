package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tusk/internal/client"
	"tusk/internal/model"
	"tusk/internal/store"
	"tusk/internal/wallet"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, code string) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

// writeOperationError maps a failed store/wallet operation onto the API
// surface. Expected marketplace failures become 200 + inline notice so the
// caller can render a retry prompt; precondition violations get proper
// status codes.
func writeOperationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrNotConnected):
		writeError(w, http.StatusUnauthorized, err, model.CodeNotConnected)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, client.ErrNotFound):
		writeError(w, http.StatusNotFound, err, model.CodeNotFound)
	case errors.Is(err, store.ErrNotOwner):
		writeError(w, http.StatusForbidden, err, model.CodeNotOwner)
	case errors.Is(err, store.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, err, model.CodeInvalidPrice)
	case errors.Is(err, wallet.ErrTransactionFailed):
		// Expected outcome for list/unlist/buy: render inline, offer retry.
		writeJSON(w, http.StatusOK, model.ActionResponse{Success: false, Message: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, err, "")
	}
}
