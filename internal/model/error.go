package model

// ErrorResponse is the consistent JSON structure for all API error responses.
// Code carries the failure-taxonomy name so clients can branch without
// parsing the message.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Failure-taxonomy codes used in ErrorResponse.Code.
const (
	CodeNotConnected        = "NOT_CONNECTED"
	CodeConnectionRejected  = "CONNECTION_REJECTED"
	CodeUploadFailed        = "UPLOAD_FAILED"
	CodeRetrievalFailed     = "RETRIEVAL_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeNotOwner            = "NOT_OWNER"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeTransactionFailed   = "TRANSACTION_FAILED"
	CodeMintResultMalformed = "MINT_RESULT_MALFORMED"
	CodeCreationFailed      = "CREATION_FAILED"
)
