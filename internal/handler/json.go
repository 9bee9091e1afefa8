package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Machine-readable error kinds, one per failure class clients can act on.
const (
	codeNotFound         = "not_found"
	codeInvalidInput     = "invalid_input"
	codeInvalidBody      = "invalid_request_body"
	codeInvalidCode      = "invalid_code"
	codeAlreadyDelivered = "already_delivered"
	codeForbidden        = "forbidden"
	codeUnauthorized     = "unauthorized"
	codePlacementFailed  = "order_placement_failed"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeInternalError logs the underlying cause and responds with a generic
// message; internals and credential material never reach the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// writeInternalErrorWithCode is writeInternalError with a specific error
// kind in the payload.
func writeInternalErrorWithCode(w http.ResponseWriter, r *http.Request, err error, code, msg string) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, code, msg)
}

// decodeBody parses the request body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBody, "malformed request body")
		return false
	}
	return true
}
