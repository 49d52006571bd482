package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

// ErrorResponse is the body of every failed call. Message carries the processor's
// own error body when there is one, otherwise a string.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Message any    `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondWithRaw writes an upstream body without re-encoding it.
func respondWithRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, resp := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	respondWithJSON(w, status, resp)
}

func mapError(err error) (int, ErrorResponse) {
	if upErr, ok := domain.IsUpstreamError(err); ok {
		resp := ErrorResponse{Error: true, Code: domain.ErrCodeUpstream, Message: upErr.Error()}
		if len(upErr.Body) > 0 {
			resp.Message = upErr.Body
		}
		if upErr.StatusCode == 0 {
			return http.StatusBadGateway, resp
		}
		return upErr.StatusCode, resp
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{Error: true, Code: domainErr.Code, Message: domainErr.Message}
		switch domainErr.Code {
		case domain.ErrCodeValidation, domain.ErrCodeInvalidRequestPayload:
			return http.StatusBadRequest, resp
		case domain.ErrCodeDirectoryUnavailable:
			return http.StatusServiceUnavailable, resp
		case domain.ErrCodeSecondaryDirectory:
			if domainErr.Err != nil {
				resp.Detail = domainErr.Err.Error()
			}
			return http.StatusInternalServerError, resp
		default:
			return http.StatusBadRequest, resp
		}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: true, Code: "INTERNAL_ERROR", Message: err.Error()}
}
