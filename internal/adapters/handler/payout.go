package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

const maxPayoutBody = 1 << 20

func (h *GatewayHandler) HandleSubmitPayout(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(http.MaxBytesReader(w, r.Body, maxPayoutBody))
	if err != nil {
		respondWithError(w, h.logger, domain.NewInvalidPayloadError(err))
		return
	}

	result, err := h.gateway.SubmitPayout(r.Context(), payload)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// decodeObject reads a JSON object keeping numbers as written, so the signature
// is computed over the same digits the caller sent. An empty body is an empty object.
func decodeObject(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("body is null")
	}
	return payload, nil
}
