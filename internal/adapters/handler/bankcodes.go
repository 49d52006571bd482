package handler

import (
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

func (h *GatewayHandler) HandleBankCodes(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", defaultPage)
	limit := intParam(r, "limit", defaultLimit)

	result, err := h.directory.ListBankCodes(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *GatewayHandler) HandleVietQRBanks(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listing.ListBanks(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
