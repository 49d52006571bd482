package handler

import "net/http"

func (h *GatewayHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	body, err := h.gateway.GetBalance(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithRaw(w, http.StatusOK, body)
}
