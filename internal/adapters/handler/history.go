package handler

import "net/http"

// HandleHistory proxies the caller's query string to the processor and returns its body as is.
func (h *GatewayHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	body, err := h.gateway.QueryHistory(r.Context(), r.URL.Query())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithRaw(w, http.StatusOK, body)
}
