package handler

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// SystemHandler serves liveness, metrics and the API description.
type SystemHandler struct {
	doc     *openapi3.T
	metrics http.Handler
}

func NewSystemHandler(doc *openapi3.T, metrics http.Handler) *SystemHandler {
	return &SystemHandler{doc: doc, metrics: metrics}
}

func (h *SystemHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /docs/openapi.json", h.HandleOpenAPI)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SystemHandler) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if h.doc == nil {
		http.NotFound(w, r)
		return
	}
	respondWithJSON(w, http.StatusOK, h.doc)
}
