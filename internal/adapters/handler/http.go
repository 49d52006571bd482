package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

type GatewayService interface {
	GetBalance(ctx context.Context) (json.RawMessage, error)
	SubmitPayout(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error)
	QueryHistory(ctx context.Context, filters url.Values) (json.RawMessage, error)
}

type DirectoryService interface {
	ListBankCodes(ctx context.Context, page, limit int) (*domain.BankCodePage, error)
}

type ListingService interface {
	ListBanks(ctx context.Context) (*domain.BankListing, error)
}

type GatewayHandler struct {
	gateway   GatewayService
	directory DirectoryService
	listing   ListingService
	logger    *slog.Logger
}

func NewGatewayHandler(
	gateway GatewayService,
	directory DirectoryService,
	listing ListingService,
	logger *slog.Logger,
) *GatewayHandler {
	return &GatewayHandler{
		gateway:   gateway,
		directory: directory,
		listing:   listing,
		logger:    logger.With("component", "handler"),
	}
}

func (h *GatewayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bankcodes", h.HandleBankCodes)
	mux.HandleFunc("GET /api/vietqr-banks", h.HandleVietQRBanks)
	mux.HandleFunc("GET /api/balance", h.HandleBalance)
	mux.HandleFunc("POST /api/payouts", h.HandleSubmitPayout)
	mux.HandleFunc("GET /api/history", h.HandleHistory)
}
