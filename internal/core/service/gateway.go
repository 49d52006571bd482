package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/admincheck123/payos-payout/internal/core/ports"
	"github.com/admincheck123/payos-payout/internal/integrity"
)

// GatewayService executes balance, payout and history calls against the processor.
type GatewayService struct {
	processor   ports.ProcessorPort
	issuer      integrity.Issuer
	checksumKey string
	logger      *slog.Logger
}

func NewGatewayService(processor ports.ProcessorPort, issuer integrity.Issuer, checksumKey string, logger *slog.Logger) *GatewayService {
	return &GatewayService{
		processor:   processor,
		issuer:      issuer,
		checksumKey: checksumKey,
		logger:      logger.With("component", "gateway"),
	}
}

func (s *GatewayService) GetBalance(ctx context.Context) (json.RawMessage, error) {
	body, err := s.processor.GetBalance(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "balance query failed", "error", err)
		return nil, err
	}
	return body, nil
}

// SubmitPayout validates the payload, then signs and sends it unchanged.
// Validation failures never reach the network.
func (s *GatewayService) SubmitPayout(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
	req, err := domain.ParsePayoutRequest(payload)
	if err != nil {
		return nil, err
	}

	idempotencyKey := s.issuer.Issue()
	signature := integrity.Sign(payload, s.checksumKey)

	body, err := s.processor.CreatePayout(ctx, payload, idempotencyKey, signature)
	if err != nil {
		s.logger.ErrorContext(ctx, "payout submission failed",
			"reference_id", req.ReferenceID,
			"idempotency_key", idempotencyKey,
			"error", err,
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "payout submitted",
		"reference_id", req.ReferenceID,
		"idempotency_key", idempotencyKey,
	)

	return &domain.PayoutResult{
		IdempotencyKey:    idempotencyKey,
		Signature:         signature,
		ProcessorResponse: body,
	}, nil
}

// QueryHistory forwards filters verbatim and returns the processor body as is.
func (s *GatewayService) QueryHistory(ctx context.Context, filters url.Values) (json.RawMessage, error) {
	body, err := s.processor.ListPayouts(ctx, filters)
	if err != nil {
		s.logger.ErrorContext(ctx, "history query failed", "error", err)
		return nil, err
	}
	return body, nil
}
