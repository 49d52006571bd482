package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

// ProcessorPort defines the behavior of the external payout processor.
// Bodies are returned verbatim; the core never reshapes processor answers.
type ProcessorPort interface {
	GetBalance(ctx context.Context) (json.RawMessage, error)
	CreatePayout(ctx context.Context, payload map[string]any, idempotencyKey, signature string) (json.RawMessage, error)
	ListPayouts(ctx context.Context, params url.Values) (json.RawMessage, error)
}

// BankCodeProber issues one candidate request against the processor's bank-code directory.
type BankCodeProber interface {
	ProbeBankCodes(ctx context.Context, candidate domain.EndpointCandidate) ([]byte, error)
}
