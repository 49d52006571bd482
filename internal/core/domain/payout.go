// Package domain defines the payout and bank-directory models of the gateway.
package domain

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
)

// PayoutRequest is the typed view of a caller's payout payload.
// The payload itself is what gets signed and forwarded; this struct only exists to validate it.
type PayoutRequest struct {
	ReferenceID     string   `json:"referenceId" validate:"required"`
	Amount          float64  `json:"amount" validate:"required,gt=0"`
	Description     string   `json:"description,omitempty"`
	ToBin           string   `json:"toBin" validate:"required"`
	ToAccountNumber string   `json:"toAccountNumber" validate:"required"`
	Category        []string `json:"category,omitempty"`
}

// PayoutResult is returned to the caller so it can audit exactly what was sent upstream.
type PayoutResult struct {
	IdempotencyKey    string          `json:"idempotencyKey"`
	Signature         string          `json:"signature"`
	ProcessorResponse json.RawMessage `json:"payosResponse"`
}

var payoutValidator = newPayoutValidator()

func newPayoutValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParsePayoutRequest reads the known fields out of a raw payload and validates them.
// Required fields that are missing or empty yield a VALIDATION_ERROR; nothing is defaulted.
func ParsePayoutRequest(payload map[string]any) (*PayoutRequest, error) {
	req := &PayoutRequest{
		ReferenceID:     stringField(payload, "referenceId"),
		Amount:          numberField(payload, "amount"),
		Description:     stringField(payload, "description"),
		ToBin:           stringField(payload, "toBin"),
		ToAccountNumber: stringField(payload, "toAccountNumber"),
		Category:        stringsField(payload, "category"),
	}

	if err := payoutValidator.Struct(req); err != nil {
		return nil, NewValidationError(validationMessage(err), err)
	}
	return req, nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "referenceId, amount, toBin, toAccountNumber are required"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "referenceId, amount, toBin, toAccountNumber are required (invalid: " + strings.Join(fields, ", ") + ")"
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func numberField(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringsField(payload map[string]any, key string) []string {
	switch v := payload[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
