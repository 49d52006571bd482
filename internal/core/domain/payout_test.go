package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayoutRequest_Valid(t *testing.T) {
	payload := map[string]any{
		"referenceId":     "r1",
		"amount":          json.Number("50000"),
		"description":     "salary",
		"toBin":           "970436",
		"toAccountNumber": "0011002233",
		"category":        []any{"salary"},
	}

	req, err := domain.ParsePayoutRequest(payload)

	require.NoError(t, err)
	assert.Equal(t, "r1", req.ReferenceID)
	assert.Equal(t, 50000.0, req.Amount)
	assert.Equal(t, "970436", req.ToBin)
	assert.Equal(t, "0011002233", req.ToAccountNumber)
	assert.Equal(t, []string{"salary"}, req.Category)
}

func TestParsePayoutRequest_AcceptsNumericStrings(t *testing.T) {
	payload := map[string]any{
		"referenceId":     "r1",
		"amount":          "1000",
		"toBin":           json.Number("970436"),
		"toAccountNumber": json.Number("123"),
	}

	req, err := domain.ParsePayoutRequest(payload)

	require.NoError(t, err)
	assert.Equal(t, 1000.0, req.Amount)
	assert.Equal(t, "970436", req.ToBin)
	assert.Equal(t, "123", req.ToAccountNumber)
}

func TestParsePayoutRequest_MissingFields(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"referenceId":     "r1",
			"amount":          json.Number("1000"),
			"toBin":           "970436",
			"toAccountNumber": "123",
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"empty referenceId", func(p map[string]any) { p["referenceId"] = "" }, "referenceId"},
		{"missing referenceId", func(p map[string]any) { delete(p, "referenceId") }, "referenceId"},
		{"zero amount", func(p map[string]any) { p["amount"] = json.Number("0") }, "amount"},
		{"negative amount", func(p map[string]any) { p["amount"] = json.Number("-5") }, "amount"},
		{"non numeric amount", func(p map[string]any) { p["amount"] = "abc" }, "amount"},
		{"missing toBin", func(p map[string]any) { delete(p, "toBin") }, "toBin"},
		{"blank toAccountNumber", func(p map[string]any) { p["toAccountNumber"] = "   " }, "toAccountNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := valid()
			tt.mutate(payload)

			_, err := domain.ParsePayoutRequest(payload)

			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeValidation))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestUpstreamError_Message(t *testing.T) {
	err := &domain.UpstreamError{Operation: "balance", StatusCode: 401, Body: json.RawMessage(`{"code":"401"}`)}

	upErr, ok := domain.IsUpstreamError(err)

	require.True(t, ok)
	assert.Equal(t, 401, upErr.StatusCode)
	assert.Contains(t, err.Error(), "status: 401")
}
