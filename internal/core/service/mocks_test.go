package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) GetBalance(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func (m *MockProcessor) CreatePayout(ctx context.Context, payload map[string]any, idempotencyKey, signature string) (json.RawMessage, error) {
	args := m.Called(ctx, payload, idempotencyKey, signature)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

func (m *MockProcessor) ListPayouts(ctx context.Context, params url.Values) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	body, _ := args.Get(0).(json.RawMessage)
	return body, args.Error(1)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) ProbeBankCodes(ctx context.Context, candidate domain.EndpointCandidate) ([]byte, error) {
	args := m.Called(ctx, candidate)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type MockSnapshot struct {
	mock.Mock
}

func (m *MockSnapshot) LoadSnapshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type MockListingFetcher struct {
	mock.Mock
}

func (m *MockListingFetcher) FetchBankListing(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type fixedIssuer string

func (f fixedIssuer) Issue() string {
	return string(f)
}
