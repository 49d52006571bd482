package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock services
type mockGatewayService struct {
	getBalanceFn   func(ctx context.Context) (json.RawMessage, error)
	submitPayoutFn func(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error)
	queryHistoryFn func(ctx context.Context, filters url.Values) (json.RawMessage, error)
}

func (m *mockGatewayService) GetBalance(ctx context.Context) (json.RawMessage, error) {
	return m.getBalanceFn(ctx)
}

func (m *mockGatewayService) SubmitPayout(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
	return m.submitPayoutFn(ctx, payload)
}

func (m *mockGatewayService) QueryHistory(ctx context.Context, filters url.Values) (json.RawMessage, error) {
	return m.queryHistoryFn(ctx, filters)
}

type mockDirectoryService struct {
	listBankCodesFn func(ctx context.Context, page, limit int) (*domain.BankCodePage, error)
}

func (m *mockDirectoryService) ListBankCodes(ctx context.Context, page, limit int) (*domain.BankCodePage, error) {
	return m.listBankCodesFn(ctx, page, limit)
}

type mockListingService struct {
	listBanksFn func(ctx context.Context) (*domain.BankListing, error)
}

func (m *mockListingService) ListBanks(ctx context.Context) (*domain.BankListing, error) {
	return m.listBanksFn(ctx)
}

func newTestMux(gw GatewayService, dir DirectoryService, listing ListingService) *http.ServeMux {
	mux := http.NewServeMux()
	NewGatewayHandler(gw, dir, listing, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func serve(mux *http.ServeMux, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestHandleSubmitPayout_Success(t *testing.T) {
	var got map[string]any
	gw := &mockGatewayService{
		submitPayoutFn: func(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
			got = payload
			return &domain.PayoutResult{
				IdempotencyKey:    "idem-1",
				Signature:         "abc123",
				ProcessorResponse: json.RawMessage(`{"code":"00","data":{"id":"po_1"}}`),
			}, nil
		},
	}

	body := `{"referenceId":"r1","amount":50000,"toBin":"970436","toAccountNumber":"0011002233"}`
	rr := serve(newTestMux(gw, nil, nil), http.MethodPost, "/api/payouts", strings.NewReader(body))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"idempotencyKey":"idem-1","signature":"abc123","payosResponse":{"code":"00","data":{"id":"po_1"}}}`, rr.Body.String())
	assert.Equal(t, json.Number("50000"), got["amount"])
}

func TestHandleSubmitPayout_ValidationError(t *testing.T) {
	gw := &mockGatewayService{
		submitPayoutFn: func(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
			return nil, domain.NewValidationError("referenceId, amount, toBin, toAccountNumber are required", nil)
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodPost, "/api/payouts", strings.NewReader(`{"amount":1}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":true,"code":"VALIDATION_ERROR","message":"referenceId, amount, toBin, toAccountNumber are required"}`, rr.Body.String())
}

func TestHandleSubmitPayout_MalformedBody(t *testing.T) {
	gw := &mockGatewayService{
		submitPayoutFn: func(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodPost, "/api/payouts", strings.NewReader(`[1,2`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), domain.ErrCodeInvalidRequestPayload)
}

func TestHandleSubmitPayout_UpstreamStatusPassesThrough(t *testing.T) {
	gw := &mockGatewayService{
		submitPayoutFn: func(ctx context.Context, payload map[string]any) (*domain.PayoutResult, error) {
			return nil, &domain.UpstreamError{
				Operation:  "payouts.create",
				StatusCode: http.StatusUnauthorized,
				Body:       json.RawMessage(`{"code":"201","desc":"signature invalid"}`),
			}
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodPost, "/api/payouts", strings.NewReader(`{}`))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":true,"code":"UPSTREAM_ERROR","message":{"code":"201","desc":"signature invalid"}}`, rr.Body.String())
}

func TestHandleBalance_TransportFailureIsBadGateway(t *testing.T) {
	gw := &mockGatewayService{
		getBalanceFn: func(ctx context.Context) (json.RawMessage, error) {
			return nil, &domain.UpstreamError{Operation: "balance", Err: context.DeadlineExceeded}
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodGet, "/api/balance", nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Contains(t, resp.Message, "deadline exceeded")
}

func TestHandleBalance_ReturnsBodyVerbatim(t *testing.T) {
	gw := &mockGatewayService{
		getBalanceFn: func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"code":"00","data":{"accountNumber":"123","balance":"990000"}}`), nil
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodGet, "/api/balance", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"code":"00","data":{"accountNumber":"123","balance":"990000"}}`, rr.Body.String())
}

func TestHandleHistory_ForwardsQuery(t *testing.T) {
	var got url.Values
	gw := &mockGatewayService{
		queryHistoryFn: func(ctx context.Context, filters url.Values) (json.RawMessage, error) {
			got = filters
			return json.RawMessage(`{"data":{"payouts":[],"pagination":{"total":0}}}`), nil
		},
	}

	rr := serve(newTestMux(gw, nil, nil), http.MethodGet, "/api/history?page=2&limit=20&referenceId=r1", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, url.Values{"page": {"2"}, "limit": {"20"}, "referenceId": {"r1"}}, got)
	assert.JSONEq(t, `{"data":{"payouts":[],"pagination":{"total":0}}}`, rr.Body.String())
}

func TestHandleBankCodes_DefaultsAndParams(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", target: "/api/bankcodes", wantPage: 1, wantLimit: 10},
		{name: "explicit", target: "/api/bankcodes?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "unparseable falls back", target: "/api/bankcodes?page=abc&limit=x", wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPage, gotLimit int
			dir := &mockDirectoryService{
				listBankCodesFn: func(ctx context.Context, page, limit int) (*domain.BankCodePage, error) {
					gotPage, gotLimit = page, limit
					return &domain.BankCodePage{Total: 0, Page: page, Limit: limit, Data: []domain.BankEntry{}}, nil
				},
			}

			rr := serve(newTestMux(nil, dir, nil), http.MethodGet, tt.target, nil)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantPage, gotPage)
			assert.Equal(t, tt.wantLimit, gotLimit)
		})
	}
}

func TestHandleBankCodes_PageShape(t *testing.T) {
	dir := &mockDirectoryService{
		listBankCodesFn: func(ctx context.Context, page, limit int) (*domain.BankCodePage, error) {
			return &domain.BankCodePage{
				Total: 1, Page: 1, Limit: 10, TotalPages: 1,
				Data: []domain.BankEntry{{ShortName: "VCB", Bins: []string{"970436"}}},
			}, nil
		},
	}

	rr := serve(newTestMux(nil, dir, nil), http.MethodGet, "/api/bankcodes", nil)

	assert.JSONEq(t, `{"total":1,"page":1,"limit":10,"totalPages":1,"data":[{"shortName":"VCB","bins":["970436"]}]}`, rr.Body.String())
}

func TestHandleBankCodes_DirectoryUnavailable(t *testing.T) {
	dir := &mockDirectoryService{
		listBankCodesFn: func(ctx context.Context, page, limit int) (*domain.BankCodePage, error) {
			return nil, domain.NewDirectoryUnavailableError(nil)
		},
	}

	rr := serve(newTestMux(nil, dir, nil), http.MethodGet, "/api/bankcodes", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), domain.ErrCodeDirectoryUnavailable)
}

func TestHandleVietQRBanks(t *testing.T) {
	listing := &mockListingService{
		listBanksFn: func(ctx context.Context) (*domain.BankListing, error) {
			return &domain.BankListing{
				Source: domain.SourceCache,
				Data:   []domain.BankEntry{{ShortName: "VietinBank", Logo: "https://api.vietqr.io/img/ICB.png", Bins: []string{"970415"}}},
			}, nil
		},
	}

	rr := serve(newTestMux(nil, nil, listing), http.MethodGet, "/api/vietqr-banks", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"source":"cache","data":[{"shortName":"VietinBank","logo":"https://api.vietqr.io/img/ICB.png","bins":["970415"]}]}`, rr.Body.String())
}

func TestHandleVietQRBanks_Failure(t *testing.T) {
	listing := &mockListingService{
		listBanksFn: func(ctx context.Context) (*domain.BankListing, error) {
			return nil, domain.NewSecondaryDirectoryError(io.ErrUnexpectedEOF)
		},
	}

	rr := serve(newTestMux(nil, nil, listing), http.MethodGet, "/api/vietqr-banks", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":true,"code":"SECONDARY_DIRECTORY_ERROR","message":"could not fetch public bank listing","detail":"unexpected EOF"}`, rr.Body.String())
}

func TestSystemHandler(t *testing.T) {
	mux := http.NewServeMux()
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	NewSystemHandler(nil, metricsHandler).RegisterRoutes(mux)

	rr := serve(mux, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = serve(mux, http.MethodGet, "/metrics", nil)
	assert.Equal(t, "# metrics", rr.Body.String())

	rr = serve(mux, http.MethodGet, "/docs/openapi.json", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
