package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/admincheck123/payos-payout/internal/cache"
	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/admincheck123/payos-payout/internal/core/normalize"
	"github.com/admincheck123/payos-payout/internal/core/ports"
	"github.com/admincheck123/payos-payout/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	directoryCacheKey = "bankcodes"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// BankCodeCandidates is the probe order for the processor's bank-code directory:
// newest API version first, unversioned last, GET before POST within each version.
var BankCodeCandidates = []domain.EndpointCandidate{
	{Method: "GET", Path: "/v2/gateway/api/bankcodes"},
	{Method: "POST", Path: "/v2/gateway/api/bankcodes"},
	{Method: "GET", Path: "/v1/gateway/api/bankcodes"},
	{Method: "POST", Path: "/v1/gateway/api/bankcodes"},
	{Method: "GET", Path: "/gateway/api/bankcodes"},
	{Method: "POST", Path: "/gateway/api/bankcodes"},
}

var errNoUsableCandidate = errors.New("no bank-code candidate returned a usable listing")

// DirectoryResolver resolves the processor bank-code directory with caching and a local fallback.
type DirectoryResolver struct {
	prober     ports.BankCodeProber
	snapshot   ports.SnapshotLoader
	candidates []domain.EndpointCandidate
	cache      *cache.TTL[string, []domain.BankEntry]
	ttl        time.Duration
	flight     singleflight.Group
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

const tracerName = "github.com/admincheck123/payos-payout/internal/core/service"

type DirectoryOption func(*DirectoryResolver)

func WithCandidates(candidates []domain.EndpointCandidate) DirectoryOption {
	return func(r *DirectoryResolver) {
		r.candidates = candidates
	}
}

func WithDirectoryCache(c *cache.TTL[string, []domain.BankEntry]) DirectoryOption {
	return func(r *DirectoryResolver) {
		r.cache = c
	}
}

func WithDirectoryMetrics(m *metrics.Metrics) DirectoryOption {
	return func(r *DirectoryResolver) {
		r.metrics = m
	}
}

// WithTracerProvider takes probe spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) DirectoryOption {
	return func(r *DirectoryResolver) {
		r.tracer = tp.Tracer(tracerName)
	}
}

func NewDirectoryResolver(
	prober ports.BankCodeProber,
	snapshot ports.SnapshotLoader,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...DirectoryOption,
) *DirectoryResolver {
	r := &DirectoryResolver{
		prober:     prober,
		snapshot:   snapshot,
		candidates: BankCodeCandidates,
		cache:      cache.New[string, []domain.BankEntry](),
		ttl:        ttl,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.With("component", "directory"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the bank-code directory, from cache when fresh.
// Concurrent misses share one resolution. The returned slice is shared and must not be modified.
func (r *DirectoryResolver) Resolve(ctx context.Context) ([]domain.BankEntry, error) {
	if entries, ok := r.cache.Get(directoryCacheKey); ok {
		r.metrics.ObserveCache(directoryCacheKey, true)
		return entries, nil
	}
	r.metrics.ObserveCache(directoryCacheKey, false)
	return r.load(ctx, true)
}

// Refresh resolves the directory again regardless of the cache and stores the result.
func (r *DirectoryResolver) Refresh(ctx context.Context) ([]domain.BankEntry, error) {
	return r.load(ctx, false)
}

func (r *DirectoryResolver) load(ctx context.Context, useCache bool) ([]domain.BankEntry, error) {
	v, err, _ := r.flight.Do(directoryCacheKey, func() (any, error) {
		if useCache {
			if entries, ok := r.cache.Get(directoryCacheKey); ok {
				return entries, nil
			}
		}
		// Waiters share this resolution, so one caller going away must not cancel it.
		return r.resolve(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.BankEntry), nil
}

func (r *DirectoryResolver) resolve(ctx context.Context) ([]domain.BankEntry, error) {
	entries, err := r.probeCandidates(ctx)
	if err == nil {
		r.metrics.ObserveResolution("processor")
		r.cache.Set(directoryCacheKey, entries, r.ttl)
		return entries, nil
	}

	entries, fallbackErr := r.loadSnapshot(ctx)
	if fallbackErr != nil {
		r.logger.ErrorContext(ctx, "bank directory unavailable",
			"candidates", len(r.candidates),
			"error", fallbackErr,
		)
		r.metrics.ObserveResolution("unavailable")
		return nil, domain.NewDirectoryUnavailableError(errors.Join(err, fallbackErr))
	}

	r.logger.InfoContext(ctx, "using local bank-code snapshot", "items", len(entries))
	r.metrics.ObserveResolution("fallback")
	r.cache.Set(directoryCacheKey, entries, r.ttl)
	return entries, nil
}

// probeCandidates tries each candidate once, in order. The first usable listing wins.
func (r *DirectoryResolver) probeCandidates(ctx context.Context) ([]domain.BankEntry, error) {
	for _, candidate := range r.candidates {
		entries, err := r.probe(ctx, candidate)
		if err != nil {
			r.logger.WarnContext(ctx, "bank-code candidate failed",
				"candidate", candidate.String(),
				"error", err,
			)
			continue
		}
		r.logger.InfoContext(ctx, "bank-code candidate succeeded",
			"candidate", candidate.String(),
			"items", len(entries),
		)
		return entries, nil
	}
	return nil, errNoUsableCandidate
}

func (r *DirectoryResolver) probe(ctx context.Context, candidate domain.EndpointCandidate) ([]domain.BankEntry, error) {
	ctx, span := r.tracer.Start(ctx, "directory.probe", trace.WithAttributes(
		attribute.String("http.request.method", candidate.Method),
		attribute.String("url.path", candidate.Path),
	))
	defer span.End()

	body, err := r.prober.ProbeBankCodes(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "probe failed")
		return nil, err
	}

	entries, shape, ok := normalize.Body(body)
	if !ok || len(entries) == 0 {
		span.SetStatus(codes.Error, "no usable listing")
		return nil, errors.New("response carries no usable bank listing")
	}
	span.SetAttributes(
		attribute.String("directory.shape", shape.String()),
		attribute.Int("directory.items", len(entries)),
	)
	return entries, nil
}

func (r *DirectoryResolver) loadSnapshot(ctx context.Context) ([]domain.BankEntry, error) {
	data, err := r.snapshot.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	entries, _, ok := normalize.Body(data)
	if !ok {
		return nil, errors.New("bank-code snapshot is not a recognizable listing")
	}
	return entries, nil
}

// ListBankCodes returns one page of the directory sorted case-insensitively by short name.
// page is 1-based; page below 1 becomes 1 and limit is clamped to [1, MaxPageSize].
func (r *DirectoryResolver) ListBankCodes(ctx context.Context, page, limit int) (*domain.BankCodePage, error) {
	all, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	page = max(1, page)
	limit = max(1, min(MaxPageSize, limit))

	sorted := slices.Clone(all)
	if sorted == nil {
		sorted = []domain.BankEntry{}
	}
	slices.SortStableFunc(sorted, func(a, b domain.BankEntry) int {
		return strings.Compare(strings.ToLower(a.ShortName), strings.ToLower(b.ShortName))
	})

	total := len(sorted)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return &domain.BankCodePage{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Data:       sorted[start:end:end],
	}, nil
}
