package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/admincheck123/payos-payout/internal/cache"
	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/admincheck123/payos-payout/internal/core/normalize"
	"github.com/admincheck123/payos-payout/internal/core/ports"
	"github.com/admincheck123/payos-payout/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const listingCacheKey = "vietqr-banks"

// BankListingService serves the public bank listing. Failures surface to the caller; there is no fallback.
type BankListingService struct {
	fetcher ports.BankListingFetcher
	cache   *cache.TTL[string, []domain.BankEntry]
	ttl     time.Duration
	flight  singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewBankListingService(
	fetcher ports.BankListingFetcher,
	c *cache.TTL[string, []domain.BankEntry],
	ttl time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BankListingService {
	if c == nil {
		c = cache.New[string, []domain.BankEntry]()
	}
	return &BankListingService{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "listing"),
	}
}

func (s *BankListingService) ListBanks(ctx context.Context) (*domain.BankListing, error) {
	if entries, ok := s.cache.Get(listingCacheKey); ok {
		s.metrics.ObserveCache(listingCacheKey, true)
		return &domain.BankListing{Source: domain.SourceCache, Data: entries}, nil
	}
	s.metrics.ObserveCache(listingCacheKey, false)

	v, err, _ := s.flight.Do(listingCacheKey, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return &domain.BankListing{Source: domain.SourceRemote, Data: v.([]domain.BankEntry)}, nil
}

func (s *BankListingService) fetch(ctx context.Context) ([]domain.BankEntry, error) {
	body, err := s.fetcher.FetchBankListing(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "bank listing fetch failed", "error", err)
		return nil, domain.NewSecondaryDirectoryError(err)
	}
	if !json.Valid(body) {
		s.logger.ErrorContext(ctx, "bank listing is not JSON")
		return nil, domain.NewSecondaryDirectoryError(errors.New("response is not valid JSON"))
	}

	// A JSON body of an unknown shape yields an empty listing.
	entries, _, ok := normalize.Body(body)
	if !ok {
		entries = []domain.BankEntry{}
	}

	s.cache.Set(listingCacheKey, entries, s.ttl)
	return entries, nil
}
