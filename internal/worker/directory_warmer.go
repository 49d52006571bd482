package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/admincheck123/payos-payout/internal/core/domain"
)

type DirectoryRefresher interface {
	Refresh(ctx context.Context) ([]domain.BankEntry, error)
}

// DirectoryWarmer re-resolves the bank-code directory on a fixed interval so
// callers rarely pay for a full candidate probe.
type DirectoryWarmer struct {
	directory DirectoryRefresher
	interval  time.Duration
	logger    *slog.Logger
}

func NewDirectoryWarmer(
	directory DirectoryRefresher,
	interval time.Duration,
	logger *slog.Logger,
) *DirectoryWarmer {
	return &DirectoryWarmer{
		directory: directory,
		interval:  interval,
		logger:    logger.With("component", "directory_warmer"),
	}
}

// Start blocks until ctx is done. A non-positive interval disables the warmer.
func (w *DirectoryWarmer) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("directory warmer disabled")
		return
	}

	w.logger.Info("directory warmer started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("directory warmer stopping")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *DirectoryWarmer) warm(ctx context.Context) {
	entries, err := w.directory.Refresh(ctx)
	if err != nil {
		w.logger.Error("directory warm-up failed", "error", err)
		return
	}
	w.logger.Debug("directory warmed", "items", len(entries))
}
