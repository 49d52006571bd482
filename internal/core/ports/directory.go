package ports

import "context"

// SnapshotLoader reads the bundled bank-code snapshot used when every processor candidate failed.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) ([]byte, error)
}

// BankListingFetcher fetches the public bank listing. It has no fallback.
type BankListingFetcher interface {
	FetchBankListing(ctx context.Context) ([]byte, error)
}
