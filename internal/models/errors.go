package models

import "errors"

// Error taxonomy for upstream and lookup failures. Transient provider
// conditions and missing records are distinct so callers can choose
// between retry and 404.
var (
	// ErrNotFound indicates a requested symbol, document, or session
	// does not exist in storage or at the provider.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the market-data provider rejected the
	// request with a rate-limit marker. Retryable.
	ErrRateLimited = errors.New("provider rate limited")
)
