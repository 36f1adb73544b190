package common

import "time"

// Default freshness TTLs. Staleness is always computed against "now" at
// read time, so changing a TTL reclassifies existing records immediately
// with no migration.
const (
	FreshnessCompanyData = 24 * time.Hour
	FreshnessAnalysis    = 7 * 24 * time.Hour
	FreshnessMovers      = 5 * time.Minute
	SessionExpiry        = 30 * 24 * time.Hour // idle chat sessions eligible for deletion
)

// Bounding constants for prompt and payload size.
const (
	MaxChartPoints     = 365   // one year of daily bars
	MaxTrendYears      = 5     // historical-trend depth
	MaxDocumentChars   = 15000 // document text prefix fed to the LLM
	MaxHistoryMessages = 10    // trailing chat window in prompt context
	MaxSearchResults   = 5     // web-search hits per turn
	MaxContextHoldings = 20    // holdings embedded in chat context
	MaxContextDocs     = 10    // completed documents embedded in chat context
	MaxMoversPerList   = 10    // gainers/losers/most-active kept per snapshot
	MaxIndicatorDays   = 90    // indicator series depth served to charts
	MaxScreenerResults = 50    // companies returned by screener and search
)

// Default lookback windows for technical indicators.
const (
	DefaultSMAPeriod = 20
	DefaultRSIPeriod = 14
)

// IsFresh returns true if the given timestamp is within the TTL.
// The boundary at exactly ttl is stale.
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
