package models

import "time"

// Mover is one entry in the gainers/losers/most-active lists.
type Mover struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changePercentage"`
	Volume    int64   `json:"volume"`
}

// MarketMovers is the cached top-movers snapshot. It goes stale quickly, so
// it carries its own short freshness TTL.
type MarketMovers struct {
	Key        string    `json:"-" badgerhold:"key"` // single well-known key
	TopGainers []Mover   `json:"topGainers"`
	TopLosers  []Mover   `json:"topLosers"`
	MostActive []Mover   `json:"mostActive"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// MoversKey is the storage key for the single movers snapshot.
const MoversKey = "market_movers"

// IndicatorPayload is a raw indicator series as reported by the provider,
// keyed by date with string-typed values.
type IndicatorPayload map[string]string

// IndicatorPoint is one dated indicator value.
type IndicatorPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// IndicatorSeries is a technical-indicator series for charting, ordered
// ascending by date. Current and Signal are set for oscillators like RSI
// and omitted for plain averages.
type IndicatorSeries struct {
	Symbol     string           `json:"symbol"`
	Indicator  string           `json:"indicator"`
	TimePeriod int              `json:"timePeriod"`
	Current    *float64         `json:"current,omitempty"`
	Signal     string           `json:"signal,omitempty"`
	Points     []IndicatorPoint `json:"data"`
}

// RSI signal bands.
const (
	SignalOverbought = "OVERBOUGHT"
	SignalOversold   = "OVERSOLD"
	SignalNeutral    = "NEUTRAL"
)

// IndicatorValue is the latest value of one indicator.
type IndicatorValue struct {
	Value  float64 `json:"value"`
	Period int     `json:"period"`
	Signal string  `json:"signal,omitempty"`
}

// IndicatorSnapshot bundles the latest values of every supported indicator
// for one symbol. An indicator the provider could not serve stays nil.
type IndicatorSnapshot struct {
	Symbol    string          `json:"symbol"`
	SMA       *IndicatorValue `json:"sma,omitempty"`
	RSI       *IndicatorValue `json:"rsi,omitempty"`
	FetchedAt time.Time       `json:"timestamp"`
}

// ScreenedCompany is the trimmed shape returned by the screener and by
// company search, drawn from stored company records.
type ScreenedCompany struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	MarketCap *float64 `json:"marketCap"`
	PERatio   *float64 `json:"peRatio"`
	Sector    string   `json:"sector"`
}

// Market cap bands for the screener filter.
const (
	LargeCapFloor   = 10_000_000_000
	SmallCapCeiling = 2_000_000_000
)
