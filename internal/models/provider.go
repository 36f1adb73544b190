package models

// Raw provider payload shapes. The provider reports every numeric field as
// a string ("123.45", "None"), so these stay string-typed and the transform
// layer owns the safe parse.

// OverviewPayload is the company overview report.
type OverviewPayload struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	EPS                  string `json:"EPS"`
	BookValue            string `json:"BookValue"`
	DividendYield        string `json:"DividendYield"`
	Beta                 string `json:"Beta"`
	ProfitMargin         string `json:"ProfitMargin"`
	ReturnOnEquityTTM    string `json:"ReturnOnEquityTTM"`
	ReturnOnAssetsTTM    string `json:"ReturnOnAssetsTTM"`
	DebtToEquity         string `json:"DebtToEquity"`
	FiftyTwoWeekHigh     string `json:"52WeekHigh"`
	FiftyTwoWeekLow      string `json:"52WeekLow"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	Description          string `json:"Description"`
}

// AnnualReport is one fiscal-year report from a financial statement. Field
// sets differ between income statements, balance sheets, and cash flows, so
// it stays a loose map; consumers read the keys they need and tolerate
// absence.
type AnnualReport map[string]string

// FiscalDateEnding returns the fiscal year-end date key, empty when absent.
func (r AnnualReport) FiscalDateEnding() string {
	return r["fiscalDateEnding"]
}

// StatementPayload is an income statement, balance sheet, or cash flow
// report. The provider orders AnnualReports newest-first; the transform
// layer re-sorts rather than trusting that ordering.
type StatementPayload struct {
	Symbol        string         `json:"symbol"`
	AnnualReports []AnnualReport `json:"annualReports"`
}

// DailyBar is one day of the raw daily time series.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesPayload maps "2006-01-02" date strings to daily bars.
type TimeSeriesPayload map[string]DailyBar
