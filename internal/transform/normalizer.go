// Package transform normalizes raw provider payloads into the canonical
// metrics and chart model.
package transform

import (
	"sort"
	"strconv"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// ParseNumber safely parses a provider numeric field. The provider reports
// missing values as "None" or omits them; anything unparsable degrades to
// nil rather than an error.
func ParseNumber(value string) *float64 {
	if value == "" || value == "None" || value == "-" || value == "N/A" {
		return nil
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &num
}

// latestAnnualReport returns the most recent annual report of a statement.
// The provider contract orders annualReports newest-first; rather than
// trusting that, reports are sorted by fiscalDateEnding descending here.
// An absent statement yields an empty report, so every field reads as
// missing.
func latestAnnualReport(statement *models.StatementPayload) models.AnnualReport {
	if statement == nil || len(statement.AnnualReports) == 0 {
		return models.AnnualReport{}
	}
	reports := make([]models.AnnualReport, len(statement.AnnualReports))
	copy(reports, statement.AnnualReports)
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].FiscalDateEnding() > reports[j].FiscalDateEnding()
	})
	return reports[0]
}

// NormalizeMetrics converts the heterogeneous provider reports into one
// canonical CompanyMetrics record. Malformed numeric input always degrades
// to nil; this function never fails.
func NormalizeMetrics(overview *models.OverviewPayload, income, balance, cashFlow *models.StatementPayload) models.CompanyMetrics {
	if overview == nil {
		overview = &models.OverviewPayload{}
	}
	latestIncome := latestAnnualReport(income)
	latestBalance := latestAnnualReport(balance)
	_ = latestAnnualReport(cashFlow) // cash flow retained raw; no normalized fields yet

	name := overview.Name
	if name == "" {
		name = overview.Symbol
	}

	sector := overview.Sector
	if sector == "" {
		sector = "N/A"
	}
	industry := overview.Industry
	if industry == "" {
		industry = "N/A"
	}

	return models.CompanyMetrics{
		Symbol: overview.Symbol,
		Name:   name,

		MarketCap:     ParseNumber(overview.MarketCapitalization),
		PERatio:       ParseNumber(overview.PERatio),
		EPS:           ParseNumber(overview.EPS),
		BookValue:     ParseNumber(overview.BookValue),
		DividendYield: ParseNumber(overview.DividendYield),
		Beta:          ParseNumber(overview.Beta),

		ProfitMargin: ParseNumber(overview.ProfitMargin),
		Revenue:      ParseNumber(latestIncome["totalRevenue"]),
		NetIncome:    ParseNumber(latestIncome["netIncome"]),
		ROE:          ParseNumber(overview.ReturnOnEquityTTM),
		ROA:          ParseNumber(overview.ReturnOnAssetsTTM),

		DebtEquity:   ParseNumber(overview.DebtToEquity),
		CurrentRatio: ParseNumber(latestBalance["currentRatio"]),
		QuickRatio:   ParseNumber(latestBalance["quickRatio"]),

		FiftyTwoWeekHigh: ParseNumber(overview.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  ParseNumber(overview.FiftyTwoWeekLow),

		Sector:      sector,
		Industry:    industry,
		Description: overview.Description,
	}
}

// CalculateDerivedMetrics fills gaps the provider left. Profit margin is
// derived from net income over revenue. ROE, when missing, is approximated
// with market cap in place of shareholder equity, a known imprecision.
func CalculateDerivedMetrics(metrics models.CompanyMetrics) models.CompanyMetrics {
	derived := metrics

	if derived.ProfitMargin == nil && derived.NetIncome != nil && derived.Revenue != nil && *derived.Revenue != 0 {
		v := *derived.NetIncome / *derived.Revenue * 100
		derived.ProfitMargin = &v
	}

	if derived.ROE == nil && derived.NetIncome != nil && derived.MarketCap != nil && *derived.MarketCap != 0 {
		v := *derived.NetIncome / *derived.MarketCap * 100
		derived.ROE = &v
	}

	return derived
}
