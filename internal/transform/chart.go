package transform

import (
	"sort"
	"time"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// TransformChartData converts the raw daily time series into the canonical
// chart series: the most recent MaxChartPoints days, sorted ascending by
// date. Malformed dates are skipped; malformed OHLCV fields degrade to nil.
// Empty or nil input yields an empty series, never an error.
func TransformChartData(series models.TimeSeriesPayload) []models.ChartPoint {
	if len(series) == 0 {
		return []models.ChartPoint{}
	}

	type dated struct {
		date time.Time
		bar  models.DailyBar
	}

	days := make([]dated, 0, len(series))
	for dateStr, bar := range series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		days = append(days, dated{date: date, bar: bar})
	}

	// Most recent first, so the cap keeps the newest window.
	sort.Slice(days, func(i, j int) bool { return days[i].date.After(days[j].date) })
	if len(days) > common.MaxChartPoints {
		days = days[:common.MaxChartPoints]
	}

	points := make([]models.ChartPoint, 0, len(days))
	for _, d := range days {
		points = append(points, models.ChartPoint{
			Date:   d.date,
			Open:   ParseNumber(d.bar.Open),
			High:   ParseNumber(d.bar.High),
			Low:    ParseNumber(d.bar.Low),
			Close:  ParseNumber(d.bar.Close),
			Volume: ParseNumber(d.bar.Volume),
		})
	}

	// Charts want oldest first.
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// CreateHistoricalTrends unions fiscal years from the income statement and
// balance sheet and pairs whatever each side has for that exact fiscal
// date. A year missing one side keeps nil fields for it instead of being
// dropped. At most MaxTrendYears most recent years are kept.
func CreateHistoricalTrends(income, balance *models.StatementPayload) []models.HistoricalTrend {
	incomeByYear := reportsByFiscalDate(income)
	balanceByYear := reportsByFiscalDate(balance)

	yearSet := make(map[string]struct{}, len(incomeByYear)+len(balanceByYear))
	for y := range incomeByYear {
		yearSet[y] = struct{}{}
	}
	for y := range balanceByYear {
		yearSet[y] = struct{}{}
	}

	years := make([]string, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	if len(years) > common.MaxTrendYears {
		years = years[:common.MaxTrendYears]
	}

	trends := make([]models.HistoricalTrend, 0, len(years))
	for _, fiscalDate := range years {
		inc := incomeByYear[fiscalDate]
		bal := balanceByYear[fiscalDate]

		year := fiscalDate
		if len(year) > 4 {
			year = year[:4]
		}

		trends = append(trends, models.HistoricalTrend{
			Year:              year,
			Revenue:           ParseNumber(inc["totalRevenue"]),
			NetIncome:         ParseNumber(inc["netIncome"]),
			TotalAssets:       ParseNumber(bal["totalAssets"]),
			TotalLiabilities:  ParseNumber(bal["totalLiabilities"]),
			ShareholderEquity: ParseNumber(bal["totalShareholderEquity"]),
		})
	}

	return trends
}

func reportsByFiscalDate(statement *models.StatementPayload) map[string]models.AnnualReport {
	byDate := make(map[string]models.AnnualReport)
	if statement == nil {
		return byDate
	}
	for _, report := range statement.AnnualReports {
		if date := report.FiscalDateEnding(); date != "" {
			byDate[date] = report
		}
	}
	return byDate
}
