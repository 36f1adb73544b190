package transform

import (
	"testing"

	"github.com/Tejaspatil1175/finora/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"", nil},
		{"None", nil},
		{"-", nil},
		{"N/A", nil},
		{"not a number", nil},
		{"12,345", nil},
		{"0", fptr(0)},
		{"3.14", fptr(3.14)},
		{"-42.5", fptr(-42.5)},
		{"2.5e9", fptr(2.5e9)},
	}

	for _, tc := range tests {
		got := ParseNumber(tc.input)
		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseNumber(%q) = %v, want nil", tc.input, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseNumber(%q) = nil, want %v", tc.input, *tc.want)
			continue
		}
		if *got != *tc.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tc.input, *got, *tc.want)
		}
	}
}

func TestNormalizeMetrics_NilPayloads(t *testing.T) {
	metrics := NormalizeMetrics(nil, nil, nil, nil)

	if metrics.Symbol != "" || metrics.Name != "" {
		t.Errorf("expected empty symbol and name, got %q / %q", metrics.Symbol, metrics.Name)
	}
	if metrics.Sector != "N/A" || metrics.Industry != "N/A" {
		t.Errorf("expected sector/industry N/A, got %q / %q", metrics.Sector, metrics.Industry)
	}
	if metrics.MarketCap != nil || metrics.Revenue != nil || metrics.ROE != nil {
		t.Error("expected all numeric fields nil for empty payloads")
	}
}

func TestNormalizeMetrics_NameFallsBackToSymbol(t *testing.T) {
	metrics := NormalizeMetrics(&models.OverviewPayload{Symbol: "AAPL"}, nil, nil, nil)
	if metrics.Name != "AAPL" {
		t.Errorf("Name = %q, want symbol fallback AAPL", metrics.Name)
	}
}

func TestNormalizeMetrics_PicksLatestAnnualReport(t *testing.T) {
	// Older report first: the sort must not trust provider ordering.
	income := &models.StatementPayload{
		Symbol: "MSFT",
		AnnualReports: []models.AnnualReport{
			{"fiscalDateEnding": "2022-06-30", "totalRevenue": "198270000000", "netIncome": "72738000000"},
			{"fiscalDateEnding": "2024-06-30", "totalRevenue": "245122000000", "netIncome": "88136000000"},
			{"fiscalDateEnding": "2023-06-30", "totalRevenue": "211915000000", "netIncome": "72361000000"},
		},
	}
	balance := &models.StatementPayload{
		Symbol: "MSFT",
		AnnualReports: []models.AnnualReport{
			{"fiscalDateEnding": "2024-06-30", "currentRatio": "1.27"},
		},
	}

	metrics := NormalizeMetrics(&models.OverviewPayload{Symbol: "MSFT", Name: "Microsoft"}, income, balance, nil)

	if metrics.Revenue == nil || *metrics.Revenue != 245122000000 {
		t.Errorf("Revenue = %v, want latest fiscal year's 245122000000", metrics.Revenue)
	}
	if metrics.NetIncome == nil || *metrics.NetIncome != 88136000000 {
		t.Errorf("NetIncome = %v, want 88136000000", metrics.NetIncome)
	}
	if metrics.CurrentRatio == nil || *metrics.CurrentRatio != 1.27 {
		t.Errorf("CurrentRatio = %v, want 1.27", metrics.CurrentRatio)
	}
}

func TestNormalizeMetrics_MalformedFieldsDegradeToNil(t *testing.T) {
	overview := &models.OverviewPayload{
		Symbol:               "XYZ",
		MarketCapitalization: "None",
		PERatio:              "garbage",
		EPS:                  "4.21",
	}
	metrics := NormalizeMetrics(overview, nil, nil, nil)

	if metrics.MarketCap != nil {
		t.Error("MarketCap should be nil for None")
	}
	if metrics.PERatio != nil {
		t.Error("PERatio should be nil for unparsable input")
	}
	if metrics.EPS == nil || *metrics.EPS != 4.21 {
		t.Errorf("EPS = %v, want 4.21", metrics.EPS)
	}
}

func TestCalculateDerivedMetrics(t *testing.T) {
	base := models.CompanyMetrics{
		Revenue:   fptr(200),
		NetIncome: fptr(50),
		MarketCap: fptr(1000),
	}

	derived := CalculateDerivedMetrics(base)
	if derived.ProfitMargin == nil || *derived.ProfitMargin != 25 {
		t.Errorf("ProfitMargin = %v, want 25", derived.ProfitMargin)
	}
	if derived.ROE == nil || *derived.ROE != 5 {
		t.Errorf("ROE = %v, want 5", derived.ROE)
	}
}

func TestCalculateDerivedMetrics_KeepsProviderValues(t *testing.T) {
	base := models.CompanyMetrics{
		Revenue:      fptr(200),
		NetIncome:    fptr(50),
		MarketCap:    fptr(1000),
		ProfitMargin: fptr(24.1),
		ROE:          fptr(33.3),
	}

	derived := CalculateDerivedMetrics(base)
	if *derived.ProfitMargin != 24.1 {
		t.Errorf("ProfitMargin overwritten: %v", *derived.ProfitMargin)
	}
	if *derived.ROE != 33.3 {
		t.Errorf("ROE overwritten: %v", *derived.ROE)
	}
}

func TestCalculateDerivedMetrics_ZeroDenominators(t *testing.T) {
	base := models.CompanyMetrics{
		Revenue:   fptr(0),
		NetIncome: fptr(50),
		MarketCap: fptr(0),
	}

	derived := CalculateDerivedMetrics(base)
	if derived.ProfitMargin != nil {
		t.Errorf("ProfitMargin = %v, want nil for zero revenue", *derived.ProfitMargin)
	}
	if derived.ROE != nil {
		t.Errorf("ROE = %v, want nil for zero market cap", *derived.ROE)
	}
}
