package portfolio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderAllocationChart renders the portfolio allocation (holdings by
// market value, plus cash) as a PNG pie chart.
func (s *Service) RenderAllocationChart(ctx context.Context, userID string) ([]byte, error) {
	summary, err := s.GetPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summary.Holdings) == 0 {
		return nil, fmt.Errorf("no holdings to chart")
	}

	values := make([]chart.Value, 0, len(summary.Holdings)+1)
	for _, h := range summary.Holdings {
		value := h.Quantity * h.CurrentPrice
		if value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s ($%.0f)", h.Symbol, value),
			Value: value,
		})
	}
	if summary.CashBalance > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Cash ($%.0f)", summary.CashBalance),
			Value: summary.CashBalance,
		})
	}

	pie := chart.PieChart{
		Title:  "Portfolio Allocation",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
