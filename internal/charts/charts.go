package charts

import (
	"bytes"

	"github.com/fintrack/fintrack/internal/domain/ledger"
	"github.com/wcharczuk/go-chart/v2"
)

// RenderCategoryBreakdown draws the dashboard's expense breakdown as a
// PNG bar chart, one bar per category in first-occurrence order.
// No expenses means no chart: callers get (nil, nil) and skip the
// image.
func RenderCategoryBreakdown(categories []ledger.CategoryAmount) ([]byte, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(categories))

	for _, c := range categories {
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: c.Amount.Float(),
		})
	}

	graph := chart.BarChart{
		Title:    "Expenses by category",
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer

	err := graph.Render(chart.PNG, &buf)

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
