// Package charts draws the dashboard charts as standalone HTML documents.
package charts

import (
	"errors"
	"fmt"
	"io"

	"finance-tracker/internal/models"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	KindBar  = "bar"
	KindPie  = "pie"
	KindLine = "line"

	incomeColor  = "green"
	expenseColor = "red"

	width  = "100%"
	height = "420px"
)

// Kinds lists the charts in the order the dashboard shows them.
var Kinds = []string{KindBar, KindPie, KindLine}

var ErrUnknownChart = errors.New("unknown chart")

func initOpts(title string) echarts.GlobalOpts {
	return echarts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     width,
		Height:    height,
	})
}

// IncomeExpenseBar compares the income and expense totals side by side.
func IncomeExpenseBar(totals models.TypeTotals) *echarts.Bar {
	const title = "Income vs. Expense"

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	bar.SetXAxis([]string{"Total"}).
		AddSeries("Income", []opts.BarData{{Value: totals.Income.InexactFloat64()}},
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: incomeColor})).
		AddSeries("Expense", []opts.BarData{{Value: totals.Expense.InexactFloat64()}},
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: expenseColor}))

	return bar
}

// ExpensePie shows each category's share of the expenses.
func ExpensePie(breakdown []models.CategorySummary) *echarts.Pie {
	const title = "Expenses by Category"

	data := make([]opts.PieData, 0, len(breakdown))
	for _, summary := range breakdown {
		data = append(data, opts.PieData{
			Name:  summary.Category,
			Value: summary.TotalAmount.InexactFloat64(),
		})
	}

	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		initOpts(title),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
	)
	pie.AddSeries("Expenses", data)

	return pie
}

// BalanceLine plots the running balance against the transaction dates.
func BalanceLine(points []models.BalancePoint) *echarts.Line {
	const title = "Balance Over Time"

	labels := make([]string, 0, len(points))
	data := make([]opts.LineData, 0, len(points))
	for _, point := range points {
		labels = append(labels, point.Label)
		data = append(data, opts.LineData{Value: point.Balance.InexactFloat64()})
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		initOpts(title),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Balance"}),
	)
	line.SetXAxis(labels).AddSeries("Balance", data)

	return line
}

// Render writes the chart of the given kind for dashboard to w.
func Render(w io.Writer, kind string, dashboard *models.Dashboard) error {
	if dashboard == nil {
		return errors.New("dashboard is required")
	}

	var err error
	switch kind {
	case KindBar:
		err = IncomeExpenseBar(dashboard.Totals).Render(w)
	case KindPie:
		err = ExpensePie(dashboard.CategoryBreakdown).Render(w)
	case KindLine:
		err = BalanceLine(dashboard.RunningBalance).Render(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", kind, err)
	}
	return nil
}
