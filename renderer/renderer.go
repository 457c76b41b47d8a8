// Package renderer turns household reports into markdown documents.
//
// Every report is a main template that includes shared partials, all of them embedded *.md
// files executed with text/template.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/etnz/household"
	"github.com/etnz/household/date"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// partials are available to every main template.
var partials = map[string]string{
	"breakdown": "breakdown.md",
}

var funcs = template.FuncMap{
	// dec formats an amount with two decimals.
	"dec": func(d decimal.Decimal) string { return d.StringFixed(2) },
	// delta formats an optional change, "-" when it is undefined.
	"delta": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		if d.IsPositive() {
			return "+" + d.StringFixed(2)
		}
		return d.StringFixed(2)
	},
	// pct formats an optional percentage, "-" when it is undefined.
	"pct": func(p *household.Percent) string {
		if p == nil {
			return "-"
		}
		return p.String()
	},
}

// renderTemplate renders a main template with the shared partials.
func renderTemplate(templateName, mainFile string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}
	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}
	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// titled is a breakdown with a title.
type titled struct {
	Title string
	household.Breakdown
}

// RenderSummary renders the assets, liabilities and net worth of a scope on a date.
func RenderSummary(s household.Summary) string { return renderTemplate("summary", "summary.md", s) }

// RenderMetrics renders the financial health indicators.
func RenderMetrics(m household.Metrics) string { return renderTemplate("metrics", "metrics.md", m) }

// RenderAllocation renders an asset or liability allocation under a title.
func RenderAllocation(title string, a household.Allocation) string {
	return renderTemplate("allocation", "allocation.md", struct {
		Title string
		household.Allocation
	}{title, a})
}

// RenderBreakdown renders a breakdown under a title.
func RenderBreakdown(title string, b household.Breakdown) string {
	return renderTemplate("shares", "shares.md", titled{title, b})
}

// RenderNetWorthByCurrency renders the net worth held in each currency.
func RenderNetWorthByCurrency(rows []household.CurrencyNetWorth) string {
	return renderTemplate("currencies", "currencies.md", rows)
}

// RenderNetWorthByMember renders the net worth of each family member on a date.
func RenderNetWorthByMember(on date.Date, rows []household.MemberNetWorth) string {
	return renderTemplate("members", "members.md", struct {
		AsOf date.Date
		Rows []household.MemberNetWorth
	}{on, rows})
}

// RenderTrend renders a net worth trend.
func RenderTrend(points []household.NetWorthPoint) string {
	return renderTemplate("trend", "trend.md", points)
}

// RenderSeries renders a series of points under a title.
func RenderSeries(title string, points []household.Point) string {
	return renderTemplate("series", "series.md", struct {
		Title  string
		Points []household.Point
	}{title, points})
}

// RenderAnnual renders an annual summary.
func RenderAnnual(s household.AnnualSummary) string { return renderTemplate("annual", "annual.md", s) }

// RenderInvestments renders investment returns, the last row being the total.
func RenderInvestments(title string, rows []household.InvestmentSummary) string {
	return renderTemplate("investments", "investments.md", struct {
		Title string
		Rows  []household.InvestmentSummary
	}{title, rows})
}

// RenderFlows renders the monthly deposits and withdrawals of an account.
func RenderFlows(title string, flows []household.MonthlyFlow) string {
	return renderTemplate("flows", "flows.md", struct {
		Title string
		Rows  []household.MonthlyFlow
	}{title, flows})
}

// RenderIncome renders the investment income of a month.
func RenderIncome(i household.MonthlyIncome) string { return renderTemplate("income", "income.md", i) }

// RenderBudget renders the budget execution of a year.
func RenderBudget(year int, rows []household.BudgetRow) string {
	return renderTemplate("budget", "budget.md", struct {
		Year int
		Rows []household.BudgetRow
	}{year, rows})
}

// RenderExpenses renders annual expense rollups.
func RenderExpenses(title string, rows []household.ExpenseYear) string {
	return renderTemplate("expenses", "expenses.md", struct {
		Title string
		Rows  []household.ExpenseYear
	}{title, rows})
}

// RenderRates renders a rate snapshot, one row per currency in alphabetical order.
func RenderRates(on date.Date, rates map[string]decimal.Decimal) string {
	type row struct {
		Currency string
		Rate     decimal.Decimal
	}
	rows := make([]row, 0, len(rates))
	for _, cur := range slices.Sorted(maps.Keys(rates)) {
		rows = append(rows, row{cur, rates[cur]})
	}
	return renderTemplate("rates", "rates.md", struct {
		AsOf date.Date
		Rows []row
	}{on, rows})
}
