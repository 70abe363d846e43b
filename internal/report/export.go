package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/money"
	"github.com/sells-group/propertycalc/internal/risk"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Line is one labelled value of a rendered snapshot.
type Line struct {
	Section string
	Label   string
	Value   string
}

// Lines renders a snapshot as display lines, in report order.
func Lines(s model.Snapshot) []Line {
	var out []Line
	add := func(section, label, value string) {
		out = append(out, Line{Section: section, Label: label, Value: value})
	}

	in := s.FormData.Inputs()
	add("Property", "Postcode", in.Postcode)
	add("Property", "Purchase Price", money.FormatCurrency(in.PurchasePrice))
	if in.MarketValue != nil {
		add("Property", "Market Value", money.FormatCurrency(*in.MarketValue))
	} else {
		add("Property", "Market Value", money.NotAvailable)
	}
	add("Property", "Monthly Rent", money.FormatCurrency(in.MonthlyRent))
	if s.FormData.PropertyCondition != "" {
		add("Property", "Condition", s.FormData.PropertyCondition)
	}

	r := s.Results
	add("Results", "Annual Income", money.FormatCurrency(r.AnnualIncome))
	add("Results", "Annual Expenses", money.FormatCurrency(r.AnnualExpenses))
	add("Results", "Net Operating Income", money.FormatCurrency(r.NOI))
	add("Results", "Cap Rate (Purchase)", money.Percent(r.CapRatePurchase))
	add("Results", "Cap Rate (Market)", money.FormatPercentage(r.CapRateMarket))

	rs := s.RiskScores
	add("Risk", "Market Risk", score(rs.MarketRisk))
	add("Risk", "Financial Risk", score(rs.FinancialRisk))
	add("Risk", "Property Condition", score(rs.PropertyCondition))
	add("Risk", "Location Risk", score(rs.LocationRisk))
	add("Risk", "Tenant Risk", score(rs.TenantRisk))
	add("Risk", "Overall", fmt.Sprintf("%s (%s)", score(s.OverallRiskScore), risk.Level(s.OverallRiskScore)))

	for i, c := range s.ComparableProperties {
		add("Comparables", fmt.Sprintf("Comparable %d", i+1), fmt.Sprintf("%s / %s per month / %s",
			money.FormatCurrency(c.PurchasePrice), money.FormatCurrency(c.MonthlyRent), money.Percent(c.CapRate)))
	}

	if ai := s.AIInsights; ai != nil {
		add("Insights", "Market Value Estimate", ai.MarketValueEstimate)
		add("Insights", "Confidence", fmt.Sprintf("%.2f", ai.ConfidenceScore))
		add("Insights", "Market Trends", ai.MarketTrends)
		add("Insights", "Risk Assessment", ai.RiskAssessment)
		for _, k := range ai.KeyFactors {
			add("Insights", "Key Factor", k)
		}
		for _, rec := range ai.Recommendations {
			add("Insights", "Recommendation", rec)
		}
	}
	return out
}

func score(v float64) string {
	return fmt.Sprintf("%.1f/10", v)
}

// WriteCSV writes the snapshot lines as section,label,value rows.
func WriteCSV(w io.Writer, s model.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "label", "value"}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, l := range Lines(s) {
		if err := cw.Write([]string{l.Section, l.Label, l.Value}); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteXLSX writes a workbook with a Summary sheet of the snapshot lines and a
// Comparables sheet of raw figures.
func WriteXLSX(w io.Writer, s model.Snapshot) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addStrings(summary, "Section", "Label", "Value")
	for _, l := range Lines(s) {
		addStrings(summary, l.Section, l.Label, l.Value)
	}

	comps, err := f.AddSheet("Comparables")
	if err != nil {
		return eris.Wrap(err, "report: add comparables sheet")
	}
	addStrings(comps, "Purchase Price", "Monthly Rent", "Cap Rate")
	for _, c := range s.ComparableProperties {
		row := comps.AddRow()
		row.AddCell().SetFloat(c.PurchasePrice)
		row.AddCell().SetFloat(c.MonthlyRent)
		row.AddCell().SetFloat(c.CapRate)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// Write exports s in the named format.
func Write(w io.Writer, format string, s model.Snapshot) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	default:
		return eris.Errorf("report: unsupported export format %q", format)
	}
}

// ContentType is the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
