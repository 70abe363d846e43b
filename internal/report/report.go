// Package report assembles the calculation snapshot for a property: income
// metrics, comparable performance and risk scores.
package report

import (
	"github.com/sells-group/propertycalc/internal/finance"
	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/risk"
)

// Calculate derives the income metrics of a property. The market cap rate is
// only present when a market value is.
func Calculate(in model.PropertyInputs) model.CalculationResult {
	income := finance.AnnualIncome(in.MonthlyRent)
	expenses := finance.AnnualExpenses(in.MonthlyHoa, in.AnnualTaxes, in.AnnualInsurance, in.AnnualMaintenance, in.ManagementFees)
	noi := finance.NOI(income, expenses)

	res := model.CalculationResult{
		AnnualIncome:    income,
		AnnualExpenses:  expenses,
		NOI:             noi,
		CapRatePurchase: finance.CapRate(noi, in.PurchasePrice),
	}
	if in.MarketValue != nil && *in.MarketValue != 0 {
		mv := finance.CapRate(noi, *in.MarketValue)
		res.CapRateMarket = &mv
	}
	return res
}

// ComparableCapRate is the purchase cap rate of a comparable, computed along
// the same path as Calculate.
func ComparableCapRate(c model.Comparable) float64 {
	income := finance.AnnualIncome(c.MonthlyRent)
	expenses := finance.AnnualExpenses(c.MonthlyHoa, c.AnnualTaxes, c.AnnualInsurance, c.AnnualMaintenance, c.ManagementFees)
	return finance.CapRate(finance.NOI(income, expenses), c.PurchasePrice)
}

// Performance projects comparables into the per-comparable report lines.
func Performance(comparables []model.Comparable) []model.ComparablePerformance {
	out := make([]model.ComparablePerformance, 0, len(comparables))
	for _, c := range comparables {
		out = append(out, model.ComparablePerformance{
			PurchasePrice: c.PurchasePrice,
			MonthlyRent:   c.MonthlyRent,
			CapRate:       ComparableCapRate(c),
		})
	}
	return out
}

// Build produces the snapshot for a property. form is echoed back verbatim;
// inputs drive every figure.
func Build(form model.PropertyForm, inputs model.PropertyInputs, comparables []model.Comparable, m risk.Model) model.Snapshot {
	a := m.Evaluate(risk.Subject{Property: inputs, Comparables: comparables})

	return model.Snapshot{
		FormData:             form,
		Results:              Calculate(inputs),
		ComparableProperties: Performance(comparables),
		RiskScores:           a.Scores,
		OverallRiskScore:     a.Overall,
	}
}

// FromForm validates form and builds its snapshot with the given model.
func FromForm(form model.PropertyForm, comparables []model.Comparable, m risk.Model) (model.Snapshot, error) {
	if err := form.Validate(); err != nil {
		return model.Snapshot{}, err
	}
	return Build(form, form.Inputs(), comparables, m), nil
}
