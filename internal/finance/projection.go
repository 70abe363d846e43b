package finance

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// ROIInputs describes a buy-and-hold scenario.
type ROIInputs struct {
	PurchasePrice        float64 `json:"purchasePrice"`
	RenovationCosts      float64 `json:"renovationCosts"`
	MonthlyRent          float64 `json:"monthlyRent"`
	MonthlyExpenses      float64 `json:"monthlyExpenses"`
	PropertyAppreciation float64 `json:"propertyAppreciation"` // percent per year
	HoldingPeriod        int     `json:"holdingPeriod"`        // years
}

// ROIProjection is the projected return over the holding period.
type ROIProjection struct {
	TotalInvestment  float64 `json:"totalInvestment"`
	AnnualCashFlow   float64 `json:"annualCashFlow"`
	CashOnCashReturn float64 `json:"cashOnCashReturn"`
	FutureValue      float64 `json:"futureValue"`
	TotalReturn      float64 `json:"totalReturn"`
	TotalROI         float64 `json:"totalROI"`
}

// Validate checks the ranges accepted by the ROI calculator.
func (in ROIInputs) Validate() error {
	var errs []string
	if in.PropertyAppreciation < 0 || in.PropertyAppreciation > 15 {
		errs = append(errs, "propertyAppreciation must be between 0 and 15")
	}
	if in.HoldingPeriod < 1 || in.HoldingPeriod > 30 {
		errs = append(errs, "holdingPeriod must be between 1 and 30")
	}
	if len(errs) > 0 {
		return eris.Errorf("finance: invalid roi inputs: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ProjectROI compounds appreciation over the holding period and adds the
// accumulated cash flow. Ratios against a zero investment are 0.
func ProjectROI(in ROIInputs) ROIProjection {
	totalInvestment := in.PurchasePrice + in.RenovationCosts
	annualCashFlow := (in.MonthlyRent - in.MonthlyExpenses) * 12
	years := float64(in.HoldingPeriod)

	futureValue := totalInvestment * math.Pow(1+in.PropertyAppreciation/100, years)
	totalReturn := (futureValue - totalInvestment) + (annualCashFlow * years)

	return ROIProjection{
		TotalInvestment:  totalInvestment,
		AnnualCashFlow:   annualCashFlow,
		CashOnCashReturn: CashOnCashReturn(annualCashFlow, totalInvestment),
		FutureValue:      futureValue,
		TotalReturn:      totalReturn,
		TotalROI:         CashOnCashReturn(totalReturn, totalInvestment),
	}
}

// TaxInputs describes a property tax projection.
type TaxInputs struct {
	AssessedValue  float64 `json:"assessedValue"`
	TaxRate        float64 `json:"taxRate"`        // percent of assessed value
	AnnualIncrease float64 `json:"annualIncrease"` // percent per year
	YearsToProject int     `json:"yearsToProject"`
}

// TaxProjection is the projected tax bill.
type TaxProjection struct {
	FirstYearTax          float64 `json:"firstYearTax"`
	MonthlyPayment        float64 `json:"monthlyPayment"`
	EffectiveTaxRate      float64 `json:"effectiveTaxRate"`
	FinalYearTax          float64 `json:"finalYearTax"`
	TotalTaxPaid          float64 `json:"totalTaxPaid"`
	AverageAnnualIncrease float64 `json:"averageAnnualIncrease"`
}

// Validate checks the ranges accepted by the tax calculator.
func (in TaxInputs) Validate() error {
	var errs []string
	if in.AssessedValue < 0 {
		errs = append(errs, "assessedValue must be >= 0")
	}
	if in.TaxRate < 0 || in.TaxRate > 5 {
		errs = append(errs, "taxRate must be between 0 and 5")
	}
	if in.AnnualIncrease < 0 || in.AnnualIncrease > 10 {
		errs = append(errs, "annualIncrease must be between 0 and 10")
	}
	if in.YearsToProject < 1 || in.YearsToProject > 30 {
		errs = append(errs, "yearsToProject must be between 1 and 30")
	}
	if len(errs) > 0 {
		return eris.Errorf("finance: invalid tax inputs: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ProjectTax compounds the assessed value by the annual increase and sums the
// bill for each projected year, the first year being uncompounded.
func ProjectTax(in TaxInputs) TaxProjection {
	growth := 1 + in.AnnualIncrease/100
	firstYearTax := (in.AssessedValue * in.TaxRate) / 100

	var finalYearTax, total float64
	for year := 0; year < in.YearsToProject; year++ {
		yearTax := (in.AssessedValue * math.Pow(growth, float64(year)) * in.TaxRate) / 100
		total += yearTax
		finalYearTax = yearTax
	}

	return TaxProjection{
		FirstYearTax:          firstYearTax,
		MonthlyPayment:        firstYearTax / 12,
		EffectiveTaxRate:      in.TaxRate,
		FinalYearTax:          finalYearTax,
		TotalTaxPaid:          total,
		AverageAnnualIncrease: in.AnnualIncrease,
	}
}
