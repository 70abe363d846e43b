// Package finance implements the property investment formulas: net operating
// income, capitalization rate, fixed-rate mortgage payments, cash-on-cash
// return and the loan, ROI and tax projections built on them.
//
// Every function is pure and total. Divisions by zero, and divisions that
// overflow, return 0 instead of NaN or Inf.
package finance

import "math"

// NOI returns net operating income: annual income minus annual operating expenses.
func NOI(annualIncome, annualExpenses float64) float64 {
	return annualIncome - annualExpenses
}

// CapRate returns noi / propertyValue as a percentage (7.25 means 7.25%).
// A zero property value yields 0.
func CapRate(noi, propertyValue float64) float64 {
	if propertyValue == 0 {
		return 0
	}
	return finite((noi / propertyValue) * 100)
}

// MonthlyMortgage returns the fixed monthly payment that amortizes principal
// over years at annualRatePct (6.5 means 6.5% APR). A zero rate falls back to
// straight-line repayment, as does a rate too small to move 1+r. A
// non-positive term yields 0.
func MonthlyMortgage(principal, annualRatePct, years float64) float64 {
	monthlyRate := annualRatePct / 1200
	payments := years * 12

	if payments <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / payments
	}

	growth := math.Pow(1+monthlyRate, payments)
	if growth == 1 {
		return principal / payments
	}
	if math.IsInf(growth, 1) {
		return finite(principal * monthlyRate)
	}
	return finite((principal * monthlyRate * growth) / (growth - 1))
}

// CashOnCashReturn returns annualCashFlow / totalInvestment as a percentage.
// A zero investment yields 0.
func CashOnCashReturn(annualCashFlow, totalInvestment float64) float64 {
	if totalInvestment == 0 {
		return 0
	}
	return finite((annualCashFlow / totalInvestment) * 100)
}

// finite maps NaN and Inf, e.g. from a subnormal divisor, to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// AnnualIncome annualizes monthly rent.
func AnnualIncome(monthlyRent float64) float64 {
	return monthlyRent * 12
}

// AnnualExpenses sums operating expenses for a year. HOA is monthly and is
// annualized; management fees are summed as an annual figure.
func AnnualExpenses(monthlyHoa, annualTaxes, annualInsurance, annualMaintenance, managementFees float64) float64 {
	return (monthlyHoa * 12) + annualTaxes + annualInsurance + annualMaintenance + managementFees
}

// MonthlyExpenses spreads the annual expense lines over twelve months and adds
// the monthly HOA.
func MonthlyExpenses(monthlyHoa, annualTaxes, annualInsurance, annualMaintenance, managementFees float64) float64 {
	return monthlyHoa +
		annualTaxes/12 +
		annualInsurance/12 +
		annualMaintenance/12 +
		managementFees/12
}
