package finance

import (
	"strings"

	"github.com/rotisserie/eris"
)

// LoanInputs describes a financed purchase.
type LoanInputs struct {
	PurchasePrice      float64 `json:"purchasePrice"`
	DownPaymentPercent float64 `json:"downPaymentPercent"`
	InterestRate       float64 `json:"interestRate"` // annual, percent
	LoanTermYears      float64 `json:"loanTerm"`
	MonthlyRent        float64 `json:"monthlyRent"`
	MonthlyExpenses    float64 `json:"monthlyExpenses"`
}

// LoanAnalysis is the financed cash-flow picture for a LoanInputs.
type LoanAnalysis struct {
	LoanAmount       float64 `json:"loanAmount"`
	DownPayment      float64 `json:"downPayment"`
	MonthlyPayment   float64 `json:"monthlyPayment"`
	MonthlyCashFlow  float64 `json:"monthlyCashFlow"`
	AnnualCashFlow   float64 `json:"annualCashFlow"`
	CashOnCashReturn float64 `json:"cashOnCashReturn"`
}

// Validate checks the ranges accepted by the loan calculator.
func (in LoanInputs) Validate() error {
	var errs []string
	if in.PurchasePrice < 0 {
		errs = append(errs, "purchasePrice must be >= 0")
	}
	if in.DownPaymentPercent < 0 || in.DownPaymentPercent > 100 {
		errs = append(errs, "downPaymentPercent must be between 0 and 100")
	}
	if in.InterestRate <= 0 {
		errs = append(errs, "interestRate must be greater than 0")
	}
	if in.LoanTermYears <= 0 {
		errs = append(errs, "loanTerm must be greater than 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("finance: invalid loan inputs: %s", strings.Join(errs, "; "))
	}
	return nil
}

// AnalyzeLoan computes the loan amount, payment and resulting cash flow. The
// cash-on-cash return is measured against the down payment.
func AnalyzeLoan(in LoanInputs) LoanAnalysis {
	downPayment := in.PurchasePrice * in.DownPaymentPercent / 100
	loanAmount := in.PurchasePrice - downPayment
	payment := MonthlyMortgage(loanAmount, in.InterestRate, in.LoanTermYears)
	monthlyCashFlow := in.MonthlyRent - in.MonthlyExpenses - payment
	annualCashFlow := monthlyCashFlow * 12

	return LoanAnalysis{
		LoanAmount:       loanAmount,
		DownPayment:      downPayment,
		MonthlyPayment:   payment,
		MonthlyCashFlow:  monthlyCashFlow,
		AnnualCashFlow:   annualCashFlow,
		CashOnCashReturn: CashOnCashReturn(annualCashFlow, downPayment),
	}
}
