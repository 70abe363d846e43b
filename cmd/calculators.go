package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/propertycalc/internal/finance"
	"github.com/sells-group/propertycalc/internal/money"
)

var (
	loanIn       finance.LoanInputs
	loanSchedule bool
	loanOutput   string

	roiIn     finance.ROIInputs
	roiOutput string

	taxIn     finance.TaxInputs
	taxOutput string
)

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Mortgage payment and financed cash flow",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(loanOutput); err != nil {
			return err
		}
		if err := loanIn.Validate(); err != nil {
			return err
		}

		analysis := finance.AnalyzeLoan(loanIn)
		var years []finance.AmortizationYear
		if loanSchedule {
			years = finance.YearlyAmortization(finance.AmortizationSchedule(analysis.LoanAmount, loanIn.InterestRate, loanIn.LoanTermYears))
		}

		if loanOutput == outputJSON {
			return writeJSON(os.Stdout, struct {
				finance.LoanAnalysis
				Amortization []finance.AmortizationYear `json:"amortization,omitempty"`
			}{analysis, years})
		}
		formatLoan(os.Stdout, analysis, years)
		return nil
	},
}

func formatLoan(out io.Writer, a finance.LoanAnalysis, years []finance.AmortizationYear) {
	formatPairs(out, [][2]string{
		{"Down Payment", money.FormatCurrency(a.DownPayment)},
		{"Loan Amount", money.FormatCurrency(a.LoanAmount)},
		{"Monthly Payment", money.FormatCurrency(a.MonthlyPayment)},
		{"Monthly Cash Flow", money.FormatCurrency(a.MonthlyCashFlow)},
		{"Annual Cash Flow", money.FormatCurrency(a.AnnualCashFlow)},
		{"Cash on Cash Return", money.Percent(a.CashOnCashReturn)},
	})
	if len(years) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	rows := make([][2]string, 0, len(years))
	for _, y := range years {
		rows = append(rows, [2]string{
			fmt.Sprintf("Year %d", y.Year),
			fmt.Sprintf("interest %s  principal %s  balance %s",
				money.FormatCurrency(y.Interest), money.FormatCurrency(y.Principal), money.FormatCurrency(y.Balance)),
		})
	}
	formatPairs(out, rows)
}

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Project return on investment over a holding period",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(roiOutput); err != nil {
			return err
		}
		if err := roiIn.Validate(); err != nil {
			return err
		}

		p := finance.ProjectROI(roiIn)
		if roiOutput == outputJSON {
			return writeJSON(os.Stdout, p)
		}
		formatPairs(os.Stdout, [][2]string{
			{"Total Investment", money.FormatCurrency(p.TotalInvestment)},
			{"Annual Cash Flow", money.FormatCurrency(p.AnnualCashFlow)},
			{"Cash on Cash Return", money.Percent(p.CashOnCashReturn)},
			{"Future Value", money.FormatCurrency(p.FutureValue)},
			{"Total Return", money.FormatCurrency(p.TotalReturn)},
			{"Total ROI", money.Percent(p.TotalROI)},
		})
		return nil
	},
}

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Project property tax over several years",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(taxOutput); err != nil {
			return err
		}
		if err := taxIn.Validate(); err != nil {
			return err
		}

		p := finance.ProjectTax(taxIn)
		if taxOutput == outputJSON {
			return writeJSON(os.Stdout, p)
		}
		formatPairs(os.Stdout, [][2]string{
			{"First Year Tax", money.FormatCurrency(p.FirstYearTax)},
			{"Monthly Payment", money.FormatCurrency(p.MonthlyPayment)},
			{"Effective Tax Rate", money.Percent(p.EffectiveTaxRate)},
			{"Final Year Tax", money.FormatCurrency(p.FinalYearTax)},
			{"Total Tax Paid", money.FormatCurrency(p.TotalTaxPaid)},
			{"Average Annual Increase", money.Percent(p.AverageAnnualIncrease)},
		})
		return nil
	},
}

func init() {
	lf := loanCmd.Flags()
	lf.Float64Var(&loanIn.PurchasePrice, "purchase-price", 0, "purchase price")
	lf.Float64Var(&loanIn.DownPaymentPercent, "down-payment", 20, "down payment, percent of price")
	lf.Float64Var(&loanIn.InterestRate, "rate", 6.5, "annual interest rate, percent")
	lf.Float64Var(&loanIn.LoanTermYears, "term", 30, "loan term in years")
	lf.Float64Var(&loanIn.MonthlyRent, "monthly-rent", 0, "monthly rent")
	lf.Float64Var(&loanIn.MonthlyExpenses, "monthly-expenses", 0, "monthly operating expenses")
	lf.BoolVar(&loanSchedule, "schedule", false, "include the yearly amortization schedule")
	lf.StringVarP(&loanOutput, "output", "o", outputTable, "output format: table or json")

	rf := roiCmd.Flags()
	rf.Float64Var(&roiIn.PurchasePrice, "purchase-price", 0, "purchase price")
	rf.Float64Var(&roiIn.RenovationCosts, "renovation", 0, "renovation costs")
	rf.Float64Var(&roiIn.MonthlyRent, "monthly-rent", 0, "monthly rent")
	rf.Float64Var(&roiIn.MonthlyExpenses, "monthly-expenses", 0, "monthly expenses")
	rf.Float64Var(&roiIn.PropertyAppreciation, "appreciation", 3, "annual appreciation, percent")
	rf.IntVar(&roiIn.HoldingPeriod, "years", 5, "holding period in years")
	rf.StringVarP(&roiOutput, "output", "o", outputTable, "output format: table or json")

	tf := taxCmd.Flags()
	tf.Float64Var(&taxIn.AssessedValue, "assessed-value", 0, "assessed value")
	tf.Float64Var(&taxIn.TaxRate, "rate", 1.2, "tax rate, percent of assessed value")
	tf.Float64Var(&taxIn.AnnualIncrease, "increase", 2, "annual assessment increase, percent")
	tf.IntVar(&taxIn.YearsToProject, "years", 5, "years to project")
	tf.StringVarP(&taxOutput, "output", "o", outputTable, "output format: table or json")

	rootCmd.AddCommand(loanCmd, roiCmd, taxCmd)
}
