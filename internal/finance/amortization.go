package finance

import "math"

// AmortizationRow is one monthly payment in an amortization schedule.
type AmortizationRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// AmortizationYear totals the schedule rows of one loan year.
type AmortizationYear struct {
	Year      int     `json:"year"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// AmortizationSchedule expands a fixed-rate loan into monthly rows. The final
// payment absorbs any floating-point residue so the closing balance is 0.
// A non-positive principal or term yields no rows.
func AmortizationSchedule(principal, annualRatePct, years float64) []AmortizationRow {
	n := int(math.Round(years * 12))
	if principal <= 0 || n <= 0 {
		return nil
	}

	payment := MonthlyMortgage(principal, annualRatePct, years)
	monthlyRate := annualRatePct / 1200
	balance := principal

	rows := make([]AmortizationRow, 0, n)
	for month := 1; month <= n; month++ {
		interest := balance * monthlyRate
		principalPart := payment - interest
		if month == n || principalPart > balance {
			principalPart = balance
		}
		balance -= principalPart
		if balance < 0 {
			balance = 0
		}
		rows = append(rows, AmortizationRow{
			Month:     month,
			Payment:   principalPart + interest,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
	}
	return rows
}

// YearlyAmortization folds monthly rows into loan years.
func YearlyAmortization(rows []AmortizationRow) []AmortizationYear {
	var years []AmortizationYear
	for _, r := range rows {
		year := (r.Month-1)/12 + 1
		if len(years) < year {
			years = append(years, AmortizationYear{Year: year})
		}
		y := &years[year-1]
		y.Interest += r.Interest
		y.Principal += r.Principal
		y.Balance = r.Balance
	}
	return years
}

// TotalInterest sums the interest paid over a schedule.
func TotalInterest(rows []AmortizationRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Interest
	}
	return total
}
