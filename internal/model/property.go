package model

import (
	"time"
)

// PropertyInputs is the normalized numeric input to every calculation. All
// monetary amounts are non-negative dollars. ManagementFees is an annual
// amount; MonthlyHoa is monthly.
type PropertyInputs struct {
	Postcode          string   `json:"postcode"`
	PurchasePrice     float64  `json:"purchasePrice"`
	MarketValue       *float64 `json:"marketValue"`
	MonthlyRent       float64  `json:"monthlyRent"`
	MonthlyHoa        float64  `json:"monthlyHoa"`
	AnnualTaxes       float64  `json:"annualTaxes"`
	AnnualInsurance   float64  `json:"annualInsurance"`
	AnnualMaintenance float64  `json:"annualMaintenance"`
	ManagementFees    float64  `json:"managementFees"`
}

// Property is a persisted PropertyInputs.
type Property struct {
	ID int64 `json:"id"`
	PropertyInputs
	CreatedAt time.Time `json:"createdAt"`
}

// Comparable is the subset of a property used as a market reference.
type Comparable struct {
	PurchasePrice     float64 `json:"purchasePrice"`
	MonthlyRent       float64 `json:"monthlyRent"`
	MonthlyHoa        float64 `json:"monthlyHoa"`
	AnnualTaxes       float64 `json:"annualTaxes"`
	AnnualInsurance   float64 `json:"annualInsurance"`
	AnnualMaintenance float64 `json:"annualMaintenance"`
	ManagementFees    float64 `json:"managementFees"`
}

// AsComparable projects the financial fields of p.
func (p PropertyInputs) AsComparable() Comparable {
	return Comparable{
		PurchasePrice:     p.PurchasePrice,
		MonthlyRent:       p.MonthlyRent,
		MonthlyHoa:        p.MonthlyHoa,
		AnnualTaxes:       p.AnnualTaxes,
		AnnualInsurance:   p.AnnualInsurance,
		AnnualMaintenance: p.AnnualMaintenance,
		ManagementFees:    p.ManagementFees,
	}
}

// Comparables projects a property list into comparables, preserving order.
func Comparables(props []Property) []Comparable {
	out := make([]Comparable, 0, len(props))
	for _, p := range props {
		out = append(out, p.AsComparable())
	}
	return out
}

// CalculationResult holds the income metrics derived from PropertyInputs.
type CalculationResult struct {
	AnnualIncome    float64  `json:"annualIncome"`
	AnnualExpenses  float64  `json:"annualExpenses"`
	NOI             float64  `json:"noi"`
	CapRatePurchase float64  `json:"capRatePurchase"`
	CapRateMarket   *float64 `json:"capRateMarket"`
}

// RiskScores holds the five risk dimensions, each in [1, 10].
type RiskScores struct {
	MarketRisk        float64 `json:"marketRisk"`
	FinancialRisk     float64 `json:"financialRisk"`
	PropertyCondition float64 `json:"propertyCondition"`
	LocationRisk      float64 `json:"locationRisk"`
	TenantRisk        float64 `json:"tenantRisk"`
}

// ComparablePerformance is the per-comparable line shown next to a report.
type ComparablePerformance struct {
	PurchasePrice float64 `json:"purchasePrice"`
	MonthlyRent   float64 `json:"monthlyRent"`
	CapRate       float64 `json:"capRate"`
}

// Snapshot is the canonical calculation output for a property. It is the
// payload persisted for shared reports.
type Snapshot struct {
	FormData             PropertyForm            `json:"formData"`
	Results              CalculationResult       `json:"results"`
	ComparableProperties []ComparablePerformance `json:"comparableProperties"`
	RiskScores           RiskScores              `json:"riskScores"`
	OverallRiskScore     float64                 `json:"overallRiskScore"`
	AIInsights           *Insights               `json:"aiInsights,omitempty"`
}

// SharedReport is a snapshot published under a share ID until ExpiresAt.
type SharedReport struct {
	ID           int64     `json:"id"`
	ShareID      string    `json:"shareId"`
	PropertyData Snapshot  `json:"propertyData"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the report is past its expiry at now.
func (r *SharedReport) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && r.ExpiresAt.Before(now)
}
