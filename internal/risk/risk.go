// Package risk scores a property on five independent dimensions and folds
// them into a weighted overall score.
//
// The model is table-driven: a Model is an ordered list of named factors,
// each a scoring function plus a weight. Swapping weights or formulas never
// touches the callers.
package risk

import (
	"math"

	"github.com/sells-group/propertycalc/internal/finance"
	"github.com/sells-group/propertycalc/internal/model"
)

// Factor names. They double as the JSON keys of model.RiskScores.
const (
	Market            = "marketRisk"
	Financial         = "financialRisk"
	PropertyCondition = "propertyCondition"
	Location          = "locationRisk"
	Tenant            = "tenantRisk"
)

// Score bounds.
const (
	MinScore     = 1.0
	MaxScore     = 10.0
	NeutralScore = 5.0
)

// Subject is what a factor scores: the property and its comparables.
type Subject struct {
	Property    model.PropertyInputs
	Comparables []model.Comparable
}

// ScoreFunc maps a subject to a score in [MinScore, MaxScore].
type ScoreFunc func(Subject) float64

// Factor is one named, weighted risk dimension.
type Factor struct {
	Name   string
	Weight float64
	Score  ScoreFunc
}

// DefaultWeights are the weights of the default model. They sum to 1.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		Market:            0.25,
		Financial:         0.30,
		PropertyCondition: 0.15,
		Location:          0.15,
		Tenant:            0.15,
	}
}

func defaultFactors() []Factor {
	w := DefaultWeights()
	return []Factor{
		{Name: Market, Weight: w[Market], Score: MarketRisk},
		{Name: Financial, Weight: w[Financial], Score: FinancialRisk},
		{Name: PropertyCondition, Weight: w[PropertyCondition], Score: PropertyConditionRisk},
		{Name: Location, Weight: w[Location], Score: LocationRisk},
		{Name: Tenant, Weight: w[Tenant], Score: TenantRisk},
	}
}

// MarketRisk measures how far the purchase price sits from the comparable
// average: clamp(|price-avg|/avg * 10, 1, 10). Without comparables the
// market is unknown and scores NeutralScore.
func MarketRisk(s Subject) float64 {
	if len(s.Comparables) == 0 {
		return NeutralScore
	}

	var sum float64
	for _, c := range s.Comparables {
		sum += c.PurchasePrice
	}
	avg := sum / float64(len(s.Comparables))
	if avg == 0 {
		return MaxScore
	}

	variance := math.Abs(s.Property.PurchasePrice-avg) / avg
	return clamp(variance*10, MinScore, MaxScore)
}

// FinancialRisk bands the coverage of monthly expenses by monthly rent.
// Higher coverage is lower risk.
func FinancialRisk(s Subject) float64 {
	p := s.Property
	expenses := finance.MonthlyExpenses(p.MonthlyHoa, p.AnnualTaxes, p.AnnualInsurance, p.AnnualMaintenance, p.ManagementFees)
	dscr := p.MonthlyRent / expenses

	// NaN (no rent, no expenses) falls through every band to the maximum.
	switch {
	case dscr >= 2:
		return 1
	case dscr >= 1.5:
		return 3
	case dscr >= 1.25:
		return 5
	case dscr >= 1:
		return 7
	default:
		return MaxScore
	}
}

// PropertyConditionRisk scales the maintenance-to-price ratio so that a 1%
// ratio reaches the maximum.
func PropertyConditionRisk(s Subject) float64 {
	if s.Property.PurchasePrice == 0 {
		return MaxScore
	}
	ratio := s.Property.AnnualMaintenance / s.Property.PurchasePrice
	return clamp(ratio*1000, MinScore, MaxScore)
}

// LocationRisk is a fixed moderate score; no location data source is wired in.
func LocationRisk(Subject) float64 {
	return NeutralScore
}

// TenantRisk bands gross rental yield. Higher yield is lower risk.
func TenantRisk(s Subject) float64 {
	if s.Property.PurchasePrice == 0 {
		return MaxScore
	}
	rentToPrice := (s.Property.MonthlyRent * 12) / s.Property.PurchasePrice

	switch {
	case rentToPrice >= 0.10:
		return 3
	case rentToPrice >= 0.07:
		return 5
	case rentToPrice >= 0.05:
		return 7
	default:
		return 9
	}
}

// clamp bounds v to [lo, hi]. Non-finite values map to hi.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return hi
	}
	return math.Min(hi, math.Max(lo, v))
}

// Level bands a score: <= 3 low, <= 6 moderate, otherwise high.
func Level(score float64) string {
	switch {
	case score <= 3:
		return "Low Risk"
	case score <= 6:
		return "Moderate Risk"
	default:
		return "High Risk"
	}
}
