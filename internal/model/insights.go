package model

// InsightsRequest describes a property for AI valuation insights.
type InsightsRequest struct {
	PurchasePrice     float64 `json:"purchasePrice"`
	MonthlyRent       float64 `json:"monthlyRent"`
	Location          string  `json:"location"`
	PropertyType      string  `json:"propertyType"`
	SquareFootage     int     `json:"squareFootage"`
	YearBuilt         int     `json:"yearBuilt"`
	Bedrooms          int     `json:"bedrooms"`
	Bathrooms         int     `json:"bathrooms"`
	PropertyCondition string  `json:"propertyCondition"`
}

// Insights is the free-text valuation returned by the insights service. Its
// fields are passed through untouched.
type Insights struct {
	MarketValueEstimate  string   `json:"marketValueEstimate"`
	ConfidenceScore      float64  `json:"confidenceScore"`
	KeyFactors           []string `json:"keyFactors"`
	Recommendations      []string `json:"recommendations"`
	MarketTrends         string   `json:"marketTrends"`
	RiskAssessment       string   `json:"riskAssessment"`
	ComparableProperties string   `json:"comparableProperties"`
}
