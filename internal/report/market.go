package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/propertycalc/internal/model"
)

// MarketAverages summarizes a set of stored properties.
type MarketAverages struct {
	Count            int     `json:"count"`
	AvgPurchasePrice float64 `json:"avgPurchasePrice"`
	AvgMonthlyRent   float64 `json:"avgMonthlyRent"`
	AvgCapRate       float64 `json:"avgCapRate"`
}

// TrendPoint is one property inside a postcode trend.
type TrendPoint struct {
	Price   float64 `json:"price"`
	Rent    float64 `json:"rent"`
	CapRate float64 `json:"capRate"`
}

// PostcodeTrend groups the properties of one postcode.
type PostcodeTrend struct {
	Postcode   string       `json:"postcode"`
	Properties []TrendPoint `json:"properties"`
}

// Market is the market analysis over every stored property.
type Market struct {
	Averages *MarketAverages `json:"averages"`
	Trends   []PostcodeTrend `json:"trends"`
}

// MarketSummary averages price, rent and cap rate. It returns nil for an empty
// set.
func MarketSummary(props []model.Property) *MarketAverages {
	if len(props) == 0 {
		return nil
	}

	prices := make([]float64, len(props))
	rents := make([]float64, len(props))
	caps := make([]float64, len(props))
	for i, p := range props {
		prices[i] = p.PurchasePrice
		rents[i] = p.MonthlyRent
		caps[i] = ComparableCapRate(p.AsComparable())
	}

	return &MarketAverages{
		Count:            len(props),
		AvgPurchasePrice: stat.Mean(prices, nil),
		AvgMonthlyRent:   stat.Mean(rents, nil),
		AvgCapRate:       stat.Mean(caps, nil),
	}
}

// PostcodeTrends groups properties by postcode. Groups appear in first-seen
// order and keep their input order.
func PostcodeTrends(props []model.Property) []PostcodeTrend {
	trends := []PostcodeTrend{}
	index := make(map[string]int)
	for _, p := range props {
		pt := TrendPoint{
			Price:   p.PurchasePrice,
			Rent:    p.MonthlyRent,
			CapRate: ComparableCapRate(p.AsComparable()),
		}
		i, ok := index[p.Postcode]
		if !ok {
			i = len(trends)
			index[p.Postcode] = i
			trends = append(trends, PostcodeTrend{Postcode: p.Postcode})
		}
		trends[i].Properties = append(trends[i].Properties, pt)
	}
	return trends
}

// Analyze builds the market analysis for props.
func Analyze(props []model.Property) Market {
	return Market{Averages: MarketSummary(props), Trends: PostcodeTrends(props)}
}
