package risk

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/propertycalc/internal/model"
)

func scenarioProperty() model.PropertyInputs {
	return model.PropertyInputs{
		Postcode:          "90210",
		PurchasePrice:     300000,
		MonthlyRent:       2000,
		MonthlyHoa:        50,
		AnnualTaxes:       3600,
		AnnualInsurance:   1200,
		AnnualMaintenance: 1000,
		ManagementFees:    1200,
	}
}

func TestMarketRisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price float64
		comps []float64
		want  float64
	}{
		{"no comparables", 300000, nil, 5},
		{"at average", 300000, []float64{300000}, 1},
		{"ten percent off", 330000, []float64{300000}, 1},
		{"thirty percent off", 390000, []float64{300000}, 3},
		{"far off clamps", 900000, []float64{300000}, 10},
		{"zero average", 300000, []float64{0, 0}, 10},
		{"averaged", 250000, []float64{200000, 300000}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			comps := make([]model.Comparable, len(tt.comps))
			for i, p := range tt.comps {
				comps[i] = model.Comparable{PurchasePrice: p}
			}
			got := MarketRisk(Subject{Property: model.PropertyInputs{PurchasePrice: tt.price}, Comparables: comps})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFinancialRisk(t *testing.T) {
	t.Parallel()

	// Monthly expenses of 100: hoa 100, nothing else.
	tests := []struct {
		rent float64
		want float64
	}{
		{250, 1},
		{200, 1},
		{160, 3},
		{150, 3},
		{130, 5},
		{110, 7},
		{100, 7},
		{99, 10},
		{0, 10},
	}
	for _, tt := range tests {
		p := model.PropertyInputs{MonthlyRent: tt.rent, MonthlyHoa: 100}
		assert.Equal(t, tt.want, FinancialRisk(Subject{Property: p}), "rent %v", tt.rent)
	}
}

func TestFinancialRisk_NoExpenses(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, FinancialRisk(Subject{Property: model.PropertyInputs{MonthlyRent: 1000}}))
	assert.Equal(t, 10.0, FinancialRisk(Subject{Property: model.PropertyInputs{}}))
}

func TestPropertyConditionRisk(t *testing.T) {
	t.Parallel()

	score := func(price, maint float64) float64 {
		return PropertyConditionRisk(Subject{Property: model.PropertyInputs{PurchasePrice: price, AnnualMaintenance: maint}})
	}
	assert.InDelta(t, 10.0/3, score(300000, 1000), 1e-9)
	assert.Equal(t, 1.0, score(300000, 0))
	assert.Equal(t, 10.0, score(100000, 5000))
	assert.Equal(t, 10.0, score(0, 1000))
}

func TestTenantRisk(t *testing.T) {
	t.Parallel()

	score := func(price, rent float64) float64 {
		return TenantRisk(Subject{Property: model.PropertyInputs{PurchasePrice: price, MonthlyRent: rent}})
	}
	assert.Equal(t, 3.0, score(120000, 1000))
	assert.Equal(t, 5.0, score(150000, 1000))
	assert.Equal(t, 7.0, score(200000, 1000))
	assert.Equal(t, 9.0, score(300000, 1000))
	assert.Equal(t, 9.0, score(300000, 0))
	assert.Equal(t, 10.0, score(0, 1000))
}

func TestLocationRisk(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, LocationRisk(Subject{}))
}

func TestEvaluate_Scenario(t *testing.T) {
	t.Parallel()

	a := DefaultModel().Evaluate(Subject{Property: scenarioProperty()})

	assert.Equal(t, 5.0, a.Scores.MarketRisk)
	// 2000 / 633.33 is above 2x coverage.
	assert.Equal(t, 1.0, a.Scores.FinancialRisk)
	assert.InDelta(t, 10.0/3, a.Scores.PropertyCondition, 1e-9)
	assert.Equal(t, 5.0, a.Scores.LocationRisk)
	// 24000 / 300000 = 0.08 yield.
	assert.Equal(t, 5.0, a.Scores.TenantRisk)

	want := 5*0.25 + 1*0.30 + (10.0/3)*0.15 + 5*0.15 + 5*0.15
	assert.InDelta(t, want, a.Overall, 1e-12)
	assert.Equal(t, "Moderate Risk", a.Level)
	assert.Len(t, a.Components, 5)
	assert.Equal(t, a.Overall, Overall(a.Scores))
}

func TestEvaluate_BoundsAndFinite(t *testing.T) {
	t.Parallel()

	subjects := []Subject{
		{},
		{Property: model.PropertyInputs{PurchasePrice: 1}},
		{Property: model.PropertyInputs{MonthlyRent: 1e9}},
		{Property: scenarioProperty(), Comparables: []model.Comparable{{}}},
		{Property: model.PropertyInputs{PurchasePrice: math.MaxFloat64, AnnualMaintenance: math.MaxFloat64}},
	}
	for _, s := range subjects {
		a := DefaultModel().Evaluate(s)
		for name, v := range a.Components {
			assert.False(t, math.IsNaN(v), name)
			assert.GreaterOrEqual(t, v, MinScore, name)
			assert.LessOrEqual(t, v, MaxScore, name)
		}
		assert.False(t, math.IsNaN(a.Overall))
	}
}

func TestOverall_AllFives(t *testing.T) {
	t.Parallel()

	s := model.RiskScores{MarketRisk: 5, FinancialRisk: 5, PropertyCondition: 5, LocationRisk: 5, TenantRisk: 5}
	assert.Equal(t, 5.0, Overall(s))
}

func TestOverall_AllOnesAndTens(t *testing.T) {
	t.Parallel()

	ones := model.RiskScores{MarketRisk: 1, FinancialRisk: 1, PropertyCondition: 1, LocationRisk: 1, TenantRisk: 1}
	tens := model.RiskScores{MarketRisk: 10, FinancialRisk: 10, PropertyCondition: 10, LocationRisk: 10, TenantRisk: 10}
	assert.InDelta(t, 1.0, Overall(ones), 1e-12)
	assert.InDelta(t, 10.0, Overall(tens), 1e-12)
}

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Low Risk", Level(1))
	assert.Equal(t, "Low Risk", Level(3))
	assert.Equal(t, "Moderate Risk", Level(3.01))
	assert.Equal(t, "Moderate Risk", Level(6))
	assert.Equal(t, "High Risk", Level(6.5))
}

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateWeights(DefaultWeights()))
	assert.Error(t, ValidateWeights(nil))
	assert.Error(t, ValidateWeights(map[string]float64{Market: 0.5}))
	assert.Error(t, ValidateWeights(map[string]float64{Market: 1.5, Financial: -0.5}))
}

func TestWithWeights(t *testing.T) {
	t.Parallel()

	m, err := DefaultModel().WithWeights(map[string]float64{
		Market:    0.20,
		Financial: 0.35,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.35, m.Weights()[Financial])
	assert.Equal(t, 0.25, DefaultModel().Weights()[Market], "default model untouched")

	_, err = DefaultModel().WithWeights(map[string]float64{Market: 0.30})
	assert.Error(t, err)

	_, err = DefaultModel().WithWeights(map[string]float64{"vacancyRisk": 0})
	assert.Error(t, err)
}

func TestNewModel(t *testing.T) {
	t.Parallel()

	flat := func(Subject) float64 { return 4 }
	m, err := NewModel(Factor{Name: "a", Weight: 0.5, Score: flat}, Factor{Name: "b", Weight: 0.5, Score: flat})
	require.NoError(t, err)
	a := m.Evaluate(Subject{})
	assert.Equal(t, 4.0, a.Overall)
	assert.Equal(t, []string{"a", "b"}, []string{m.Factors()[0].Name, m.Factors()[1].Name})

	_, err = NewModel(Factor{Name: "a", Weight: 1})
	assert.Error(t, err)

	_, err = NewModel(Factor{Name: "a", Weight: 0.5, Score: flat}, Factor{Name: "a", Weight: 0.5, Score: flat})
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	t.Parallel()

	m, err := LoadModel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), m.Weights())

	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	body := "weights:\n  marketRisk: 0.20\n  financialRisk: 0.35\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m, err = LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, 0.20, m.Weights()[Market])

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("weights:\n  marketRisk: 0.9\n"), 0o644))
	_, err = LoadModel(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("other: 1\n"), 0o644))
	_, err = LoadModel(empty)
	assert.Error(t, err)

	_, err = LoadModel(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
