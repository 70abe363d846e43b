package risk

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/propertycalc/internal/model"
)

// weightTolerance is how far a weight set may drift from summing to 1.
const weightTolerance = 1e-9

// Model is an ordered set of risk factors. The zero value has no factors; use
// DefaultModel.
type Model struct {
	factors []Factor
}

// Assessment is the outcome of evaluating a Model.
type Assessment struct {
	Scores     model.RiskScores   `json:"riskScores"`
	Components map[string]float64 `json:"components"`
	Overall    float64            `json:"overallRiskScore"`
	Level      string             `json:"level"`
}

// DefaultModel returns the five-factor model with DefaultWeights.
func DefaultModel() Model {
	return Model{factors: defaultFactors()}
}

// NewModel builds a model from explicit factors.
func NewModel(factors ...Factor) (Model, error) {
	weights := make(map[string]float64, len(factors))
	for _, f := range factors {
		if f.Score == nil {
			return Model{}, eris.Errorf("risk: factor %q has no score function", f.Name)
		}
		if _, dup := weights[f.Name]; dup {
			return Model{}, eris.Errorf("risk: duplicate factor %q", f.Name)
		}
		weights[f.Name] = f.Weight
	}
	if err := ValidateWeights(weights); err != nil {
		return Model{}, err
	}
	return Model{factors: append([]Factor(nil), factors...)}, nil
}

// Factors returns a copy of the model's factors in evaluation order.
func (m Model) Factors() []Factor {
	return append([]Factor(nil), m.factors...)
}

// Weights returns the model's weight map.
func (m Model) Weights() map[string]float64 {
	w := make(map[string]float64, len(m.factors))
	for _, f := range m.factors {
		w[f.Name] = f.Weight
	}
	return w
}

// WithWeights returns a copy of m with the named weights replaced. Names not
// in the model are rejected, and the resulting set must still sum to 1.
func (m Model) WithWeights(weights map[string]float64) (Model, error) {
	factors := m.Factors()
	index := make(map[string]int, len(factors))
	for i, f := range factors {
		index[f.Name] = i
	}
	for name, w := range weights {
		i, ok := index[name]
		if !ok {
			return Model{}, eris.Errorf("risk: unknown factor %q", name)
		}
		factors[i].Weight = w
	}
	next := Model{factors: factors}
	if err := ValidateWeights(next.Weights()); err != nil {
		return Model{}, err
	}
	return next, nil
}

// Evaluate scores the subject on every factor and sums the weighted scores in
// factor order.
func (m Model) Evaluate(s Subject) Assessment {
	components := make(map[string]float64, len(m.factors))
	var overall float64
	for _, f := range m.factors {
		score := f.Score(s)
		components[f.Name] = score
		overall += score * f.Weight
	}

	return Assessment{
		Scores:     toRiskScores(components),
		Components: components,
		Overall:    overall,
		Level:      Level(overall),
	}
}

// Overall is the weighted sum of the five standard scores under m's weights.
func (m Model) Overall(scores model.RiskScores) float64 {
	values := fromRiskScores(scores)
	var overall float64
	for _, f := range m.factors {
		overall += values[f.Name] * f.Weight
	}
	return overall
}

// Scores evaluates the five standard dimensions with the default model.
func Scores(property model.PropertyInputs, comparables []model.Comparable) model.RiskScores {
	return DefaultModel().Evaluate(Subject{Property: property, Comparables: comparables}).Scores
}

// Overall is the default-weighted sum of scores.
func Overall(scores model.RiskScores) float64 {
	return DefaultModel().Overall(scores)
}

func toRiskScores(c map[string]float64) model.RiskScores {
	return model.RiskScores{
		MarketRisk:        c[Market],
		FinancialRisk:     c[Financial],
		PropertyCondition: c[PropertyCondition],
		LocationRisk:      c[Location],
		TenantRisk:        c[Tenant],
	}
}

func fromRiskScores(s model.RiskScores) map[string]float64 {
	return map[string]float64{
		Market:            s.MarketRisk,
		Financial:         s.FinancialRisk,
		PropertyCondition: s.PropertyCondition,
		Location:          s.LocationRisk,
		Tenant:            s.TenantRisk,
	}
}

// ValidateWeights checks that weights are non-negative and sum to 1.
func ValidateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return eris.New("risk: no weights")
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	var sum float64
	for _, name := range names {
		w := weights[name]
		if w < 0 || math.IsNaN(w) {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %g", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// weightsFile is the on-disk weight override format:
//
//	weights:
//	  marketRisk: 0.25
//	  financialRisk: 0.30
type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a YAML weight override file.
func LoadWeights(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "risk: read weights %s", path)
	}
	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "risk: parse weights")
	}
	if len(f.Weights) == 0 {
		return nil, eris.Errorf("risk: %s has no weights", path)
	}
	return f.Weights, nil
}

// LoadModel returns the default model, reweighted from path when path is set.
func LoadModel(path string) (Model, error) {
	m := DefaultModel()
	if path == "" {
		return m, nil
	}
	weights, err := LoadWeights(path)
	if err != nil {
		return Model{}, err
	}
	return m.WithWeights(weights)
}
