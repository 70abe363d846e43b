package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/propertycalc/internal/money"
)

// NumberString is a form value that decodes from a JSON string, number or null.
type NumberString string

// UnmarshalJSON accepts "1200", 1200 and null.
func (n *NumberString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode number string")
		}
		*n = NumberString(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return eris.Wrap(err, "model: decode number")
	}
	*n = NumberString(f.String())
	return nil
}

// Float returns the numeric value, 0 when blank or invalid.
func (n NumberString) Float() float64 {
	return money.ToNumber(string(n))
}

// Property conditions accepted by the form.
const (
	ConditionNeedsRenovation = "needs renovation"
	ConditionUsable          = "usable"
	ConditionPerfect         = "perfect condition"
)

// PropertyForm is the raw form a user fills in. Monetary values stay strings
// until Inputs normalizes them.
type PropertyForm struct {
	Postcode          string       `json:"postcode"`
	PurchasePrice     NumberString `json:"purchasePrice"`
	MarketValue       NumberString `json:"marketValue"`
	MonthlyRent       NumberString `json:"monthlyRent"`
	MonthlyHoa        NumberString `json:"monthlyHoa"`
	AnnualTaxes       NumberString `json:"annualTaxes"`
	AnnualInsurance   NumberString `json:"annualInsurance"`
	AnnualMaintenance NumberString `json:"annualMaintenance"`
	ManagementFees    NumberString `json:"managementFees"`
	SquareFootage     int          `json:"squareFootage"`
	YearBuilt         int          `json:"yearBuilt"`
	Bedrooms          int          `json:"bedrooms"`
	Bathrooms         int          `json:"bathrooms"`
	PropertyCondition string       `json:"propertyCondition"`
}

// WithDefaults fills the descriptive fields the form defaults when unset.
func (f PropertyForm) WithDefaults() PropertyForm {
	if f.SquareFootage == 0 {
		f.SquareFootage = 1000
	}
	if f.YearBuilt == 0 {
		f.YearBuilt = 2000
	}
	if f.Bedrooms == 0 {
		f.Bedrooms = 2
	}
	if f.Bathrooms == 0 {
		f.Bathrooms = 2
	}
	if f.PropertyCondition == "" {
		f.PropertyCondition = ConditionUsable
	}
	return f
}

// FieldError is a single failed form rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed rule of a form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s at %q", f.Message, f.Field)
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

// Validate applies the form rules: postcode required, monetary fields blank or
// numeric, market value blank or positive, management fees blank or >= 0.
// The returned error is a *ValidationError.
func (f PropertyForm) Validate() error {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(f.Postcode) == "" {
		add("postcode", "Postcode is required")
	}

	optional := []struct {
		name  string
		value NumberString
	}{
		{"purchasePrice", f.PurchasePrice},
		{"monthlyRent", f.MonthlyRent},
		{"monthlyHoa", f.MonthlyHoa},
		{"annualTaxes", f.AnnualTaxes},
		{"annualInsurance", f.AnnualInsurance},
		{"annualMaintenance", f.AnnualMaintenance},
	}
	for _, o := range optional {
		if o.value != "" && !money.IsNumber(string(o.value)) {
			add(o.name, "Must be a valid number")
		}
	}

	if f.MarketValue != "" && (!money.IsNumber(string(f.MarketValue)) || f.MarketValue.Float() <= 0) {
		add("marketValue", "Must be a valid number greater than 0")
	}
	if f.ManagementFees != "" && (!money.IsNumber(string(f.ManagementFees)) || f.ManagementFees.Float() < 0) {
		add("managementFees", "Must be a valid number greater than or equal to 0")
	}

	switch f.PropertyCondition {
	case "", ConditionNeedsRenovation, ConditionUsable, ConditionPerfect:
	default:
		add("propertyCondition", "Must be one of: needs renovation, usable, perfect condition")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Inputs normalizes the form into numeric inputs. Blank or invalid amounts
// become 0; a blank or zero market value is absent.
func (f PropertyForm) Inputs() PropertyInputs {
	in := PropertyInputs{
		Postcode:          strings.TrimSpace(f.Postcode),
		PurchasePrice:     f.PurchasePrice.Float(),
		MonthlyRent:       f.MonthlyRent.Float(),
		MonthlyHoa:        f.MonthlyHoa.Float(),
		AnnualTaxes:       f.AnnualTaxes.Float(),
		AnnualInsurance:   f.AnnualInsurance.Float(),
		AnnualMaintenance: f.AnnualMaintenance.Float(),
		ManagementFees:    f.ManagementFees.Float(),
	}
	if mv := f.MarketValue.Float(); mv != 0 {
		in.MarketValue = &mv
	}
	return in
}

// FormFromInputs renders numeric inputs back into form strings.
func FormFromInputs(in PropertyInputs) PropertyForm {
	str := func(v float64) NumberString {
		return NumberString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	f := PropertyForm{
		Postcode:          in.Postcode,
		PurchasePrice:     str(in.PurchasePrice),
		MonthlyRent:       str(in.MonthlyRent),
		MonthlyHoa:        str(in.MonthlyHoa),
		AnnualTaxes:       str(in.AnnualTaxes),
		AnnualInsurance:   str(in.AnnualInsurance),
		AnnualMaintenance: str(in.AnnualMaintenance),
		ManagementFees:    str(in.ManagementFees),
	}
	if in.MarketValue != nil {
		f.MarketValue = str(*in.MarketValue)
	}
	return f.WithDefaults()
}
