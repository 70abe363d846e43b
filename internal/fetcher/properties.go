package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/sells-group/propertycalc/internal/model"
)

// RowError is a data row that failed validation. Row is 1-based and counts
// the header.
type RowError struct {
	Row int
	Err error
}

// Batch is the outcome of reading a property file.
type Batch struct {
	Properties []model.PropertyInputs
	Rejected   []RowError
}

// headerAliases maps normalized header names to form fields.
var headerAliases = map[string]string{
	"postcode":          "postcode",
	"postalcode":        "postcode",
	"zip":               "postcode",
	"zipcode":           "postcode",
	"purchaseprice":     "purchasePrice",
	"price":             "purchasePrice",
	"marketvalue":       "marketValue",
	"monthlyrent":       "monthlyRent",
	"rent":              "monthlyRent",
	"monthlyhoa":        "monthlyHoa",
	"hoa":               "monthlyHoa",
	"annualtaxes":       "annualTaxes",
	"taxes":             "annualTaxes",
	"annualinsurance":   "annualInsurance",
	"insurance":         "annualInsurance",
	"annualmaintenance": "annualMaintenance",
	"maintenance":       "annualMaintenance",
	"managementfees":    "managementFees",
}

// ReadProperties reads a .csv or .xlsx property file.
func ReadProperties(ctx context.Context, path string) (*Batch, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		if rows, err = CollectCSV(ctx, f, CSVOptions{}); err != nil {
			return nil, err
		}
	case ".xlsx":
		var err error
		if rows, err = ReadXLSX(path, ""); err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(path))
	}
	return ParseProperties(rows)
}

// ParseProperties maps a header row plus data rows onto property inputs.
// Unknown columns are ignored; a postcode column is required. Rows that fail
// form validation are rejected, not fatal.
func ParseProperties(rows [][]string) (*Batch, error) {
	if len(rows) == 0 {
		return nil, eris.New("fetcher: empty property file")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["postcode"]; !ok {
		return nil, eris.New("fetcher: missing postcode column")
	}

	get := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	batch := &Batch{}
	for n, row := range rows[1:] {
		form := model.PropertyForm{
			Postcode:          get(row, "postcode"),
			PurchasePrice:     model.NumberString(get(row, "purchasePrice")),
			MarketValue:       model.NumberString(get(row, "marketValue")),
			MonthlyRent:       model.NumberString(get(row, "monthlyRent")),
			MonthlyHoa:        model.NumberString(get(row, "monthlyHoa")),
			AnnualTaxes:       model.NumberString(get(row, "annualTaxes")),
			AnnualInsurance:   model.NumberString(get(row, "annualInsurance")),
			AnnualMaintenance: model.NumberString(get(row, "annualMaintenance")),
			ManagementFees:    model.NumberString(get(row, "managementFees")),
		}
		if err := form.Validate(); err != nil {
			batch.Rejected = append(batch.Rejected, RowError{Row: n + 2, Err: err})
			continue
		}
		batch.Properties = append(batch.Properties, form.Inputs())
	}
	return batch, nil
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
