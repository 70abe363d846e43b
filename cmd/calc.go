package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/report"
)

var (
	calcForm        model.PropertyForm
	calcFile        string
	calcComparables bool
	calcInsights    bool
	calcOutput      string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute income metrics and risk scores for a property",
	Long:  "Builds the full report snapshot for a property given as flags or as a JSON form file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := checkOutput(calcOutput); err != nil {
			return err
		}

		form := calcForm
		if calcFile != "" {
			var err error
			if form, err = readForm(calcFile); err != nil {
				return err
			}
		}
		form = form.WithDefaults()
		if err := form.Validate(); err != nil {
			return err
		}

		in := form.Inputs()

		riskModel, err := initRiskModel()
		if err != nil {
			return err
		}

		var comparables []model.Comparable
		if calcComparables {
			st, err := initMigratedStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			props, err := st.ListPropertiesByPostcode(ctx, in.Postcode)
			if err != nil {
				return eris.Wrap(err, "load comparables")
			}
			comparables = model.Comparables(props)
		}

		snap := report.Build(form, in, comparables, riskModel)

		if calcInsights {
			gen := initInsights()
			if gen == nil {
				return eris.New("anthropic key is required for --insights (PROPCALC_ANTHROPIC_KEY)")
			}
			ins, err := gen.Generate(ctx, model.InsightsRequest{
				PurchasePrice:     in.PurchasePrice,
				MonthlyRent:       in.MonthlyRent,
				Location:          in.Postcode,
				PropertyType:      "residential",
				SquareFootage:     form.SquareFootage,
				YearBuilt:         form.YearBuilt,
				Bedrooms:          form.Bedrooms,
				Bathrooms:         form.Bathrooms,
				PropertyCondition: form.PropertyCondition,
			})
			if err != nil {
				return eris.Wrap(err, "generate insights")
			}
			snap.AIInsights = ins
		}

		zap.L().Debug("calc complete",
			zap.String("postcode", in.Postcode),
			zap.Int("comparables", len(comparables)),
			zap.Float64("overall_risk", snap.OverallRiskScore),
		)

		if calcOutput == outputJSON {
			return writeJSON(os.Stdout, snap)
		}
		formatLines(os.Stdout, report.Lines(snap))
		return nil
	},
}

func readForm(path string) (model.PropertyForm, error) {
	var form model.PropertyForm
	data, err := os.ReadFile(path)
	if err != nil {
		return form, eris.Wrapf(err, "read form %s", path)
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return form, eris.Wrapf(err, "decode form %s", path)
	}
	return form, nil
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcForm.Postcode, "postcode", "", "property postcode")
	f.StringVar((*string)(&calcForm.PurchasePrice), "purchase-price", "", "purchase price")
	f.StringVar((*string)(&calcForm.MarketValue), "market-value", "", "current market value (optional)")
	f.StringVar((*string)(&calcForm.MonthlyRent), "monthly-rent", "", "monthly rent")
	f.StringVar((*string)(&calcForm.MonthlyHoa), "monthly-hoa", "", "monthly HOA fee")
	f.StringVar((*string)(&calcForm.AnnualTaxes), "annual-taxes", "", "annual property taxes")
	f.StringVar((*string)(&calcForm.AnnualInsurance), "annual-insurance", "", "annual insurance")
	f.StringVar((*string)(&calcForm.AnnualMaintenance), "annual-maintenance", "", "annual maintenance")
	f.StringVar((*string)(&calcForm.ManagementFees), "management-fees", "", "annual management fees")
	f.StringVar(&calcForm.PropertyCondition, "condition", "", "needs renovation, usable or perfect condition")
	f.StringVar(&calcFile, "file", "", "JSON form file; overrides the property flags")
	f.BoolVar(&calcComparables, "comparables", false, "use stored properties with the same postcode as comparables")
	f.BoolVar(&calcInsights, "insights", false, "add AI valuation insights")
	f.StringVarP(&calcOutput, "output", "o", outputTable, "output format: table or json")
	rootCmd.AddCommand(calcCmd)
}
