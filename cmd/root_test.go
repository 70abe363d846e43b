package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/propertycalc/internal/config"
	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/report"
	"github.com/sells-group/propertycalc/internal/risk"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"serve", "migrate", "calc", "loan", "roi", "tax", "import", "sweep", "export"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "propertycalc", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
	assert.NotNil(t, serveCmd.Flags().Lookup("no-sweeper"))
}

func TestImportCommand_RequiresFile(t *testing.T) {
	flag := importCmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
}

func TestExportCommand_Flags(t *testing.T) {
	for _, name := range []string{"share-id", "format", "output"} {
		assert.NotNil(t, exportCmd.Flags().Lookup(name), "export should have --%s flag", name)
	}
	assert.Equal(t, report.FormatCSV, exportCmd.Flags().Lookup("format").DefValue)
}

func TestCalculatorCommand_Defaults(t *testing.T) {
	assert.Equal(t, "20", loanCmd.Flags().Lookup("down-payment").DefValue)
	assert.Equal(t, "30", loanCmd.Flags().Lookup("term").DefValue)
	assert.Equal(t, "5", roiCmd.Flags().Lookup("years").DefValue)
	assert.Equal(t, "5", taxCmd.Flags().Lookup("years").DefValue)
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, checkOutput(outputTable))
	assert.NoError(t, checkOutput(outputJSON))
	assert.Error(t, checkOutput("yaml"))
}

func TestFormatLines(t *testing.T) {
	form := model.PropertyForm{Postcode: "90210", PurchasePrice: "300000", MonthlyRent: "2000"}
	snap := report.Build(form, form.Inputs(), nil, risk.DefaultModel())

	var buf bytes.Buffer
	formatLines(&buf, report.Lines(snap))
	out := buf.String()

	assert.Contains(t, out, "Property\n")
	assert.Contains(t, out, "Results\n")
	assert.Contains(t, out, "Risk\n")
	assert.Contains(t, out, "$300,000")
	assert.Contains(t, out, "$24,000")
}

func TestFormatPairs(t *testing.T) {
	var buf bytes.Buffer
	formatPairs(&buf, [][2]string{{"A", "1"}, {"Longer", "2"}})
	assert.Equal(t, "A       1\nLonger  2\n", buf.String())
}

func TestReadForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "form.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"postcode":"90210","purchasePrice":300000,"monthlyRent":"2000"}`), 0o644))

	form, err := readForm(path)
	require.NoError(t, err)
	assert.Equal(t, "90210", form.Postcode)
	assert.Equal(t, model.NumberString("300000"), form.PurchasePrice)

	_, err = readForm(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestInitStore_SQLite(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "test.db")}}
	t.Cleanup(func() { cfg = nil })

	st, err := initMigratedStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	props, err := st.ListProperties(context.Background())
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "mysql"}}
	t.Cleanup(func() { cfg = nil })

	_, err := initStore(context.Background())
	assert.Error(t, err)
}

func TestInitInsights(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })
	assert.Nil(t, initInsights())

	cfg.Anthropic = config.AnthropicConfig{Key: "sk-test", Model: "claude-sonnet-4-5-20250929", MaxTokens: 1024}
	assert.NotNil(t, initInsights())
}

func TestInitRiskModel(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	m, err := initRiskModel()
	require.NoError(t, err)
	assert.Equal(t, risk.DefaultWeights(), m.Weights())

	cfg.Risk.WeightsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = initRiskModel()
	assert.Error(t, err)
}
