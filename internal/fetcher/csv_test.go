package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectCSV_Basic(t *testing.T) {
	input := "postcode,purchasePrice\n 90210 , 300000\n\n,\n10001,450000\n"
	rows, err := CollectCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"postcode", "purchasePrice"}, rows[0])
	assert.Equal(t, []string{"90210", "300000"}, rows[1])
	assert.Equal(t, []string{"10001", "450000"}, rows[2])
}

func TestCollectCSV_Delimiter(t *testing.T) {
	input := "# exported\npostcode;rent\nA1;1200\n"
	rows, err := CollectCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: ';', Comment: '#'})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A1", "1200"}, rows[1])
}

func TestCollectCSV_VariableWidth(t *testing.T) {
	rows, err := CollectCSV(context.Background(), strings.NewReader("a,b,c\n1\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, rows[1])
}

func TestStreamCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a\nb\n"), CSVOptions{})
	for range rowCh {
	}
	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
