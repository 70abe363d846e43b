package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyColumns = []string{"postcode", "purchase_price", "monthly_rent"}

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "properties", propertyColumns, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, propertyColumns).WillReturnResult(2)

	rows := [][]any{{"90210", 300000.0, 2000.0}, {"10001", 450000.0, 3100.0}}
	n, err := CopyFrom(context.Background(), mock, "properties", propertyColumns, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_RowWidthMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = CopyFrom(context.Background(), mock, "properties", propertyColumns, [][]any{{"90210"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, propertyColumns).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "properties", propertyColumns, [][]any{{"90210", 1.0, 2.0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}
