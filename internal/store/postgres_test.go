package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/propertycalc/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var propertyRowColumns = []string{
	"id", "postcode", "purchase_price", "market_value", "monthly_rent", "monthly_hoa",
	"annual_taxes", "annual_insurance", "annual_maintenance", "management_fees", "created_at",
}

func TestPostgresStore_CreateProperty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	in := sampleInputs("90210", 300000)
	mock.ExpectQuery(`INSERT INTO properties .* RETURNING id`).
		WithArgs("90210", 300000.0, pgxmock.AnyArg(), 2000.0, 50.0, 3600.0, 1200.0, 1000.0, 1200.0, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	p, err := s.CreateProperty(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "90210", p.Postcode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateProperty_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO properties`).WillReturnError(errors.New("connection reset"))

	_, err := s.CreateProperty(context.Background(), sampleInputs("90210", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert property")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListPropertiesByPostcode(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mv := 320000.0
	mock.ExpectQuery(`FROM properties WHERE postcode = \$1 ORDER BY created_at DESC`).
		WithArgs("90210").
		WillReturnRows(pgxmock.NewRows(propertyRowColumns).
			AddRow(int64(2), "90210", 310000.0, &mv, 2100.0, 0.0, 3000.0, 900.0, 800.0, 0.0, now).
			AddRow(int64(1), "90210", 300000.0, (*float64)(nil), 2000.0, 50.0, 3600.0, 1200.0, 1000.0, 1200.0, now.Add(-time.Hour)))

	props, err := s.ListPropertiesByPostcode(context.Background(), "90210")
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, int64(2), props[0].ID)
	require.NotNil(t, props[0].MarketValue)
	assert.Equal(t, mv, *props[0].MarketValue)
	assert.Nil(t, props[1].MarketValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProperties_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM properties ORDER BY`).WillReturnError(errors.New("boom"))

	_, err := s.ListProperties(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportProperties(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, propertyColumns).WillReturnResult(2)

	n, err := s.ImportProperties(context.Background(), []model.PropertyInputs{sampleInputs("A", 1), sampleInputs("B", 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateSharedReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO shared_reports .* RETURNING id`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	r, err := s.CreateSharedReport(context.Background(), sampleSnapshot(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.ID)
	assert.Len(t, r.ShareID, 36)
	assert.Equal(t, 30*24*time.Hour, r.ExpiresAt.Sub(r.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSharedReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	snap := sampleSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, share_id, property_data, created_at, expires_at FROM shared_reports WHERE share_id = \$1`).
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows([]string{"id", "share_id", "property_data", "created_at", "expires_at"}).
			AddRow(int64(1), "abc", data, now, now.Add(time.Hour)))

	r, err := s.GetSharedReport(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, snap, r.PropertyData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSharedReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM shared_reports WHERE share_id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	r, err := s.GetSharedReport(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSharedReport_BadPayload(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM shared_reports`).
		WithArgs("bad").
		WillReturnRows(pgxmock.NewRows([]string{"id", "share_id", "property_data", "created_at", "expires_at"}).
			AddRow(int64(1), "bad", []byte("not json"), now, now))

	_, err := s.GetSharedReport(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal snapshot")
}

func TestPostgresStore_DeleteExpiredReports(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now()
	mock.ExpectExec(`DELETE FROM shared_reports WHERE expires_at < \$1`).
		WithArgs(now.UTC()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredReports(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS properties`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreparedStatements_Cover(t *testing.T) {
	for _, name := range []string{"insert_property", "list_properties", "list_by_postcode", "insert_shared_report", "get_shared_report", "delete_expired_reports"} {
		assert.Contains(t, preparedStatements, name)
	}
}
