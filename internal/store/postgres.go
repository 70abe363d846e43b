package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/propertycalc/internal/db"
	"github.com/sells-group/propertycalc/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	pgInsertProperty = `INSERT INTO properties (postcode, purchase_price, market_value, monthly_rent, monthly_hoa, annual_taxes, annual_insurance, annual_maintenance, management_fees, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	pgListProperties = `SELECT id, postcode, purchase_price, market_value, monthly_rent, monthly_hoa, annual_taxes, annual_insurance, annual_maintenance, management_fees, created_at FROM properties ORDER BY created_at DESC, id DESC`
	pgListByPostcode = `SELECT id, postcode, purchase_price, market_value, monthly_rent, monthly_hoa, annual_taxes, annual_insurance, annual_maintenance, management_fees, created_at FROM properties WHERE postcode = $1 ORDER BY created_at DESC, id DESC`
	pgInsertReport   = `INSERT INTO shared_reports (share_id, property_data, created_at, expires_at) VALUES ($1, $2, $3, $4) RETURNING id`
	pgGetReport      = `SELECT id, share_id, property_data, created_at, expires_at FROM shared_reports WHERE share_id = $1`
	pgDeleteExpired  = `DELETE FROM shared_reports WHERE expires_at < $1`
)

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"insert_property":        pgInsertProperty,
	"list_properties":        pgListProperties,
	"list_by_postcode":       pgListByPostcode,
	"insert_shared_report":   pgInsertReport,
	"get_shared_report":      pgGetReport,
	"delete_expired_reports": pgDeleteExpired,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS properties (
	id                 BIGSERIAL PRIMARY KEY,
	postcode           TEXT NOT NULL,
	purchase_price     DOUBLE PRECISION NOT NULL DEFAULT 0,
	market_value       DOUBLE PRECISION,
	monthly_rent       DOUBLE PRECISION NOT NULL DEFAULT 0,
	monthly_hoa        DOUBLE PRECISION NOT NULL DEFAULT 0,
	annual_taxes       DOUBLE PRECISION NOT NULL DEFAULT 0,
	annual_insurance   DOUBLE PRECISION NOT NULL DEFAULT 0,
	annual_maintenance DOUBLE PRECISION NOT NULL DEFAULT 0,
	management_fees    DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_properties_postcode ON properties(postcode);
CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at DESC);

CREATE TABLE IF NOT EXISTS shared_reports (
	id            BIGSERIAL PRIMARY KEY,
	share_id      TEXT NOT NULL UNIQUE,
	property_data JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shared_reports_expires_at ON shared_reports(expires_at);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateProperty(ctx context.Context, in model.PropertyInputs) (*model.Property, error) {
	now := time.Now().UTC()
	p := &model.Property{PropertyInputs: in, CreatedAt: now}

	err := s.pool.QueryRow(ctx, pgInsertProperty, propertyValues(in, now)...).Scan(&p.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert property")
	}
	return p, nil
}

func (s *PostgresStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	return s.queryProperties(ctx, pgListProperties)
}

func (s *PostgresStore) ListPropertiesByPostcode(ctx context.Context, postcode string) ([]model.Property, error) {
	return s.queryProperties(ctx, pgListByPostcode, postcode)
}

func (s *PostgresStore) queryProperties(ctx context.Context, sql string, args ...any) ([]model.Property, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list properties")
	}
	defer rows.Close()

	props := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan property")
		}
		props = append(props, p)
	}
	return props, eris.Wrap(rows.Err(), "postgres: list properties iterate")
}

// ImportProperties bulk loads props with COPY.
func (s *PostgresStore) ImportProperties(ctx context.Context, props []model.PropertyInputs) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, len(props))
	for i, p := range props {
		rows[i] = propertyValues(p, now)
	}
	n, err := db.CopyFrom(ctx, s.pool, "properties", propertyColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import properties")
	}
	return n, nil
}

func (s *PostgresStore) CreateSharedReport(ctx context.Context, snapshot model.Snapshot, ttl time.Duration) (*model.SharedReport, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal snapshot")
	}

	now := time.Now().UTC()
	r := &model.SharedReport{
		ShareID:      uuid.New().String(),
		PropertyData: snapshot,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	err = s.pool.QueryRow(ctx, pgInsertReport, r.ShareID, data, r.CreatedAt, r.ExpiresAt).Scan(&r.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert shared report")
	}
	return r, nil
}

// GetSharedReport returns nil, nil when shareID is unknown. Expired reports are
// returned as-is; callers decide how to treat them.
func (s *PostgresStore) GetSharedReport(ctx context.Context, shareID string) (*model.SharedReport, error) {
	var r model.SharedReport
	var data []byte

	err := s.pool.QueryRow(ctx, pgGetReport, shareID).Scan(&r.ID, &r.ShareID, &data, &r.CreatedAt, &r.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get shared report %s", shareID)
	}
	if err := json.Unmarshal(data, &r.PropertyData); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal snapshot")
	}
	return &r, nil
}

func (s *PostgresStore) DeleteExpiredReports(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, pgDeleteExpired, now.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired reports")
	}
	return int(tag.RowsAffected()), nil
}
