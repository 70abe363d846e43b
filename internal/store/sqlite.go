package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/propertycalc/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS properties (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	postcode           TEXT NOT NULL,
	purchase_price     REAL NOT NULL DEFAULT 0,
	market_value       REAL,
	monthly_rent       REAL NOT NULL DEFAULT 0,
	monthly_hoa        REAL NOT NULL DEFAULT 0,
	annual_taxes       REAL NOT NULL DEFAULT 0,
	annual_insurance   REAL NOT NULL DEFAULT 0,
	annual_maintenance REAL NOT NULL DEFAULT 0,
	management_fees    REAL NOT NULL DEFAULT 0,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_properties_postcode ON properties(postcode);

CREATE TABLE IF NOT EXISTS shared_reports (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	share_id      TEXT NOT NULL UNIQUE,
	property_data TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shared_reports_expires_at ON shared_reports(expires_at);
`

const sqliteSelectProperties = `SELECT id, postcode, purchase_price, market_value, monthly_rent, monthly_hoa, annual_taxes, annual_insurance, annual_maintenance, management_fees, created_at FROM properties`

var sqliteInsertProperty = `INSERT INTO properties (` + strings.Join(propertyColumns, ", ") +
	`) VALUES (?` + strings.Repeat(", ?", len(propertyColumns)-1) + `)`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateProperty(ctx context.Context, in model.PropertyInputs) (*model.Property, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, sqliteInsertProperty, propertyValues(in, now)...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert property")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last insert id")
	}
	return &model.Property{ID: id, PropertyInputs: in, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListProperties(ctx context.Context) ([]model.Property, error) {
	return s.queryProperties(ctx, sqliteSelectProperties+` ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) ListPropertiesByPostcode(ctx context.Context, postcode string) ([]model.Property, error) {
	return s.queryProperties(ctx, sqliteSelectProperties+` WHERE postcode = ? ORDER BY created_at DESC, id DESC`, postcode)
}

func (s *SQLiteStore) queryProperties(ctx context.Context, query string, args ...any) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list properties")
	}
	defer rows.Close() //nolint:errcheck

	props := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan property")
		}
		props = append(props, p)
	}
	return props, eris.Wrap(rows.Err(), "sqlite: list properties iterate")
}

// ImportProperties inserts props in a single transaction.
func (s *SQLiteStore) ImportProperties(ctx context.Context, props []model.PropertyInputs) (int64, error) {
	if len(props) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteInsertProperty)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare import")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	var n int64
	for _, p := range props {
		if _, err := stmt.ExecContext(ctx, propertyValues(p, now)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import property %d", n+1)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import")
	}
	return n, nil
}

func (s *SQLiteStore) CreateSharedReport(ctx context.Context, snapshot model.Snapshot, ttl time.Duration) (*model.SharedReport, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal snapshot")
	}

	now := time.Now().UTC()
	r := &model.SharedReport{
		ShareID:      uuid.New().String(),
		PropertyData: snapshot,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO shared_reports (share_id, property_data, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		r.ShareID, string(data), r.CreatedAt, r.ExpiresAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert shared report")
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return nil, eris.Wrap(err, "sqlite: last insert id")
	}
	return r, nil
}

// GetSharedReport returns nil, nil when shareID is unknown.
func (s *SQLiteStore) GetSharedReport(ctx context.Context, shareID string) (*model.SharedReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, share_id, property_data, created_at, expires_at FROM shared_reports WHERE share_id = ?`,
		shareID,
	)

	var r model.SharedReport
	var data string
	err := row.Scan(&r.ID, &r.ShareID, &data, &r.CreatedAt, &r.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get shared report %s", shareID)
	}
	if err := json.Unmarshal([]byte(data), &r.PropertyData); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal snapshot")
	}
	return &r, nil
}

func (s *SQLiteStore) DeleteExpiredReports(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shared_reports WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired reports")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
