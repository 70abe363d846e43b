// Package store persists properties and shared reports in Postgres or SQLite.
package store

import (
	"context"
	"time"

	"github.com/sells-group/propertycalc/internal/model"
)

// Store defines the persistence interface for properties and shared reports.
type Store interface {
	// Properties
	CreateProperty(ctx context.Context, in model.PropertyInputs) (*model.Property, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	ListPropertiesByPostcode(ctx context.Context, postcode string) ([]model.Property, error)
	ImportProperties(ctx context.Context, props []model.PropertyInputs) (int64, error)

	// Shared reports
	CreateSharedReport(ctx context.Context, snapshot model.Snapshot, ttl time.Duration) (*model.SharedReport, error)
	GetSharedReport(ctx context.Context, shareID string) (*model.SharedReport, error)
	DeleteExpiredReports(ctx context.Context, now time.Time) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// propertyColumns is the insert column order shared by both backends.
var propertyColumns = []string{
	"postcode",
	"purchase_price",
	"market_value",
	"monthly_rent",
	"monthly_hoa",
	"annual_taxes",
	"annual_insurance",
	"annual_maintenance",
	"management_fees",
	"created_at",
}

func propertyValues(in model.PropertyInputs, createdAt time.Time) []any {
	return []any{
		in.Postcode,
		in.PurchasePrice,
		in.MarketValue,
		in.MonthlyRent,
		in.MonthlyHoa,
		in.AnnualTaxes,
		in.AnnualInsurance,
		in.AnnualMaintenance,
		in.ManagementFees,
		createdAt,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProperty(row scannable) (model.Property, error) {
	var p model.Property
	err := row.Scan(
		&p.ID,
		&p.Postcode,
		&p.PurchasePrice,
		&p.MarketValue,
		&p.MonthlyRent,
		&p.MonthlyHoa,
		&p.AnnualTaxes,
		&p.AnnualInsurance,
		&p.AnnualMaintenance,
		&p.ManagementFees,
		&p.CreatedAt,
	)
	return p, err
}
