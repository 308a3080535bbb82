// Package sqlite provisions a local SQLite warehouse with the default EA Ptag
// layout, for development without the production warehouse and for tests.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/tcld/ptagdash/internal/platform/storage/sqlitemigrate"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Open opens (creating if needed) the SQLite file at path and applies the
// warehouse migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite warehouse: %w", err)
	}
	if err := Migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// Migrate creates the warehouse tables when they are missing.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrationFS, "migrations"); err != nil {
		return fmt.Errorf("migrate sqlite warehouse: %w", err)
	}
	return nil
}

// Fixture is a set of dimension and fact rows to load into the warehouse.
type Fixture struct {
	Buildings []warehouse.Building
	Areas     []warehouse.Area
	Readings  []warehouse.Reading
}

// Insert loads fixture rows in one transaction. Reading ids are assigned by
// the database.
func Insert(ctx context.Context, sqlDB *sql.DB, fixture Fixture) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixture insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range fixture.Buildings {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO DW_D_Building (buildingId, buildingName, region, portfolio) VALUES (?, ?, ?, ?)",
			b.ID, nullable(b.Name), nullable(b.Region), nullable(b.Portfolio),
		); err != nil {
			return fmt.Errorf("insert building %s: %w", b.ID, err)
		}
	}
	for _, a := range fixture.Areas {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO DW_D_Area (areaId, areaName, buildingId) VALUES (?, ?, ?)",
			a.ID, nullable(a.Name), a.BuildingID,
		); err != nil {
			return fmt.Errorf("insert area %s: %w", a.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO DW_F_EAPtag (buildingId, areaId, ptagId, value, unit, timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare reading insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range fixture.Readings {
		if _, err := stmt.ExecContext(ctx,
			nullable(r.BuildingID), nullable(r.AreaID), r.PtagID, r.Value, r.Unit,
			r.Timestamp.UTC().Format(warehouse.SQLiteTimeLayout),
		); err != nil {
			return fmt.Errorf("insert reading %s: %w", r.PtagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture insert: %w", err)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
