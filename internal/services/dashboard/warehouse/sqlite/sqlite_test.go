package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "warehouse.db")

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Migrate(ctx, first); err != nil {
		t.Fatalf("Migrate() again error = %v", err)
	}
	_ = first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	for _, table := range []string{"DW_D_Building", "DW_D_Area", "DW_F_EAPtag"} {
		var name string
		err := second.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestInsertStoresFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "warehouse.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	fixture := DemoFixture(now, 2, 1)
	if err := Insert(ctx, db, fixture); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	// Dimensions are upserted, so loading twice keeps one row per id.
	if err := Insert(ctx, db, Fixture{Buildings: fixture.Buildings, Areas: fixture.Areas}); err != nil {
		t.Fatalf("Insert() again error = %v", err)
	}

	counts := map[string]int{
		"DW_D_Building": len(fixture.Buildings),
		"DW_D_Area":     len(fixture.Areas),
		"DW_F_EAPtag":   len(fixture.Readings),
	}
	for table, want := range counts {
		var got int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Fatalf("%s rows = %d, want %d", table, got, want)
		}
	}

	var stamp string
	if err := db.QueryRowContext(ctx, "SELECT MAX(timestamp) FROM DW_F_EAPtag").Scan(&stamp); err != nil {
		t.Fatalf("max timestamp: %v", err)
	}
	if stamp != "2026-10-15 09:00:00" {
		t.Fatalf("max timestamp = %q, want %q", stamp, "2026-10-15 09:00:00")
	}
}

func TestDemoFixtureIsDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	a := DemoFixture(now, 3, 7)
	b := DemoFixture(now, 3, 7)

	if len(a.Buildings) != 3 || len(a.Areas) != 7 {
		t.Fatalf("buildings/areas = %d/%d, want 3/7", len(a.Buildings), len(a.Areas))
	}
	if want := 7 * 3 * 24; len(a.Readings) != want {
		t.Fatalf("readings = %d, want %d", len(a.Readings), want)
	}
	for i := range a.Readings {
		if a.Readings[i] != b.Readings[i] {
			t.Fatalf("reading %d differs between runs: %+v vs %+v", i, a.Readings[i], b.Readings[i])
		}
	}
	for _, r := range a.Readings {
		if r.Value <= 0 {
			t.Fatalf("reading %+v has non-positive value", r)
		}
		if r.Timestamp.After(now) {
			t.Fatalf("reading %+v is in the future", r)
		}
	}
}
