package warehouse_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse/sqlite"
)

var day = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func testFixture() sqlite.Fixture {
	return sqlite.Fixture{
		Buildings: []warehouse.Building{
			{ID: "B2", Name: "Harbour Centre", Region: "South", Portfolio: "Retail"},
			{ID: "B1", Name: "Alpha Tower", Region: "North", Portfolio: "Commercial"},
		},
		Areas: []warehouse.Area{
			{ID: "B1-A2", Name: "Lobby", BuildingID: "B1"},
			{ID: "B1-A1", Name: "Chiller Plant", BuildingID: "B1"},
			{ID: "B2-A1", Name: "Food Court", BuildingID: "B2"},
		},
		Readings: []warehouse.Reading{
			{BuildingID: "B1", AreaID: "B1-A1", PtagID: "EA-1", Value: 10, Unit: "kWh", Timestamp: day},
			{BuildingID: "B1", AreaID: "B1-A2", PtagID: "EA-2", Value: 20.5, Unit: "kWh", Timestamp: day.Add(6 * time.Hour)},
			{BuildingID: "B1", AreaID: "B1-A1", PtagID: "EA-1", Value: 4, Unit: "kWh", Timestamp: day.Add(24*time.Hour - time.Second)},
			{BuildingID: "B2", AreaID: "B2-A1", PtagID: "EA-3", Value: 100, Unit: "kWh", Timestamp: day.Add(12 * time.Hour)},
			{BuildingID: "B1", AreaID: "B1-A1", PtagID: "EA-1", Value: 7, Unit: "kWh", Timestamp: day.Add(48 * time.Hour)},
			{BuildingID: "B9", AreaID: "", PtagID: "EA-9", Value: 1, Unit: "kWh", Timestamp: day.Add(-24 * time.Hour)},
		},
	}
}

func newTestStore(t *testing.T, fixture sqlite.Fixture) *warehouse.Store {
	t.Helper()

	store, _ := newTestStoreWithDB(t, fixture)
	return store
}

// newTestStoreWithDB also returns the pool, for tests that alter the schema.
func newTestStoreWithDB(t *testing.T, fixture sqlite.Fixture) (*warehouse.Store, *sql.DB) {
	t.Helper()

	ctx := context.Background()
	sqlDB, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "warehouse.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := sqlite.Insert(ctx, sqlDB, fixture); err != nil {
		t.Fatalf("insert fixture: %v", err)
	}

	store, err := warehouse.New(sqlDB, warehouse.DriverSQLite, warehouse.DefaultSchema(warehouse.DriverSQLite), 5*time.Second)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, sqlDB
}

func TestStorePing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, sqlite.Fixture{})
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestListBuildingsOrderedByName(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	buildings, err := store.ListBuildings(context.Background())
	if err != nil {
		t.Fatalf("ListBuildings() error = %v", err)
	}
	want := []warehouse.Building{
		{ID: "B1", Name: "Alpha Tower", Region: "North", Portfolio: "Commercial"},
		{ID: "B2", Name: "Harbour Centre", Region: "South", Portfolio: "Retail"},
	}
	if diff := cmp.Diff(want, buildings); diff != "" {
		t.Fatalf("buildings mismatch (-want +got):\n%s", diff)
	}
}

func TestListAreasScopedToBuilding(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	areas, err := store.ListAreas(context.Background(), "B1")
	if err != nil {
		t.Fatalf("ListAreas() error = %v", err)
	}
	want := []warehouse.Area{
		{ID: "B1-A1", Name: "Chiller Plant", BuildingID: "B1"},
		{ID: "B1-A2", Name: "Lobby", BuildingID: "B1"},
	}
	if diff := cmp.Diff(want, areas); diff != "" {
		t.Fatalf("areas mismatch (-want +got):\n%s", diff)
	}
}

func TestListAreasBlankBuildingSkipsQuery(t *testing.T) {
	t.Parallel()

	// A closed pool fails any query, so a nil error proves none was issued.
	store := newTestStore(t, testFixture())
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	areas, err := store.ListAreas(context.Background(), "  ")
	if err != nil {
		t.Fatalf("ListAreas() error = %v", err)
	}
	if len(areas) != 0 {
		t.Fatalf("areas = %v, want none", areas)
	}
}

func TestListReadingsInclusiveRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	r := warehouse.DateRange{Start: day, End: day.Add(24*time.Hour - time.Second)}
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{Range: r, Limit: 500})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	if len(readings) != 4 {
		t.Fatalf("readings = %d, want 4 (both range ends inclusive)", len(readings))
	}
	for _, reading := range readings {
		if !r.Contains(reading.Timestamp) {
			t.Fatalf("reading at %v outside %v..%v", reading.Timestamp, r.Start, r.End)
		}
	}
}

func TestListReadingsFractionalStartExcludesEarlierReading(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	r := warehouse.DateRange{Start: day.Add(6*time.Hour + 700*time.Millisecond), End: day.Add(7 * time.Hour)}
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{Range: r, Limit: 500})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	for _, reading := range readings {
		if !r.Contains(reading.Timestamp) {
			t.Fatalf("reading at %v outside %v..%v", reading.Timestamp, r.Start, r.End)
		}
	}
	if len(readings) != 0 {
		t.Fatalf("readings = %d, want 0", len(readings))
	}
}

func TestListReadingsFractionalTimestampsCompareExactly(t *testing.T) {
	t.Parallel()

	at := day.Add(6*time.Hour + 250*time.Millisecond)
	fixture := testFixture()
	fixture.Readings = append(fixture.Readings,
		warehouse.Reading{BuildingID: "B1", AreaID: "B1-A1", PtagID: "EA-7", Value: 3, Unit: "kWh", Timestamp: at})
	store := newTestStore(t, fixture)

	r := warehouse.DateRange{Start: day.Add(6*time.Hour + 100*time.Millisecond), End: at}
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{Range: r, Limit: 500})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1", len(readings))
	}
	if got := readings[0].Timestamp; !got.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", got, at)
	}
}

func TestListReadingsNewestFirstWithinLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("readings = %d, want 3", len(readings))
	}
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.After(readings[i-1].Timestamp) {
			t.Fatalf("readings not sorted desc at %d: %v after %v", i, readings[i].Timestamp, readings[i-1].Timestamp)
		}
	}
	if got := readings[0].Timestamp; !got.Equal(day.Add(48 * time.Hour)) {
		t.Fatalf("newest = %v, want %v", got, day.Add(48*time.Hour))
	}
}

func TestListReadingsResolvesNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{
		BuildingID: "B1",
		AreaID:     "B1-A2",
	})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1", len(readings))
	}
	got := readings[0]
	got.ID = ""
	want := warehouse.Reading{
		BuildingID:   "B1",
		BuildingName: "Alpha Tower",
		AreaID:       "B1-A2",
		AreaName:     "Lobby",
		PtagID:       "EA-2",
		Value:        20.5,
		Unit:         "kWh",
		Timestamp:    day.Add(6 * time.Hour),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reading mismatch (-want +got):\n%s", diff)
	}
}

func TestListReadingsUnresolvedNamesAreBlank(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	readings, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{BuildingID: "B9"})
	if err != nil {
		t.Fatalf("ListReadings() error = %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1", len(readings))
	}
	if readings[0].BuildingName != "" || readings[0].AreaName != "" || readings[0].AreaID != "" {
		t.Fatalf("reading = %+v, want blank names", readings[0])
	}
}

func TestListReadingsRejectsReversedRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, sqlite.Fixture{})
	_, err := store.ListReadings(context.Background(), warehouse.ReadingFilter{
		Range: warehouse.DateRange{Start: day, End: day.Add(-time.Hour)},
	})
	if !errors.Is(err, warehouse.ErrInvalidRange) {
		t.Fatalf("ListReadings() error = %v, want ErrInvalidRange", err)
	}
}

func TestComputeMetricsForBuildingAndRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	summary, err := store.ComputeMetrics(context.Background(), warehouse.MetricsFilter{
		BuildingID: "B1",
		Range:      warehouse.DateRange{Start: day, End: day.Add(24*time.Hour - time.Second)},
	})
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	want := warehouse.MetricsSummary{
		Total:       34.5,
		Average:     11.5,
		Peak:        20.5,
		Lowest:      4,
		RecordCount: 3,
		FirstAt:     day,
		LastAt:      day.Add(24*time.Hour - time.Second),
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeMetricsEmptySetIsZero(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testFixture())
	summary, err := store.ComputeMetrics(context.Background(), warehouse.MetricsFilter{BuildingID: "missing"})
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	if diff := cmp.Diff(warehouse.MetricsSummary{}, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreUnavailableWhenPoolClosed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, sqlite.Fixture{})
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	err := store.Ping(context.Background())
	if !warehouse.IsUnavailable(err) {
		t.Fatalf("Ping() error = %v, want unavailable", err)
	}
	if _, err := store.ListBuildings(context.Background()); !warehouse.IsUnavailable(err) {
		t.Fatalf("ListBuildings() error = %v, want unavailable", err)
	}
}

func TestStoreQueryErrorIsNotUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, sqlDB := newTestStoreWithDB(t, sqlite.Fixture{})
	if _, err := sqlDB.ExecContext(ctx, "DROP TABLE DW_D_Building"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := store.ListBuildings(ctx)
	if err == nil {
		t.Fatal("expected query error")
	}
	if warehouse.IsUnavailable(err) {
		t.Fatalf("error %v should not be classified as unavailable", err)
	}
}

func TestOpenIsLazy(t *testing.T) {
	t.Parallel()

	store, err := warehouse.Open(warehouse.Settings{
		Driver:         "postgres",
		Server:         "127.0.0.1:1",
		Database:       "ptag",
		ConnectTimeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); !warehouse.IsUnavailable(err) {
		t.Fatalf("Ping() error = %v, want unavailable", err)
	}
}
