package warehouse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSchemaValidates(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{DriverSQLServer, DriverPostgres, DriverSQLite} {
		if err := DefaultSchema(driver).Validate(); err != nil {
			t.Fatalf("DefaultSchema(%s).Validate() error = %v", driver, err)
		}
	}
	if got := DefaultSchema(DriverSQLServer).table("DW_D_Area"); got != "dbo.DW_D_Area" {
		t.Fatalf("sqlserver table = %q, want dbo.DW_D_Area", got)
	}
	if got := DefaultSchema(DriverSQLite).table("DW_D_Area"); got != "DW_D_Area" {
		t.Fatalf("sqlite table = %q, want DW_D_Area", got)
	}
}

func TestLoadSchemaFileOverlaysBase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `
namespace: analytics
areas:
  table: DW_D_Location
  id: locationId
  name: locationName
readings:
  timestamp: readingTime
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	schema, err := LoadSchemaFile(path, DefaultSchema(DriverSQLServer))
	if err != nil {
		t.Fatalf("LoadSchemaFile() error = %v", err)
	}
	if schema.Namespace != "analytics" {
		t.Fatalf("namespace = %q", schema.Namespace)
	}
	if schema.Areas.Table != "DW_D_Location" || schema.Areas.ID != "locationId" {
		t.Fatalf("areas = %+v", schema.Areas)
	}
	if schema.Areas.BuildingID != "buildingId" {
		t.Fatalf("unset key should keep base value, got %q", schema.Areas.BuildingID)
	}
	if schema.Readings.Timestamp != "readingTime" || schema.Readings.Value != "value" {
		t.Fatalf("readings = %+v", schema.Readings)
	}
}

func TestLoadSchemaFileRejectsUnsafeIdentifiers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := "readings:\n  table: \"DW_F_EAPtag; DROP TABLE x\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	_, err := LoadSchemaFile(path, DefaultSchema(DriverSQLite))
	if err == nil {
		t.Fatal("expected error for unsafe identifier")
	}
	if !strings.Contains(err.Error(), "readings.table") {
		t.Fatalf("error should name the offending key, got %v", err)
	}
}

func TestResolveSchemaWithoutFile(t *testing.T) {
	t.Parallel()

	schema, err := ResolveSchema(Settings{Driver: "postgres"})
	if err != nil {
		t.Fatalf("ResolveSchema() error = %v", err)
	}
	if schema.Namespace != "" {
		t.Fatalf("postgres namespace = %q, want empty", schema.Namespace)
	}
}
