package warehouse

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema maps the four logical datasets onto warehouse tables and columns.
// The mapping differs between deployments, so it is configuration rather than
// code; see LoadSchemaFile.
type Schema struct {
	// Namespace qualifies every table ("dbo" on SQL Server). Empty means the
	// connection default.
	Namespace string        `yaml:"namespace"`
	Buildings BuildingTable `yaml:"buildings"`
	Areas     AreaTable     `yaml:"areas"`
	Readings  ReadingTable  `yaml:"readings"`
}

// BuildingTable names the building dimension table and its columns.
type BuildingTable struct {
	Table     string `yaml:"table"`
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Region    string `yaml:"region"`
	Portfolio string `yaml:"portfolio"`
}

// AreaTable names the area dimension table and its columns.
type AreaTable struct {
	Table      string `yaml:"table"`
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	BuildingID string `yaml:"building_id"`
}

// ReadingTable names the Ptag fact table and its columns.
type ReadingTable struct {
	Table      string `yaml:"table"`
	ID         string `yaml:"id"`
	BuildingID string `yaml:"building_id"`
	AreaID     string `yaml:"area_id"`
	PtagID     string `yaml:"ptag_id"`
	Value      string `yaml:"value"`
	Unit       string `yaml:"unit"`
	Timestamp  string `yaml:"timestamp"`
}

// DefaultSchema returns the EA Ptag warehouse layout. Only SQL Server puts the
// tables in the dbo namespace.
func DefaultSchema(driver string) Schema {
	schema := Schema{
		Buildings: BuildingTable{
			Table:     "DW_D_Building",
			ID:        "buildingId",
			Name:      "buildingName",
			Region:    "region",
			Portfolio: "portfolio",
		},
		Areas: AreaTable{
			Table:      "DW_D_Area",
			ID:         "areaId",
			Name:       "areaName",
			BuildingID: "buildingId",
		},
		Readings: ReadingTable{
			Table:      "DW_F_EAPtag",
			ID:         "id",
			BuildingID: "buildingId",
			AreaID:     "areaId",
			PtagID:     "ptagId",
			Value:      "value",
			Unit:       "unit",
			Timestamp:  "timestamp",
		},
	}
	if driver == DriverSQLServer {
		schema.Namespace = "dbo"
	}
	return schema
}

// LoadSchemaFile overlays the YAML mapping at path onto base. Keys missing from
// the file keep their base value.
func LoadSchemaFile(path string, base Schema) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	schema := base
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	if err := schema.Validate(); err != nil {
		return Schema{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return schema, nil
}

// ResolveSchema returns the default schema for the configured driver with the
// optional schema file applied.
func ResolveSchema(settings Settings) (Schema, error) {
	driver, err := settings.NormalizedDriver()
	if err != nil {
		return Schema{}, err
	}
	schema := DefaultSchema(driver)
	if path := strings.TrimSpace(settings.SchemaFile); path != "" {
		return LoadSchemaFile(path, schema)
	}
	return schema, schema.Validate()
}

// Validate rejects any name that is not a plain SQL identifier. Names are
// written into query text, so this is what keeps the mapping injection-safe.
func (s Schema) Validate() error {
	if s.Namespace != "" && !identifierPattern.MatchString(s.Namespace) {
		return fmt.Errorf("invalid namespace %q", s.Namespace)
	}
	fields := []struct {
		key   string
		value string
	}{
		{"buildings.table", s.Buildings.Table},
		{"buildings.id", s.Buildings.ID},
		{"buildings.name", s.Buildings.Name},
		{"buildings.region", s.Buildings.Region},
		{"buildings.portfolio", s.Buildings.Portfolio},
		{"areas.table", s.Areas.Table},
		{"areas.id", s.Areas.ID},
		{"areas.name", s.Areas.Name},
		{"areas.building_id", s.Areas.BuildingID},
		{"readings.table", s.Readings.Table},
		{"readings.id", s.Readings.ID},
		{"readings.building_id", s.Readings.BuildingID},
		{"readings.area_id", s.Readings.AreaID},
		{"readings.ptag_id", s.Readings.PtagID},
		{"readings.value", s.Readings.Value},
		{"readings.unit", s.Readings.Unit},
		{"readings.timestamp", s.Readings.Timestamp},
	}
	for _, field := range fields {
		if !identifierPattern.MatchString(field.value) {
			return fmt.Errorf("invalid identifier for %s: %q", field.key, field.value)
		}
	}
	return nil
}

func (s Schema) table(name string) string {
	if s.Namespace == "" {
		return name
	}
	return s.Namespace + "." + name
}
