package sqlite

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

type demoArea struct {
	id, name string
	base     float64
}

type demoBuilding struct {
	building warehouse.Building
	areas    []demoArea
}

var demoSite = []demoBuilding{
	{
		building: warehouse.Building{ID: "B1", Name: "Alpha Tower", Region: "North", Portfolio: "Commercial"},
		areas: []demoArea{
			{id: "B1-A1", name: "Chiller Plant", base: 42},
			{id: "B1-A2", name: "Lobby", base: 8},
			{id: "B1-A3", name: "Office Floors", base: 25},
		},
	},
	{
		building: warehouse.Building{ID: "B2", Name: "Harbour Centre", Region: "South", Portfolio: "Retail"},
		areas: []demoArea{
			{id: "B2-A1", name: "Food Court", base: 30},
			{id: "B2-A2", name: "Car Park", base: 6},
		},
	},
	{
		building: warehouse.Building{ID: "B3", Name: "Tech Park", Region: "East", Portfolio: "Industrial"},
		areas: []demoArea{
			{id: "B3-A1", name: "Data Hall", base: 75},
			{id: "B3-A2", name: "Workshop", base: 18},
		},
	},
}

// DemoFixture builds hourly kWh readings for every demo area over the days
// before now. The same seed always yields the same rows.
func DemoFixture(now time.Time, days int, seed uint64) Fixture {
	if days <= 0 {
		days = 30
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	end := now.UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	var fixture Fixture
	for _, site := range demoSite {
		fixture.Buildings = append(fixture.Buildings, site.building)
		for _, area := range site.areas {
			fixture.Areas = append(fixture.Areas, warehouse.Area{ID: area.id, Name: area.name, BuildingID: site.building.ID})
			ptag := fmt.Sprintf("EA-%s-KWH", area.id)
			for ts := start.Add(time.Hour); !ts.After(end); ts = ts.Add(time.Hour) {
				daily := math.Sin(float64(ts.Hour()-6) / 24 * 2 * math.Pi)
				value := area.base * (1 + 0.35*daily + 0.1*(rng.Float64()-0.5))
				fixture.Readings = append(fixture.Readings, warehouse.Reading{
					BuildingID: site.building.ID,
					AreaID:     area.id,
					PtagID:     ptag,
					Value:      math.Round(value*100) / 100,
					Unit:       "kWh",
					Timestamp:  ts,
				})
			}
		}
	}
	return fixture
}
