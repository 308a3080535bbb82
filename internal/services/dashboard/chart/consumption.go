package chart

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Labels are the localized strings a chart needs.
type Labels struct {
	Title string
	XAxis string
	YAxis string
	// Legend titles the series legend.
	Legend string
	// NoData titles the placeholder figure drawn when there are no readings.
	NoData string
	// Unassigned names readings whose building does not resolve.
	Unassigned string
}

// Consumption draws one line per building with value against timestamp,
// oldest reading first. Buildings are ordered by name.
func Consumption(readings []warehouse.Reading, labels Labels) Figure {
	readings = plottable(readings)
	if len(readings) == 0 {
		return Message(labels.NoData)
	}
	groups := groupByBuilding(readings, labels.Unassigned)

	traces := make([]Trace, 0, len(groups))
	for _, group := range groups {
		points := slices.Clone(group.readings)
		slices.SortStableFunc(points, func(a, b warehouse.Reading) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
		traces = append(traces, Trace{
			Type: "scatter",
			Mode: "lines",
			Name: group.name,
			X: lo.Map(points, func(r warehouse.Reading, _ int) string {
				return r.Timestamp.UTC().Format(TimeLayout)
			}),
			Y: lo.Map(points, func(r warehouse.Reading, _ int) float64 { return r.Value }),
		})
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:       Text{Text: labels.Title},
			XAxis:       &Axis{Title: Text{Text: labels.XAxis}, Type: "date"},
			YAxis:       &Axis{Title: Text{Text: labels.YAxis}},
			LegendTitle: &Legend{Title: Text{Text: labels.Legend}},
			HoverMode:   "x unified",
			PlotBGColor: PlotBGColor,
			Height:      Height,
		},
	}
}

// plottable drops readings whose value is NaN or infinite. JSON cannot carry
// them and they would poison the box statistics.
func plottable(readings []warehouse.Reading) []warehouse.Reading {
	return lo.Filter(readings, func(r warehouse.Reading, _ int) bool {
		return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
	})
}

type buildingGroup struct {
	name     string
	readings []warehouse.Reading
}

func groupByBuilding(readings []warehouse.Reading, unassigned string) []buildingGroup {
	grouped := lo.GroupBy(readings, func(r warehouse.Reading) string {
		return buildingLabel(r, unassigned)
	})
	groups := make([]buildingGroup, 0, len(grouped))
	for name, members := range grouped {
		groups = append(groups, buildingGroup{name: name, readings: members})
	}
	slices.SortFunc(groups, func(a, b buildingGroup) int {
		return cmp.Compare(a.name, b.name)
	})
	return groups
}

func buildingLabel(r warehouse.Reading, unassigned string) string {
	if name := strings.TrimSpace(r.BuildingName); name != "" {
		return name
	}
	if id := strings.TrimSpace(r.BuildingID); id != "" {
		return id
	}
	return unassigned
}
