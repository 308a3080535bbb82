package chart

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

var labels = Labels{
	Title:      "Energy Consumption Over Time",
	XAxis:      "Date",
	YAxis:      "Consumption (kWh)",
	Legend:     "Building",
	NoData:     "No data available",
	Unassigned: "Unassigned",
}

func at(hour int) time.Time {
	return time.Date(2026, 10, 1, hour, 0, 0, 0, time.UTC)
}

// Newest first, as the warehouse returns them.
func sampleReadings() []warehouse.Reading {
	return []warehouse.Reading{
		{BuildingID: "B2", BuildingName: "Harbour Centre", Value: 30, Timestamp: at(5)},
		{BuildingID: "B1", BuildingName: "Alpha Tower", Value: 12, Timestamp: at(4)},
		{BuildingID: "B1", BuildingName: "Alpha Tower", Value: 11, Timestamp: at(3)},
		{BuildingID: "B2", BuildingName: "Harbour Centre", Value: 28, Timestamp: at(2)},
		{BuildingID: "B1", BuildingName: "Alpha Tower", Value: 10, Timestamp: at(1)},
		{BuildingID: "B9", Value: 1, Timestamp: at(0)},
		{Value: 2, Timestamp: at(0)},
	}
}

func TestConsumptionOneLinePerBuildingAscending(t *testing.T) {
	t.Parallel()

	fig := Consumption(sampleReadings(), labels)

	names := make([]string, 0, len(fig.Data))
	for _, trace := range fig.Data {
		names = append(names, trace.Name)
		if trace.Type != "scatter" || trace.Mode != "lines" {
			t.Fatalf("trace %q type/mode = %s/%s", trace.Name, trace.Type, trace.Mode)
		}
		for i := 1; i < len(trace.X); i++ {
			if trace.X[i] < trace.X[i-1] {
				t.Fatalf("trace %q x not ascending: %v", trace.Name, trace.X)
			}
		}
	}
	if diff := cmp.Diff([]string{"Alpha Tower", "B9", "Harbour Centre", "Unassigned"}, names); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}

	alpha := fig.Data[0]
	if diff := cmp.Diff([]string{"2026-10-01 01:00:00", "2026-10-01 03:00:00", "2026-10-01 04:00:00"}, alpha.X); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{10, 11, 12}, alpha.Y); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestConsumptionLayout(t *testing.T) {
	t.Parallel()

	fig := Consumption(sampleReadings(), labels)
	if fig.Layout.Title.Text != labels.Title {
		t.Fatalf("title = %q, want %q", fig.Layout.Title.Text, labels.Title)
	}
	if fig.Layout.XAxis.Title.Text != "Date" || fig.Layout.YAxis.Title.Text != "Consumption (kWh)" {
		t.Fatalf("axes = %q / %q", fig.Layout.XAxis.Title.Text, fig.Layout.YAxis.Title.Text)
	}
	if fig.Layout.HoverMode != "x unified" || fig.Layout.Height != Height || fig.Layout.PlotBGColor != PlotBGColor {
		t.Fatalf("layout = %+v", fig.Layout)
	}
}

func TestConsumptionDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	readings := sampleReadings()
	_ = Consumption(readings, labels)
	if !readings[0].Timestamp.Equal(at(5)) {
		t.Fatalf("input reordered: first = %v", readings[0].Timestamp)
	}
}

func TestChartsWithoutReadingsShowNoData(t *testing.T) {
	t.Parallel()

	for name, fig := range map[string]Figure{
		"consumption":  Consumption(nil, labels),
		"distribution": Distribution(nil, labels),
	} {
		if len(fig.Data) != 0 {
			t.Fatalf("%s: expected empty figure", name)
		}
		if fig.Layout.Title.Text != "No data available" {
			t.Fatalf("%s: title = %q", name, fig.Layout.Title.Text)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{
			name:   "single",
			values: []float64{7},
			want:   Summary{Q1: 7, Median: 7, Q3: 7, LowerFence: 7, UpperFence: 7, Mean: 7},
		},
		{
			name:   "odd",
			values: []float64{5, 1, 4, 2, 3},
			want:   Summary{Q1: 2, Median: 3, Q3: 4, LowerFence: 1, UpperFence: 5, Mean: 3},
		},
		{
			name:   "even interpolates",
			values: []float64{4, 3, 2, 1},
			want:   Summary{Q1: 1.75, Median: 2.5, Q3: 3.25, LowerFence: 1, UpperFence: 4, Mean: 2.5},
		},
		{
			name:   "outlier beyond fence",
			values: []float64{1, 2, 3, 4, 100},
			want:   Summary{Q1: 2, Median: 3, Q3: 4, LowerFence: 1, UpperFence: 4, Mean: 22},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Summarize(tc.values)
			if !ok {
				t.Fatal("Summarize() ok = false")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("summary mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, ok := Summarize(nil); ok {
		t.Fatal("Summarize(nil) ok = true")
	}
}

func TestDistributionOneBoxPerBuilding(t *testing.T) {
	t.Parallel()

	fig := Distribution(sampleReadings(), Labels{Title: "Consumption Distribution by Building", YAxis: "Consumption (kWh)", Unassigned: "Unassigned"})
	if len(fig.Data) != 4 {
		t.Fatalf("boxes = %d, want 4", len(fig.Data))
	}
	alpha := fig.Data[0]
	if alpha.Type != "box" || alpha.Name != "Alpha Tower" {
		t.Fatalf("first box = %s %q", alpha.Type, alpha.Name)
	}
	if diff := cmp.Diff([]float64{11}, alpha.Median); diff != "" {
		t.Fatalf("median mismatch (-want +got):\n%s", diff)
	}
	if fig.Layout.ShowLegend == nil || *fig.Layout.ShowLegend {
		t.Fatal("distribution legend should be hidden")
	}
}

func TestNonFiniteValuesAreNotPlotted(t *testing.T) {
	t.Parallel()

	readings := append(sampleReadings(),
		warehouse.Reading{BuildingID: "B1", BuildingName: "Alpha Tower", Value: math.NaN(), Timestamp: at(6)},
		warehouse.Reading{BuildingID: "B1", BuildingName: "Alpha Tower", Value: math.Inf(-1), Timestamp: at(7)},
	)
	for name, fig := range map[string]Figure{
		"consumption":  Consumption(readings, labels),
		"distribution": Distribution(readings, labels),
	} {
		if _, err := fig.JSON(); err != nil {
			t.Fatalf("%s: JSON() error = %v", name, err)
		}
	}
	alpha := Consumption(readings, labels).Data[0]
	if diff := cmp.Diff([]float64{10, 11, 12}, alpha.Y); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}

	only := []warehouse.Reading{{BuildingID: "B1", Value: math.NaN(), Timestamp: at(1)}}
	if fig := Distribution(only, labels); len(fig.Data) != 0 || fig.Layout.Title.Text != labels.NoData {
		t.Fatalf("distribution of NaN only = %+v, want no-data figure", fig.Layout.Title)
	}
}

func TestFigureJSONIsPlotlyShaped(t *testing.T) {
	t.Parallel()

	encoded, err := Distribution(sampleReadings()[:3], labels).JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"data", "layout"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("figure JSON missing %q: %s", key, encoded)
		}
	}
	for _, fragment := range []string{`"q1":[`, `"lowerfence":[`, `"boxpoints":false`, `"plot_bgcolor":"#f8f9fa"`} {
		if !strings.Contains(encoded, fragment) {
			t.Fatalf("figure JSON missing %s: %s", fragment, encoded)
		}
	}
}

func TestMessageFigure(t *testing.T) {
	t.Parallel()

	fig := Message("Error: boom")
	encoded, err := fig.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.Contains(encoded, `"data":[]`) {
		t.Fatalf("message figure should carry an empty data array: %s", encoded)
	}
	if len(fig.Layout.Annotations) != 1 || fig.Layout.Annotations[0].Text != "Error: boom" {
		t.Fatalf("annotations = %+v", fig.Layout.Annotations)
	}
}
