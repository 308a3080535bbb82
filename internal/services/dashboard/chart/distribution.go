package chart

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/tcld/ptagdash/internal/services/dashboard/warehouse"
)

// Summary is the five-number box summary of one building's values.
type Summary struct {
	Q1         float64
	Median     float64
	Q3         float64
	LowerFence float64
	UpperFence float64
	Mean       float64
}

// Summarize computes quartiles with linear interpolation between closest
// ranks. Fences are the most extreme values within 1.5 IQR of the box.
func Summarize(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := Summary{
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Mean:   lo.Sum(sorted) / float64(len(sorted)),
	}
	iqr := s.Q3 - s.Q1
	low, high := s.Q1-1.5*iqr, s.Q3+1.5*iqr
	s.LowerFence, s.UpperFence = s.Q1, s.Q3
	for _, v := range sorted {
		if v >= low {
			s.LowerFence = math.Min(v, s.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= high {
			s.UpperFence = math.Max(sorted[i], s.Q3)
			break
		}
	}
	return s, true
}

func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Distribution draws one precomputed box per building.
func Distribution(readings []warehouse.Reading, labels Labels) Figure {
	readings = plottable(readings)
	if len(readings) == 0 {
		return Message(labels.NoData)
	}
	groups := groupByBuilding(readings, labels.Unassigned)

	traces := make([]Trace, 0, len(groups))
	for _, group := range groups {
		values := lo.Map(group.readings, func(r warehouse.Reading, _ int) float64 { return r.Value })
		s, ok := Summarize(values)
		if !ok {
			continue
		}
		traces = append(traces, Trace{
			Type:       "box",
			Name:       group.name,
			X:          []string{group.name},
			Q1:         []float64{s.Q1},
			Median:     []float64{s.Median},
			Q3:         []float64{s.Q3},
			LowerFence: []float64{s.LowerFence},
			UpperFence: []float64{s.UpperFence},
			Mean:       []float64{s.Mean},
			BoxPoints:  false,
		})
	}

	showLegend := false
	return Figure{
		Data: traces,
		Layout: Layout{
			Title:       Text{Text: labels.Title},
			XAxis:       &Axis{Title: Text{Text: labels.XAxis}},
			YAxis:       &Axis{Title: Text{Text: labels.YAxis}},
			PlotBGColor: PlotBGColor,
			Height:      Height,
			ShowLegend:  &showLegend,
		},
	}
}
