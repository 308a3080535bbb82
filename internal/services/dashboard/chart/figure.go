// Package chart shapes readings into Plotly figures. Figures are built and
// summarized on the server; the browser only draws the JSON.
package chart

import "encoding/json"

// Shared look of every dashboard chart.
const (
	Height        = 400
	PlotBGColor   = "#f8f9fa"
	TimeLayout    = "2006-01-02 15:04:05"
	noDataOpacity = 0.6
)

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly series. Only the fields for line and precomputed box
// traces are modeled.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X []string  `json:"x,omitempty"`
	Y []float64 `json:"y,omitempty"`

	Q1         []float64 `json:"q1,omitempty"`
	Median     []float64 `json:"median,omitempty"`
	Q3         []float64 `json:"q3,omitempty"`
	LowerFence []float64 `json:"lowerfence,omitempty"`
	UpperFence []float64 `json:"upperfence,omitempty"`
	Mean       []float64 `json:"mean,omitempty"`
	BoxPoints  any       `json:"boxpoints,omitempty"`
}

// Layout holds the figure chrome.
type Layout struct {
	Title       Text         `json:"title"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	PlotBGColor string       `json:"plot_bgcolor,omitempty"`
	Height      int          `json:"height,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	LegendTitle *Legend      `json:"legend,omitempty"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Axis is a Plotly axis.
type Axis struct {
	Title   Text   `json:"title"`
	Type    string `json:"type,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// Legend is the Plotly legend block.
type Legend struct {
	Title Text `json:"title"`
}

// Annotation is free text placed on the plot.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
	Opacity   float64 `json:"opacity,omitempty"`
}

// JSON encodes the figure for the client renderer.
func (f Figure) JSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Message returns an empty figure whose title and centered note carry msg.
// It stands in for a chart when there is no data or the data failed to load.
func Message(msg string) Figure {
	hidden := false
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:       Text{Text: msg},
			XAxis:       &Axis{Visible: &hidden},
			YAxis:       &Axis{Visible: &hidden},
			PlotBGColor: PlotBGColor,
			Height:      Height,
			Annotations: []Annotation{{
				Text:    msg,
				XRef:    "paper",
				YRef:    "paper",
				X:       0.5,
				Y:       0.5,
				Opacity: noDataOpacity,
			}},
		},
	}
}
