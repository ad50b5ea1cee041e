package model

// Chart types understood by consumers of comparison output.
const (
	ChartBar  = "bar"
	ChartLine = "line"
)

// ChartPoint is a single labeled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one named series of points.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartConfig describes one comparison chart as data. Rendering is left
// to the consumer.
type ChartConfig struct {
	ChartType string        `json:"chart_type"`
	Title     string        `json:"title"`
	XAxis     string        `json:"x_axis,omitempty"`
	YAxis     string        `json:"y_axis,omitempty"`
	Series    []ChartSeries `json:"series"`
}
