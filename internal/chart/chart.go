package chart

import (
	"math"
	"strconv"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Title is the chart heading.
const Title = "Monthly Global Land-Surface Temperature"

// Chart is the render context built once from a loaded dataset. Scales and
// geometry are derived in New and never change afterwards.
type Chart struct {
	Geometry Geometry
	Dataset  domain.Dataset
	X        *BandScale
	Y        *BandScale
	Legend   LegendScale
}

// Cell is one rendered heatmap rectangle.
type Cell struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Variance    float64 `json:"variance"`
	Temperature float64 `json:"temperature"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        string  `json:"fill"`
}

// MonthName is the cell's month as an English name.
func (c Cell) MonthName() string {
	return domain.MonthName(c.Month)
}

// New builds the chart context for ds using the default geometry.
func New(ds domain.Dataset) *Chart {
	return NewWithGeometry(ds, DefaultGeometry())
}

// NewWithGeometry builds the chart context for ds on a custom canvas.
func NewWithGeometry(ds domain.Dataset, g Geometry) *Chart {
	return &Chart{
		Geometry: g,
		Dataset:  ds,
		X:        NewBandScale(ds.Years(), 0, g.Width()),
		Y:        NewBandScale([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 0, g.Height()),
		Legend:   NewLegendScale(),
	}
}

// Description summarizes the year span and base temperature.
func (c *Chart) Description() string {
	minYear, maxYear := c.Dataset.YearRange()
	return strconv.Itoa(minYear) + " - " + strconv.Itoa(maxYear) +
		": base temperature " + formatNumber(c.Dataset.BaseTemperature) + "℃"
}

// Cells lays out one cell per record, in dataset order.
func (c *Chart) Cells() []Cell {
	cells := make([]Cell, 0, len(c.Dataset.MonthlyVariance))
	for _, r := range c.Dataset.MonthlyVariance {
		x, _ := c.X.Map(r.Year)
		y, _ := c.Y.Map(r.Month)
		cells = append(cells, Cell{
			Year:        r.Year,
			Month:       r.Month,
			Variance:    r.Variance,
			Temperature: c.Dataset.Temperature(r),
			X:           x,
			Y:           y,
			Width:       c.X.Bandwidth(),
			Height:      c.Y.Bandwidth(),
			Fill:        domain.InterpolateColor(c.Dataset.BaseTemperature, r.Variance),
		})
	}
	return cells
}

// formatNumber prints v rounded to three decimals without trailing zeros,
// so 8.0 + 1.0 renders as "9" and float noise like 3.7000000000000006 as "3.7".
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
