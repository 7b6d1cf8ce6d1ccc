package chart

import (
	"fmt"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Tick is a labelled position along an axis.
type Tick struct {
	Value float64
	Label string
	Pos   float64
}

// YearTicks returns one tick per decade year in the scale's domain, centred in its band.
func YearTicks(x *BandScale) []Tick {
	var ticks []Tick
	for _, year := range x.Domain() {
		if year%10 != 0 {
			continue
		}
		pos, _ := x.Map(year)
		ticks = append(ticks, Tick{
			Value: float64(year),
			Label: domain.YearLabel(year),
			Pos:   pos + x.Bandwidth()/2,
		})
	}
	return ticks
}

// MonthTicks returns a tick for every month in the scale's domain.
func MonthTicks(y *BandScale) []Tick {
	ticks := make([]Tick, 0, 12)
	for _, month := range y.Domain() {
		pos, _ := y.Map(month)
		ticks = append(ticks, Tick{
			Value: float64(month),
			Label: domain.MonthName(month),
			Pos:   pos + y.Bandwidth()/2,
		})
	}
	return ticks
}

// LegendTicks labels every legend breakpoint with one decimal.
func LegendTicks(l LegendScale) []Tick {
	ticks := make([]Tick, 0, len(LegendBreakpoints))
	for _, v := range LegendBreakpoints {
		ticks = append(ticks, Tick{Value: v, Label: fmt.Sprintf("%.1f", v), Pos: l.Map(v)})
	}
	return ticks
}
