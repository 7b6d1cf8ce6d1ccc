package domain

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxTemperature scales an absolute temperature into an interpolation factor.
const MaxTemperature = 12.8

// ColorStop is one fixed point of the heatmap gradient.
type ColorStop struct {
	R, G, B uint8
}

// Color converts the stop to a colorful.Color.
func (s ColorStop) Color() colorful.Color {
	return colorful.Color{R: float64(s.R) / 255, G: float64(s.G) / 255, B: float64(s.B) / 255}
}

// Hex returns the stop as an uppercase #RRGGBB code.
func (s ColorStop) Hex() string {
	return strings.ToUpper(s.Color().Hex())
}

// Stops are the five gradient stops; band i spans Stops[i] → Stops[i+1].
var Stops = [5]ColorStop{
	{R: 29, G: 72, B: 119},
	{R: 27, G: 138, B: 90},
	{R: 251, G: 176, B: 33},
	{R: 246, G: 136, B: 56},
	{R: 238, G: 62, B: 50},
}

// BandCount is the number of gradient bands.
const BandCount = len(Stops) - 1

// Factor scales an absolute temperature by MaxTemperature.
func Factor(temp float64) float64 {
	return temp / MaxTemperature
}

// FactorInRange reports whether f lies in the nominal [0, 1] interval.
func FactorInRange(f float64) bool {
	return f >= 0 && f <= 1
}

// Band selects the gradient band for a factor. Thresholds belong to the upper band.
func Band(factor float64) int {
	switch {
	case factor < 0.25:
		return 0
	case factor < 0.5:
		return 1
	case factor < 0.75:
		return 2
	default:
		return 3
	}
}

// InterpolateColor returns the fill for a record with the given variance.
func InterpolateColor(baseTemperature, variance float64) string {
	return ColorForTemperature(baseTemperature + variance)
}

// ColorForTemperature maps an absolute temperature to an uppercase #RRGGBB code.
// The factor is not clamped; the resulting channels are.
func ColorForTemperature(temp float64) string {
	factor := Factor(temp)
	band := Band(factor)
	c1, c2 := Stops[band], Stops[band+1]

	c := colorful.Color{
		R: channel(c1.R, c2.R, factor) / 255,
		G: channel(c1.G, c2.G, factor) / 255,
		B: channel(c1.B, c2.B, factor) / 255,
	}
	return strings.ToUpper(c.Clamped().Hex())
}

// channel interpolates one channel and rounds half up.
func channel(c1, c2 uint8, factor float64) float64 {
	return math.Floor(float64(c1) + factor*(float64(c2)-float64(c1)) + 0.5)
}
