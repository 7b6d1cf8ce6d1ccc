package chart

import (
	"strconv"
	"strings"
)

// Tooltip placement relative to the pointer, in pixels.
const (
	TooltipOffsetX = 20
	TooltipOffsetY = -20
)

// Point is a pointer position in page coordinates.
type Point struct {
	X, Y float64
}

// TooltipState is the full visual state of the single tooltip element.
type TooltipState struct {
	Opacity float64
	Display string
	Lines   []string
	Left    float64
	Top     float64
	Year    int
}

// Text joins the tooltip lines with newlines.
func (s TooltipState) Text() string {
	return strings.Join(s.Lines, "\n")
}

// TooltipLines returns "{year} {month}", the absolute temperature and the variance.
func TooltipLines(cell Cell) []string {
	return []string{
		strconv.Itoa(cell.Year) + " " + cell.MonthName(),
		formatNumber(cell.Temperature),
		formatNumber(cell.Variance),
	}
}

// OnPointerEnter shows the tooltip for cell next to the pointer.
func OnPointerEnter(p Point, cell Cell) TooltipState {
	return TooltipState{
		Opacity: 1,
		Display: "block",
		Lines:   TooltipLines(cell),
		Left:    p.X + TooltipOffsetX,
		Top:     p.Y + TooltipOffsetY,
		Year:    cell.Year,
	}
}

// OnPointerLeave hides the tooltip.
func OnPointerLeave() TooltipState {
	return TooltipState{Opacity: 0, Display: "none"}
}
