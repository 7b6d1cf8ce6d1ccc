package chart

import "github.com/aclements/go-moremath/scale"

// BandScale maps a discrete domain onto evenly sized bands of a pixel range.
// The domain keeps first-seen order and drops duplicates. There is no padding.
type BandScale struct {
	domain     []int
	index      map[int]int
	start, end float64
}

// NewBandScale builds a band scale over values spanning [start, end].
func NewBandScale(values []int, start, end float64) *BandScale {
	s := &BandScale{index: make(map[int]int), start: start, end: end}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}
	return s
}

// Domain returns a copy of the ordered domain.
func (s *BandScale) Domain() []int {
	return append([]int(nil), s.domain...)
}

// Step is the distance between the starts of adjacent bands.
func (s *BandScale) Step() float64 {
	if len(s.domain) == 0 {
		return 0
	}
	return (s.end - s.start) / float64(len(s.domain))
}

// Bandwidth is the size of a single band.
func (s *BandScale) Bandwidth() float64 {
	return s.Step()
}

// Map returns the start of v's band. ok is false when v is not in the domain.
func (s *BandScale) Map(v int) (pos float64, ok bool) {
	i, ok := s.index[v]
	if !ok {
		return 0, false
	}
	return s.start + float64(i)*s.Step(), true
}

// LegendBreakpoints are the temperatures labelled under the legend.
var LegendBreakpoints = []float64{2.8, 3.9, 5.0, 6.1, 7.2, 8.3, 9.5, 10.6, 11.7, 12.8}

// legendSegmentWidth is the pixel width of the first breakpoint interval.
// Later breakpoints are extrapolated from it, which puts 12.8 at 400px.
const legendSegmentWidth = 44

// LegendScale positions legend tick labels. It is independent of the color
// interpolation and only affects where labels are drawn.
type LegendScale struct {
	linear scale.Linear
	width  float64
}

// NewLegendScale maps the first breakpoint interval onto [0, 44] and
// extrapolates linearly beyond it.
func NewLegendScale() LegendScale {
	return LegendScale{
		linear: scale.Linear{Min: LegendBreakpoints[0], Max: LegendBreakpoints[1]},
		width:  legendSegmentWidth,
	}
}

// Map returns the pixel offset of temperature v.
func (l LegendScale) Map(v float64) float64 {
	return l.linear.Map(v) * l.width
}
