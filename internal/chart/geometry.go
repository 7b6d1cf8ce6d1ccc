package chart

// Margin is the space reserved around the plotting area, in pixels.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Geometry holds the fixed outer canvas size and its margins.
type Geometry struct {
	OuterWidth, OuterHeight float64
	Margin                  Margin
}

// DefaultGeometry is the 1200×800 canvas used for every render.
func DefaultGeometry() Geometry {
	return Geometry{
		OuterWidth:  1200,
		OuterHeight: 800,
		Margin:      Margin{Top: 100, Right: 30, Bottom: 150, Left: 80},
	}
}

// Width is the inner plotting width.
func (g Geometry) Width() float64 {
	return g.OuterWidth - g.Margin.Left - g.Margin.Right
}

// Height is the inner plotting height.
func (g Geometry) Height() float64 {
	return g.OuterHeight - g.Margin.Top - g.Margin.Bottom
}
