package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// legendBandWidth and legendBandHeight size each of the four legend swatches.
const (
	legendBandWidth  = 100
	legendBandHeight = 50
	legendOffset     = 100
	tickSize         = 6
	tickPadding      = 3
)

// SVGOptions controls optional parts of the rendered SVG.
type SVGOptions struct {
	// Interactive adds pointer handlers to every cell. The handlers are
	// defined by the page script, so standalone SVGs leave this off.
	Interactive bool
}

// RenderSVG writes the full heatmap as an SVG document.
func (c *Chart) RenderSVG(w io.Writer, opts SVGOptions) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	g := c.Geometry

	canvas.Start(g.OuterWidth, g.OuterHeight)
	canvas.Group(fmt.Sprintf(`transform="translate(%s,%s)"`, num(g.Margin.Left), num(g.Margin.Top)))

	c.renderGradients(canvas)
	c.renderHeadings(canvas)
	c.renderXAxis(canvas)
	c.renderYAxis(canvas)
	c.renderLegend(canvas)
	c.renderCells(canvas, opts)

	canvas.Gend()
	canvas.End()

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// InlineSVG renders the chart starting at the <svg> element, dropping the
// XML declaration and generator comment, for embedding in HTML.
func (c *Chart) InlineSVG(opts SVGOptions) (string, error) {
	var buf bytes.Buffer
	if err := c.RenderSVG(&buf, opts); err != nil {
		return "", err
	}
	out := buf.String()
	if i := strings.Index(out, "<svg"); i > 0 {
		out = out[i:]
	}
	return out, nil
}

func (c *Chart) renderGradients(canvas *svg.SVG) {
	canvas.Def()
	for band := 0; band < domain.BandCount; band++ {
		canvas.LinearGradient(gradientID(band), 0, 0, 100, 0, []svg.Offcolor{
			{Offset: 0, Color: domain.Stops[band].Hex(), Opacity: 1},
			{Offset: 100, Color: domain.Stops[band+1].Hex(), Opacity: 1},
		})
	}
	canvas.DefEnd()
}

func (c *Chart) renderHeadings(canvas *svg.SVG) {
	g := c.Geometry
	canvas.Text(g.Width()/2, -g.Margin.Top/2, Title,
		`id="title"`, `text-anchor="middle"`, "font-weight:bold;font-size:2rem")
	canvas.Text(g.Width()/2, -g.Margin.Top/2+25, c.Description(),
		`id="description"`, `text-anchor="middle"`, "font-weight:bold;font-size:1.2rem;fill:gray")
}

func (c *Chart) renderXAxis(canvas *svg.SVG) {
	canvas.Group(`id="x-axis"`, fmt.Sprintf(`transform="translate(0,%s)"`, num(c.Geometry.Height())))
	renderBottomAxis(canvas, YearTicks(c.X), c.Geometry.Width())
	canvas.Gend()
}

func (c *Chart) renderYAxis(canvas *svg.SVG) {
	height := c.Geometry.Height()
	canvas.Group(`id="y-axis"`, `fill="none"`, `font-size="10"`, `font-family="sans-serif"`, `text-anchor="end"`)
	canvas.Path(fmt.Sprintf("M%d,0H0V%sH%d", -tickSize, num(height), -tickSize), `class="domain"`, `stroke="currentColor"`)
	for _, t := range MonthTicks(c.Y) {
		canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(0,%s)"`, num(t.Pos)))
		canvas.Line(0, 0, -tickSize, 0, `stroke="currentColor"`)
		canvas.Text(-tickSize-tickPadding, 0, t.Label, `fill="currentColor"`, `dy="0.32em"`)
		canvas.Gend()
	}
	canvas.Gend()
}

func (c *Chart) renderLegend(canvas *svg.SVG) {
	width := float64(domain.BandCount * legendBandWidth)
	canvas.Group(`id="legend"`,
		fmt.Sprintf(`transform="translate(0,%s)"`, num(c.Geometry.Height()+legendOffset)),
		fmt.Sprintf(`width="%s"`, num(width)),
		fmt.Sprintf(`height="%d"`, legendBandHeight))
	renderBottomAxis(canvas, LegendTicks(c.Legend), width)
	for band := 0; band < domain.BandCount; band++ {
		canvas.Rect(float64(band*legendBandWidth), -legendBandHeight, legendBandWidth, legendBandHeight,
			fmt.Sprintf(`fill="url(#%s)"`, gradientID(band)))
	}
	canvas.Gend()
}

func (c *Chart) renderCells(canvas *svg.SVG, opts SVGOptions) {
	for _, cell := range c.Cells() {
		attrs := []string{
			`class="cell"`,
			attr("fill", cell.Fill),
			attr("data-month", strconv.Itoa(cell.Month)),
			attr("data-year", strconv.Itoa(cell.Year)),
			attr("data-temp", formatNumber(cell.Temperature)),
			attr("data-tooltip", strings.Join(TooltipLines(cell), "\n")),
		}
		if opts.Interactive {
			attrs = append(attrs, `onmouseover="heatmapOver(evt)"`, `onmouseout="heatmapOut(evt)"`)
		}
		canvas.Rect(cell.X, cell.Y, cell.Width, cell.Height, attrs...)
	}
}

// renderBottomAxis draws a horizontal axis line with downward ticks, in the
// caller's coordinate space.
func renderBottomAxis(canvas *svg.SVG, ticks []Tick, length float64) {
	canvas.Group(`fill="none"`, `font-size="10"`, `font-family="sans-serif"`, `text-anchor="middle"`)
	canvas.Path(fmt.Sprintf("M0,%dV0H%sV%d", tickSize, num(length), tickSize), `class="domain"`, `stroke="currentColor"`)
	for _, t := range ticks {
		canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(%s,0)"`, num(t.Pos)))
		canvas.Line(0, 0, 0, tickSize, `stroke="currentColor"`)
		canvas.Text(0, tickSize+tickPadding, t.Label, `fill="currentColor"`, `dy="0.71em"`)
		canvas.Gend()
	}
	canvas.Gend()
}

func gradientID(band int) string {
	return "gradient" + strconv.Itoa(band+1)
}

// attr renders name="value" with value escaped for XML, including newlines.
func attr(name, value string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(`="`)
	_ = xml.EscapeText(&b, []byte(value))
	b.WriteString(`"`)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
